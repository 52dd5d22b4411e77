package booking

import "encoding/json"

type stayJSON struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

func (s Stay) MarshalJSON() ([]byte, error) {
	return json.Marshal(stayJSON{
		CheckIn:  s.CheckInDate(),
		CheckOut: s.CheckOutDate(),
	})
}

func (s *Stay) UnmarshalJSON(data []byte) error {
	var raw stayJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	stay, err := NewStay(raw.CheckIn, raw.CheckOut)
	if err != nil {
		return err
	}
	*s = stay
	return nil
}
