package room

import (
	"encoding/json"

	"github.com/google/uuid"
)

type snapshotJSON struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RoomType           string    `json:"roomType"`
	PricePerNightCents int64     `json:"pricePerNightCents"`
	MaxGuests          int       `json:"maxGuests"`
	ImageURL           string    `json:"imageUrl,omitempty"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		ID:                 s.id,
		Name:               s.name,
		RoomType:           s.roomType,
		PricePerNightCents: s.pricePerNightCents,
		MaxGuests:          s.maxGuests,
		ImageURL:           s.imageURL,
	})
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	snapshot, err := NewSnapshot(raw.ID, raw.Name, raw.RoomType, raw.PricePerNightCents, raw.MaxGuests, raw.ImageURL)
	if err != nil {
		return err
	}
	*s = snapshot
	return nil
}
