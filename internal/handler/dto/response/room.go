package response

import (
	"time"

	"stayflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RoomType           string    `json:"roomType"`
	PricePerNightCents int64     `json:"pricePerNightCents"`
	MaxGuests          int       `json:"maxGuests"`
	ImageURL           string    `json:"imageUrl"`
	CreatedAt          time.Time `json:"createdAt"`
}

type QuoteResponse struct {
	RoomID             uuid.UUID `json:"roomId"`
	RoomName           string    `json:"roomName"`
	CheckIn            string    `json:"checkIn"`
	CheckOut           string    `json:"checkOut"`
	Nights             int       `json:"nights"`
	PricePerNightCents int64     `json:"pricePerNightCents"`
	TotalCents         int64     `json:"totalCents"`
}

func FromRoomView(view *queries.RoomView) (*RoomResponse, error) {
	var resp RoomResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromRoomViews(views []*queries.RoomView) ([]*RoomResponse, error) {
	resps := make([]*RoomResponse, 0, len(views))
	for _, view := range views {
		resp, err := FromRoomView(view)
		if err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

func FromQuoteView(view *queries.QuoteView) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}
