package response

import (
	"time"

	"stayflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID         uuid.UUID  `json:"id"`
	RoomID     uuid.UUID  `json:"roomId"`
	RoomName   string     `json:"roomName"`
	GuestID    uuid.UUID  `json:"guestId"`
	GuestEmail string     `json:"guestEmail"`
	CheckIn    string     `json:"checkIn"`
	CheckOut   string     `json:"checkOut"`
	Guests     int        `json:"guests"`
	TotalCents int64      `json:"totalCents"`
	Status     string     `json:"status"`
	PaymentID  *uuid.UUID `json:"paymentId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"roomId"`
	RoomName   string    `json:"roomName"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	Guests     int       `json:"guests"`
	TotalCents int64     `json:"totalCents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromReservationView(view *queries.ReservationView) (*ReservationResponse, error) {
	var resp ReservationResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromReservationListItems(items []*queries.ReservationListItem) ([]*ReservationListResponse, error) {
	resps := make([]*ReservationListResponse, 0, len(items))
	for _, item := range items {
		var resp ReservationListResponse
		if err := copier.Copy(&resp, item); err != nil {
			return nil, err
		}
		resps = append(resps, &resp)
	}
	return resps, nil
}
