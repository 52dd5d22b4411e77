package queries

import (
	"context"

	"stayflow/internal/domain/booking"
	"stayflow/internal/infra"
	"stayflow/internal/pkg/errs"

	"github.com/google/uuid"
)

type QuoteView struct {
	RoomID             uuid.UUID `json:"room_id"`
	RoomName           string    `json:"room_name"`
	CheckIn            string    `json:"check_in"`
	CheckOut           string    `json:"check_out"`
	Nights             int       `json:"nights"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalCents         int64     `json:"total_cents"`
}

// BookingQueries prices a prospective stay without touching any state.
// The same arithmetic runs again when the intent is captured; this is
// just the preview.
type BookingQueries interface {
	Quote(ctx context.Context, roomID uuid.UUID, checkIn, checkOut string) (*QuoteView, error)
}

type bookingQueriesImpl struct {
	rooms RoomReadStore
}

func NewBookingQueries(rooms RoomReadStore) BookingQueries {
	return &bookingQueriesImpl{rooms: rooms}
}

func (q *bookingQueriesImpl) Quote(ctx context.Context, roomID uuid.UUID, checkIn, checkOut string) (*QuoteView, error) {
	view, err := q.rooms.FindByID(ctx, roomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, err
	}

	stay, err := booking.NewStay(checkIn, checkOut)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIntentValidation)
	}

	quote := booking.PriceStay(stay, view.PricePerNightCents)
	return &QuoteView{
		RoomID:             view.ID,
		RoomName:           view.Name,
		CheckIn:            stay.CheckInDate(),
		CheckOut:           stay.CheckOutDate(),
		Nights:             quote.Nights,
		PricePerNightCents: view.PricePerNightCents,
		TotalCents:         quote.TotalCents,
	}, nil
}
