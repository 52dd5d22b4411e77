package response

import (
	"time"

	"stayflow/internal/saga"

	"github.com/google/uuid"
)

// BookingFlowResponse is the client's view of the flow: where it is,
// what failed, and whether retrying is an option. The client secret is
// present only while the external payment UI needs it.
type BookingFlowResponse struct {
	Phase         string              `json:"phase"`
	Reason        string              `json:"reason,omitempty"`
	Message       string              `json:"message,omitempty"`
	CanRetry      bool                `json:"canRetry"`
	Intent        *BookingIntentBlock `json:"intent,omitempty"`
	ReservationID *uuid.UUID          `json:"reservationId,omitempty"`
	ClientSecret  string              `json:"clientSecret,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type BookingIntentBlock struct {
	RoomID             uuid.UUID `json:"roomId"`
	RoomName           string    `json:"roomName"`
	CheckIn            string    `json:"checkIn"`
	CheckOut           string    `json:"checkOut"`
	Guests             int       `json:"guests"`
	Nights             int       `json:"nights"`
	PricePerNightCents int64     `json:"pricePerNightCents"`
	TotalCents         int64     `json:"totalCents"`
}

type SignInRedirectResponse struct {
	SignInURL string `json:"signInUrl"`
	ReturnTo  string `json:"returnTo"`
}

func FromSagaState(state *saga.State) *BookingFlowResponse {
	resp := &BookingFlowResponse{
		Phase:         string(state.Phase),
		Reason:        string(state.Reason),
		Message:       state.Message,
		CanRetry:      state.CanRetry(),
		ReservationID: state.ReservationID,
		UpdatedAt:     state.UpdatedAt,
	}

	if state.Phase == saga.PhaseAwaitingPayment {
		resp.ClientSecret = state.ClientSecret
	}

	if !state.Intent.Room.IsZero() {
		quote := state.Intent.Quote()
		resp.Intent = &BookingIntentBlock{
			RoomID:             state.Intent.Room.ID(),
			RoomName:           state.Intent.Room.Name(),
			CheckIn:            state.Intent.Stay.CheckInDate(),
			CheckOut:           state.Intent.Stay.CheckOutDate(),
			Guests:             state.Intent.Guests,
			Nights:             quote.Nights,
			PricePerNightCents: state.Intent.Room.PricePerNightCents(),
			TotalCents:         quote.TotalCents,
		}
	}

	return resp
}
