package request

import (
	"github.com/google/uuid"
)

type BeginBookingRequest struct {
	RoomID   uuid.UUID `json:"roomId" binding:"required"`
	CheckIn  string    `json:"checkIn" binding:"required"`
	CheckOut string    `json:"checkOut" binding:"required"`
	Guests   int       `json:"guests" binding:"required,min=1"`
}

// PaymentOutcomeRequest reports the terminal result of the external
// payment UI. FailureMessage is only meaningful when Succeeded is
// false.
type PaymentOutcomeRequest struct {
	Succeeded      bool   `json:"succeeded"`
	FailureMessage string `json:"failureMessage,omitempty"`
}
