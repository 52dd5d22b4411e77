package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Room errors
	ErrRoomNotFound = errors.New("room not found")

	// Booking intent errors
	ErrNoActiveBooking  = errors.New("no active booking")
	ErrIntentValidation = errors.New("booking intent validation failed")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationConflict = errors.New("reservation conflict")

	// Payment errors
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentNotCompleted = errors.New("payment not completed by processor")

	// Saga errors
	ErrSagaNotFound     = errors.New("saga not found")
	ErrSagaBusy         = errors.New("saga step already in progress")
	ErrSagaNotRetryable = errors.New("saga failure is not retryable")
	ErrSagaInvalidPhase = errors.New("saga is not in a phase that allows this action")

	// Request errors
	ErrUnauthenticated = errors.New("user not authenticated")
)
