package saga

import (
	"context"

	"stayflow/internal/domain/booking"

	"github.com/google/uuid"
)

// ReservationRequest carries everything the reservation collaborator
// needs to create a record for the guest's stay.
type ReservationRequest struct {
	RoomID     uuid.UUID
	GuestID    uuid.UUID
	CheckIn    string
	CheckOut   string
	Guests     int
	TotalCents int64
}

type ReservationHandle struct {
	ID uuid.UUID
}

// ReservationService is the first backend collaborator the saga drives.
// Create fails with a conflict error when the room is unavailable for
// the dates; no record exists after a failure.
type ReservationService interface {
	Create(ctx context.Context, req ReservationRequest) (ReservationHandle, error)
}

type PaymentIntentHandle struct {
	PaymentIntentID string
	ClientSecret    string
}

// PaymentService is the second backend collaborator. CreateIntent must
// tolerate being called again for the same reservation (the retry path
// after a payment-setup failure). Confirm fails when the processor has
// not actually completed the charge.
type PaymentService interface {
	CreateIntent(ctx context.Context, reservationID uuid.UUID) (PaymentIntentHandle, error)
	Confirm(ctx context.Context, paymentIntentID string) error
}

// PaymentOutcome is the single terminal result reported by the external
// payment UI. The controller never drives that step; it only consumes
// exactly one of success or failure.
type PaymentOutcome struct {
	Succeeded      bool
	FailureMessage string
}

// IntentStore captures and persists booking intents. The persisted slot
// survives a full navigation (the authentication redirect) but not a
// new browser session, and is read-once: ConsumePersisted atomically
// clears it.
type IntentStore interface {
	Capture(ctx context.Context, sessionID string, intent booking.Intent) error
	PersistAcrossRedirect(ctx context.Context, sessionID string, intent booking.Intent) error
	ConsumePersisted(ctx context.Context, sessionID string) (booking.Intent, bool, error)
	// Resolve returns the transient intent when present, otherwise the
	// persisted one (consuming it). The second return is false when
	// neither exists, meaning no active booking.
	Resolve(ctx context.Context, sessionID string) (booking.Intent, bool, error)
	Discard(ctx context.Context, sessionID string) error
}

// StateStore persists saga state between the discrete user actions and
// network completions that advance it.
type StateStore interface {
	Save(ctx context.Context, state *State) error
	// Find returns errs.ErrSagaNotFound when no saga exists for the session.
	Find(ctx context.Context, sessionID string) (*State, error)
	Delete(ctx context.Context, sessionID string) error
}

// StepLocker serializes step execution per session. Acquire returns
// errs.ErrSagaBusy while another step for the same saga is outstanding,
// which is how a double-submit is rejected.
type StepLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}
