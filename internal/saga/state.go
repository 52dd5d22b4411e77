package saga

import (
	"time"

	"stayflow/internal/domain/booking"
	"stayflow/internal/pkg/errs"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseReviewingBooking      Phase = "reviewing_booking"
	PhaseCreatingReservation   Phase = "creating_reservation"
	PhaseCreatingPaymentIntent Phase = "creating_payment_intent"
	PhaseAwaitingPayment       Phase = "awaiting_payment"
	PhaseConfirmingPayment     Phase = "confirming_payment"
	PhaseCompleted             Phase = "completed"
	PhaseFailed                Phase = "failed"
)

// phaseRank orders the happy path. Transitions only ever move to a
// higher rank, or into PhaseFailed.
var phaseRank = map[Phase]int{
	PhaseReviewingBooking:      0,
	PhaseCreatingReservation:   1,
	PhaseCreatingPaymentIntent: 2,
	PhaseAwaitingPayment:       3,
	PhaseConfirmingPayment:     4,
	PhaseCompleted:             5,
}

type FailureReason string

const (
	FailureReservation  FailureReason = "reservation"
	FailurePaymentSetup FailureReason = "payment-setup"
	FailurePayment      FailureReason = "payment"
	FailureConfirmation FailureReason = "confirmation"
)

// retryEntry maps a recoverable failure reason to the phase a retry
// re-enters. Everything already achieved in the failed run (reservation
// id, client secret) is retained, so only the calls from that phase
// onward are re-issued.
var retryEntry = map[FailureReason]Phase{
	FailureReservation:  PhaseCreatingReservation,
	FailurePaymentSetup: PhaseCreatingPaymentIntent,
	FailurePayment:      PhaseAwaitingPayment,
}

// State is the persisted condition of one saga run, keyed by booking
// session. Exactly one exists per session at a time.
type State struct {
	SessionID       string         `json:"sessionId"`
	GuestID         uuid.UUID      `json:"guestId"`
	Phase           Phase          `json:"phase"`
	Reason          FailureReason  `json:"reason,omitempty"`
	Message         string         `json:"message,omitempty"`
	Intent          booking.Intent `json:"intent"`
	ReservationID   *uuid.UUID     `json:"reservationId,omitempty"`
	PaymentIntentID string         `json:"paymentIntentId,omitempty"`
	ClientSecret    string         `json:"clientSecret,omitempty"`
	StartedAt       time.Time      `json:"startedAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func newState(sessionID string, guestID uuid.UUID, intent booking.Intent, now time.Time) *State {
	return &State{
		SessionID: sessionID,
		GuestID:   guestID,
		Phase:     PhaseReviewingBooking,
		Intent:    intent,
		StartedAt: now,
		UpdatedAt: now,
	}
}

func (s *State) IsTerminal() bool {
	return s.Phase == PhaseCompleted || (s.Phase == PhaseFailed && !s.CanRetry())
}

// CanRetry reports whether the guest may retry after a failure.
// Confirmation failures are excluded: money has moved but the backend
// record disagrees, so the only path is support.
func (s *State) CanRetry() bool {
	if s.Phase != PhaseFailed {
		return false
	}
	_, ok := retryEntry[s.Reason]
	return ok
}

// advance moves forward along the happy path. Backward moves and moves
// out of a terminal phase are rejected.
func (s *State) advance(to Phase, now time.Time) error {
	if s.Phase == PhaseCompleted || s.Phase == PhaseFailed {
		return errs.New("cannot advance out of terminal phase " + string(s.Phase))
	}
	if phaseRank[to] <= phaseRank[s.Phase] {
		return errs.New("cannot advance from " + string(s.Phase) + " to " + string(to))
	}
	s.Phase = to
	s.Reason = ""
	s.Message = ""
	s.UpdatedAt = now
	return nil
}

// fail records a failure with its machine-distinguishable reason and a
// human-readable message. Terminal for the current run.
func (s *State) fail(reason FailureReason, message string, now time.Time) {
	s.Phase = PhaseFailed
	s.Reason = reason
	s.Message = message
	s.UpdatedAt = now
}

// reenter starts a fresh run from the phase the failure reason maps to.
func (s *State) reenter(now time.Time) (Phase, error) {
	if s.Phase != PhaseFailed {
		return "", errs.Mark(errs.New("retry requires a failed saga"), errs.ErrSagaNotRetryable)
	}
	entry, ok := retryEntry[s.Reason]
	if !ok {
		return "", errs.ErrSagaNotRetryable
	}
	s.Phase = entry
	s.Reason = ""
	s.Message = ""
	s.UpdatedAt = now
	return entry, nil
}
