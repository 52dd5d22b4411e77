package saga

import (
	"context"
	"log/slog"

	"stayflow/internal/domain/booking"
	"stayflow/internal/pkg/clock"
	"stayflow/internal/pkg/errs"

	"github.com/google/uuid"
)

// User-facing failure messages. The confirmation one is deliberately
// distinct: the charge went through but the backend record disagrees,
// so the guest must not be invited to retry.
const (
	msgReservationFailed  = "Failed to create reservation. Please try again."
	msgPaymentSetupFailed = "Failed to set up payment. Please try again."
	msgPaymentFailed      = "Payment failed. Please try again."
	msgConfirmationFailed = "Payment succeeded but confirmation failed. Please contact support."
)

// Controller sequences reservation creation, payment-intent creation,
// the external payment confirmation, and the backend payment
// confirmation for one booking session. Each backend call is issued at
// most once per invocation; re-entry after a recoverable failure
// re-issues only the calls from the failed step onward.
type Controller struct {
	reservations ReservationService
	payments     PaymentService
	states       StateStore
	locks        StepLocker
	intents      IntentStore
	clock        clock.Clock
}

func NewController(
	reservations ReservationService,
	payments PaymentService,
	states StateStore,
	locks StepLocker,
	intents IntentStore,
	clk clock.Clock,
) *Controller {
	return &Controller{
		reservations: reservations,
		payments:     payments,
		states:       states,
		locks:        locks,
		intents:      intents,
		clock:        clk,
	}
}

// Begin starts a fresh saga at ReviewingBooking for the session,
// replacing any earlier unfinished run. The intent must already have
// passed validation; it is re-checked here because an invalid intent
// must never start the saga.
func (c *Controller) Begin(ctx context.Context, sessionID string, guestID uuid.UUID, intent booking.Intent) (*State, error) {
	if err := intent.Validate(); err != nil {
		return nil, errs.Mark(err, errs.ErrIntentValidation)
	}

	if err := c.intents.Capture(ctx, sessionID, intent); err != nil {
		return nil, errs.Wrap(err, "failed to capture booking intent")
	}

	state := newState(sessionID, guestID, intent, c.clock.Now())
	if err := c.states.Save(ctx, state); err != nil {
		return nil, errs.Wrap(err, "failed to save saga state")
	}

	slog.Info("booking saga started",
		"session_id", sessionID,
		"room_id", intent.Room.ID(),
		"nights", intent.Stay.Nights())
	return state, nil
}

// Current returns the saga state for the session without advancing it.
func (c *Controller) Current(ctx context.Context, sessionID string) (*State, error) {
	return c.states.Find(ctx, sessionID)
}

// Proceed is the guest's explicit confirmation from ReviewingBooking.
// It drives reservation creation and then payment-intent creation,
// stopping at AwaitingPayment or at the first failure.
func (c *Controller) Proceed(ctx context.Context, sessionID string) (*State, error) {
	release, err := c.locks.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := c.states.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Phase != PhaseReviewingBooking {
		return nil, errs.ErrSagaInvalidPhase
	}

	if err := state.advance(PhaseCreatingReservation, c.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.states.Save(ctx, state); err != nil {
		return nil, errs.Wrap(err, "failed to save saga state")
	}

	return c.run(ctx, state)
}

// Retry re-enters the saga after a recoverable failure. Only the calls
// from the failed step onward are re-issued: a reservation failure
// re-creates the reservation from the same intent, a payment-setup
// failure reuses the stored reservation id, and a payment failure
// returns to AwaitingPayment with the same client secret and issues no
// backend call at all.
func (c *Controller) Retry(ctx context.Context, sessionID string) (*State, error) {
	release, err := c.locks.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := c.states.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entry, err := state.reenter(c.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := c.states.Save(ctx, state); err != nil {
		return nil, errs.Wrap(err, "failed to save saga state")
	}

	slog.Info("booking saga retrying", "session_id", sessionID, "entry_phase", string(entry))
	return c.run(ctx, state)
}

// ReportPaymentOutcome feeds the external processor's terminal callback
// into the saga. Success moves to ConfirmingPayment and issues the
// backend confirmation; failure is recoverable with the same client
// secret.
func (c *Controller) ReportPaymentOutcome(ctx context.Context, sessionID string, outcome PaymentOutcome) (*State, error) {
	release, err := c.locks.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := c.states.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Phase != PhaseAwaitingPayment {
		return nil, errs.ErrSagaInvalidPhase
	}

	now := c.clock.Now()
	if !outcome.Succeeded {
		message := outcome.FailureMessage
		if message == "" {
			message = msgPaymentFailed
		}
		state.fail(FailurePayment, message, now)
		if err := c.states.Save(ctx, state); err != nil {
			return nil, errs.Wrap(err, "failed to save saga state")
		}
		slog.Warn("payment declined by processor", "session_id", sessionID, "message", message)
		return state, nil
	}

	if err := state.advance(PhaseConfirmingPayment, now); err != nil {
		return nil, err
	}
	if err := c.states.Save(ctx, state); err != nil {
		return nil, errs.Wrap(err, "failed to save saga state")
	}

	if err := c.payments.Confirm(ctx, state.PaymentIntentID); err != nil {
		state.fail(FailureConfirmation, msgConfirmationFailed, c.clock.Now())
		if saveErr := c.states.Save(ctx, state); saveErr != nil {
			return nil, errs.Wrap(saveErr, "failed to save saga state")
		}
		slog.Error("payment confirmation failed after successful charge",
			"session_id", sessionID,
			"payment_intent_id", state.PaymentIntentID,
			"error", err)
		return state, nil
	}

	if err := state.advance(PhaseCompleted, c.clock.Now()); err != nil {
		return nil, err
	}
	if err := c.states.Save(ctx, state); err != nil {
		return nil, errs.Wrap(err, "failed to save saga state")
	}

	// The intent is consumed exactly once; completion discards it.
	if err := c.intents.Discard(ctx, sessionID); err != nil {
		slog.Warn("failed to discard booking intent after completion", "session_id", sessionID, "error", err)
	}

	slog.Info("booking saga completed",
		"session_id", sessionID,
		"reservation_id", state.ReservationID,
		"payment_intent_id", state.PaymentIntentID)
	return state, nil
}

// run executes the steps the current phase calls for. Step failures are
// recorded in the state, not returned as errors; the returned error is
// reserved for infrastructure problems.
func (c *Controller) run(ctx context.Context, state *State) (*State, error) {
	if state.Phase == PhaseCreatingReservation {
		handle, err := c.reservations.Create(ctx, ReservationRequest{
			RoomID:     state.Intent.Room.ID(),
			GuestID:    state.GuestID,
			CheckIn:    state.Intent.Stay.CheckInDate(),
			CheckOut:   state.Intent.Stay.CheckOutDate(),
			Guests:     state.Intent.Guests,
			TotalCents: state.Intent.Quote().TotalCents,
		})
		if err != nil {
			state.fail(FailureReservation, msgReservationFailed, c.clock.Now())
			if saveErr := c.states.Save(ctx, state); saveErr != nil {
				return nil, errs.Wrap(saveErr, "failed to save saga state")
			}
			slog.Warn("reservation creation failed", "session_id", state.SessionID, "error", err)
			return state, nil
		}

		state.ReservationID = &handle.ID
		if err := state.advance(PhaseCreatingPaymentIntent, c.clock.Now()); err != nil {
			return nil, err
		}
		if err := c.states.Save(ctx, state); err != nil {
			return nil, errs.Wrap(err, "failed to save saga state")
		}
	}

	if state.Phase == PhaseCreatingPaymentIntent {
		if state.ReservationID == nil {
			return nil, errs.New("payment intent step reached without a reservation")
		}

		handle, err := c.payments.CreateIntent(ctx, *state.ReservationID)
		if err != nil {
			// The reservation exists with no payment attached: the known
			// orphan window. The controller does not roll it back; a
			// backend expiry policy owns cleanup.
			state.fail(FailurePaymentSetup, msgPaymentSetupFailed, c.clock.Now())
			if saveErr := c.states.Save(ctx, state); saveErr != nil {
				return nil, errs.Wrap(saveErr, "failed to save saga state")
			}
			slog.Warn("payment intent creation failed",
				"session_id", state.SessionID,
				"reservation_id", *state.ReservationID,
				"error", err)
			return state, nil
		}

		state.PaymentIntentID = handle.PaymentIntentID
		state.ClientSecret = handle.ClientSecret
		if err := state.advance(PhaseAwaitingPayment, c.clock.Now()); err != nil {
			return nil, err
		}
		if err := c.states.Save(ctx, state); err != nil {
			return nil, errs.Wrap(err, "failed to save saga state")
		}
	}

	return state, nil
}
