package commands

import (
	"context"
	"log/slog"

	"stayflow/internal/domain/booking"
	"stayflow/internal/domain/room"
	"stayflow/internal/pkg/config"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"
	"stayflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type BeginBookingInput struct {
	RoomID   uuid.UUID
	CheckIn  string
	CheckOut string
	Guests   int
}

// Actor identifies the authenticated caller. A nil Actor means the
// request carried no valid credentials.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// BeginResult is either a started saga or a sign-in redirect. When the
// caller is unauthenticated the intent has been parked server-side and
// the flow resumes at ReturnTo after sign-in.
type BeginResult struct {
	RequiresSignIn bool
	SignInURL      string
	ReturnTo       string
	State          *saga.State
}

// BookingCommands is the write side of the booking flow. Every method
// is keyed by the booking session cookie, not the user: the flow exists
// before the guest is signed in.
type BookingCommands interface {
	Begin(ctx context.Context, sessionID string, actor *Actor, input BeginBookingInput) (*BeginResult, error)
	Resume(ctx context.Context, sessionID string, guestID uuid.UUID) (*saga.State, error)
	Current(ctx context.Context, sessionID string) (*saga.State, error)
	Proceed(ctx context.Context, sessionID string) (*saga.State, error)
	ReportPaymentOutcome(ctx context.Context, sessionID string, succeeded bool, failureMessage string) (*saga.State, error)
	Retry(ctx context.Context, sessionID string) (*saga.State, error)
	Abandon(ctx context.Context, sessionID string) error
}

type bookingCommandsImpl struct {
	rooms      queries.RoomReadStore
	intents    saga.IntentStore
	states     saga.StateStore
	controller *saga.Controller
	cfg        config.BookingConfig
}

func NewBookingCommands(
	rooms queries.RoomReadStore,
	intents saga.IntentStore,
	states saga.StateStore,
	controller *saga.Controller,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		rooms:      rooms,
		intents:    intents,
		states:     states,
		controller: controller,
		cfg:        cfg,
	}
}

// Begin captures the guest's selection as an intent. Authenticated
// callers go straight into the flow; unauthenticated callers get a
// sign-in redirect while the intent waits server-side, surviving the
// full navigation that sign-in involves.
func (b *bookingCommandsImpl) Begin(ctx context.Context, sessionID string, actor *Actor, input BeginBookingInput) (*BeginResult, error) {
	intent, err := b.buildIntent(ctx, input)
	if err != nil {
		return nil, err
	}

	if actor == nil {
		if err := b.intents.PersistAcrossRedirect(ctx, sessionID, intent); err != nil {
			return nil, err
		}
		slog.Info("booking intent parked for sign-in", "session_id", sessionID, "room_id", input.RoomID)
		return &BeginResult{
			RequiresSignIn: true,
			SignInURL:      b.cfg.SignInURL,
			ReturnTo:       b.cfg.ResumeURL,
		}, nil
	}

	state, err := b.controller.Begin(ctx, sessionID, actor.ID, intent)
	if err != nil {
		return nil, err
	}
	return &BeginResult{State: state}, nil
}

// Resume picks the parked intent back up after sign-in. Only the
// persisted slot is consulted, and the read consumes it: a second
// resume, or a reload of the resume page, finds nothing and reports no
// active booking instead of restarting a flow already underway.
func (b *bookingCommandsImpl) Resume(ctx context.Context, sessionID string, guestID uuid.UUID) (*saga.State, error) {
	intent, ok, err := b.intents.ConsumePersisted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrNoActiveBooking
	}
	return b.controller.Begin(ctx, sessionID, guestID, intent)
}

func (b *bookingCommandsImpl) Current(ctx context.Context, sessionID string) (*saga.State, error) {
	return b.controller.Current(ctx, sessionID)
}

func (b *bookingCommandsImpl) Proceed(ctx context.Context, sessionID string) (*saga.State, error) {
	return b.controller.Proceed(ctx, sessionID)
}

func (b *bookingCommandsImpl) ReportPaymentOutcome(ctx context.Context, sessionID string, succeeded bool, failureMessage string) (*saga.State, error) {
	return b.controller.ReportPaymentOutcome(ctx, sessionID, saga.PaymentOutcome{
		Succeeded:      succeeded,
		FailureMessage: failureMessage,
	})
}

func (b *bookingCommandsImpl) Retry(ctx context.Context, sessionID string) (*saga.State, error) {
	return b.controller.Retry(ctx, sessionID)
}

// Abandon drops the session's intent and saga state. Reservations and
// payments already created stay in the database for the backend expiry
// policy to deal with.
func (b *bookingCommandsImpl) Abandon(ctx context.Context, sessionID string) error {
	if err := b.intents.Discard(ctx, sessionID); err != nil {
		return err
	}
	return b.states.Delete(ctx, sessionID)
}

func (b *bookingCommandsImpl) buildIntent(ctx context.Context, input BeginBookingInput) (booking.Intent, error) {
	view, err := b.rooms.FindByID(ctx, input.RoomID)
	if err != nil {
		return booking.Intent{}, err
	}

	snapshot, err := room.NewSnapshot(view.ID, view.Name, view.RoomType, view.PricePerNightCents, view.MaxGuests, view.ImageURL)
	if err != nil {
		return booking.Intent{}, errs.Mark(err, errs.ErrIntentValidation)
	}
	stay, err := booking.NewStay(input.CheckIn, input.CheckOut)
	if err != nil {
		return booking.Intent{}, errs.Mark(err, errs.ErrIntentValidation)
	}
	intent, err := booking.NewIntent(snapshot, stay, input.Guests)
	if err != nil {
		return booking.Intent{}, errs.Mark(err, errs.ErrIntentValidation)
	}
	return intent, nil
}
