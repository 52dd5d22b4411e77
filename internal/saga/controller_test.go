//go:build unit

package saga_test

import (
	"context"
	"testing"
	"time"

	"stayflow/internal/domain/booking"
	"stayflow/internal/domain/room"
	"stayflow/internal/pkg/clock"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"
	sagamock "stayflow/tests/mock/saga"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ControllerTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	reservations *sagamock.MockReservationService
	payments     *sagamock.MockPaymentService
	states       *sagamock.MockStateStore
	locks        *sagamock.MockStepLocker
	intents      *sagamock.MockIntentStore
	clock        *clock.MockClock
	controller   *saga.Controller

	sessionID string
	guestID   uuid.UUID
	intent    booking.Intent
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.reservations = sagamock.NewMockReservationService(s.ctrl)
	s.payments = sagamock.NewMockPaymentService(s.ctrl)
	s.states = sagamock.NewMockStateStore(s.ctrl)
	s.locks = sagamock.NewMockStepLocker(s.ctrl)
	s.intents = sagamock.NewMockIntentStore(s.ctrl)
	s.clock = clock.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.controller = saga.NewController(s.reservations, s.payments, s.states, s.locks, s.intents, s.clock)

	s.sessionID = uuid.New().String()
	s.guestID = uuid.New()

	snapshot, err := room.NewSnapshot(uuid.New(), "Deluxe Ocean View", "deluxe", 20000, 2, "https://img.example/ocean.jpg")
	s.Require().NoError(err)
	stay, err := booking.NewStay("2024-06-01", "2024-06-04")
	s.Require().NoError(err)
	s.intent, err = booking.NewIntent(snapshot, stay, 2)
	s.Require().NoError(err)
}

func (s *ControllerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ControllerTestSuite) expectLock() {
	s.locks.EXPECT().Acquire(gomock.Any(), s.sessionID).Return(func() {}, nil)
}

// stateAt builds a persisted state as a prior run would have left it.
func (s *ControllerTestSuite) stateAt(phase saga.Phase, mutate func(*saga.State)) *saga.State {
	st := &saga.State{
		SessionID: s.sessionID,
		GuestID:   s.guestID,
		Phase:     phase,
		Intent:    s.intent,
		StartedAt: s.clock.Now().Add(-time.Minute),
		UpdatedAt: s.clock.Now().Add(-time.Minute),
	}
	if mutate != nil {
		mutate(st)
	}
	return st
}

func (s *ControllerTestSuite) TestBegin() {
	s.intents.EXPECT().Capture(gomock.Any(), s.sessionID, s.intent).Return(nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	state, err := s.controller.Begin(context.Background(), s.sessionID, s.guestID, s.intent)

	s.Require().NoError(err)
	s.Equal(saga.PhaseReviewingBooking, state.Phase)
	s.Equal(s.sessionID, state.SessionID)
	s.Equal(s.guestID, state.GuestID)
	s.False(state.IsTerminal())
}

func (s *ControllerTestSuite) TestBeginRejectsInvalidIntent() {
	bad := booking.Intent{Room: s.intent.Room, Stay: s.intent.Stay, Guests: 0}

	_, err := s.controller.Begin(context.Background(), s.sessionID, s.guestID, bad)

	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrIntentValidation)
}

func (s *ControllerTestSuite) TestProceedHappyPath() {
	reservationID := uuid.New()
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseReviewingBooking, nil), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	// Reservation strictly before payment intent; intent carries the
	// reservation id the first call produced.
	gomock.InOrder(
		s.reservations.EXPECT().
			Create(gomock.Any(), saga.ReservationRequest{
				RoomID:     s.intent.Room.ID(),
				GuestID:    s.guestID,
				CheckIn:    "2024-06-01",
				CheckOut:   "2024-06-04",
				Guests:     2,
				TotalCents: 60000, // 3 nights at 20000
			}).
			Return(saga.ReservationHandle{ID: reservationID}, nil),
		s.payments.EXPECT().
			CreateIntent(gomock.Any(), reservationID).
			Return(saga.PaymentIntentHandle{PaymentIntentID: "pi_123", ClientSecret: "pi_123_secret"}, nil),
	)

	state, err := s.controller.Proceed(context.Background(), s.sessionID)

	s.Require().NoError(err)
	s.Equal(saga.PhaseAwaitingPayment, state.Phase)
	s.Require().NotNil(state.ReservationID)
	s.Equal(reservationID, *state.ReservationID)
	s.Equal("pi_123", state.PaymentIntentID)
	s.Equal("pi_123_secret", state.ClientSecret)
}

func (s *ControllerTestSuite) TestProceedReservationFailure() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseReviewingBooking, nil), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	// No CreateIntent expectation: a reservation failure must never
	// reach the payment step.
	s.reservations.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(saga.ReservationHandle{}, errs.ErrReservationConflict)

	state, err := s.controller.Proceed(context.Background(), s.sessionID)

	s.Require().NoError(err)
	s.Equal(saga.PhaseFailed, state.Phase)
	s.Equal(saga.FailureReservation, state.Reason)
	s.Equal("Failed to create reservation. Please try again.", state.Message)
	s.True(state.CanRetry())
	s.Nil(state.ReservationID)
}

func (s *ControllerTestSuite) TestProceedPaymentSetupFailure() {
	reservationID := uuid.New()
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseReviewingBooking, nil), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	s.reservations.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(saga.ReservationHandle{ID: reservationID}, nil)
	s.payments.EXPECT().
		CreateIntent(gomock.Any(), reservationID).
		Return(saga.PaymentIntentHandle{}, errs.New("gateway unavailable"))

	state, err := s.controller.Proceed(context.Background(), s.sessionID)

	s.Require().NoError(err)
	s.Equal(saga.PhaseFailed, state.Phase)
	s.Equal(saga.FailurePaymentSetup, state.Reason)
	s.Equal("Failed to set up payment. Please try again.", state.Message)
	s.True(state.CanRetry())
	// The reservation survives the failure so a retry can reuse it.
	s.Require().NotNil(state.ReservationID)
	s.Equal(reservationID, *state.ReservationID)
}

func (s *ControllerTestSuite) TestProceedRejectsWrongPhase() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).
		Return(s.stateAt(saga.PhaseAwaitingPayment, nil), nil)

	_, err := s.controller.Proceed(context.Background(), s.sessionID)

	s.Require().ErrorIs(err, errs.ErrSagaInvalidPhase)
}

func (s *ControllerTestSuite) TestProceedRejectedWhileBusy() {
	s.locks.EXPECT().Acquire(gomock.Any(), s.sessionID).Return(nil, errs.ErrSagaBusy)

	_, err := s.controller.Proceed(context.Background(), s.sessionID)

	s.Require().ErrorIs(err, errs.ErrSagaBusy)
}

func (s *ControllerTestSuite) TestRetryAfterPaymentSetupFailure() {
	reservationID := uuid.New()
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseFailed, func(st *saga.State) {
		st.Reason = saga.FailurePaymentSetup
		st.Message = "Failed to set up payment. Please try again."
		st.ReservationID = &reservationID
	}), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	// Only the failed step is re-issued: no reservation call, and the
	// payment intent is created against the existing reservation.
	s.payments.EXPECT().
		CreateIntent(gomock.Any(), reservationID).
		Return(saga.PaymentIntentHandle{PaymentIntentID: "pi_retry", ClientSecret: "pi_retry_secret"}, nil)

	state, err := s.controller.Retry(context.Background(), s.sessionID)

	s.Require().NoError(err)
	s.Equal(saga.PhaseAwaitingPayment, state.Phase)
	s.Equal("pi_retry", state.PaymentIntentID)
	s.Require().NotNil(state.ReservationID)
	s.Equal(reservationID, *state.ReservationID)
}

func (s *ControllerTestSuite) TestRetryAfterReservationFailure() {
	reservationID := uuid.New()
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseFailed, func(st *saga.State) {
		st.Reason = saga.FailureReservation
	}), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	gomock.InOrder(
		s.reservations.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(saga.ReservationHandle{ID: reservationID}, nil),
		s.payments.EXPECT().
			CreateIntent(gomock.Any(), reservationID).
			Return(saga.PaymentIntentHandle{PaymentIntentID: "pi_1", ClientSecret: "cs_1"}, nil),
	)

	state, err := s.controller.Retry(context.Background(), s.sessionID)

	s.Require().NoError(err)
	s.Equal(saga.PhaseAwaitingPayment, state.Phase)
}

func (s *ControllerTestSuite) TestRetryAfterPaymentFailureIssuesNoBackendCalls() {
	reservationID := uuid.New()
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseFailed, func(st *saga.State) {
		st.Reason = saga.FailurePayment
		st.ReservationID = &reservationID
		st.PaymentIntentID = "pi_123"
		st.ClientSecret = "pi_123_secret"
	}), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	state, err := s.controller.Retry(context.Background(), s.sessionID)

	s.Require().NoError(err)
	s.Equal(saga.PhaseAwaitingPayment, state.Phase)
	// Same attempt credentials; nothing was re-created.
	s.Equal("pi_123", state.PaymentIntentID)
	s.Equal("pi_123_secret", state.ClientSecret)
}

func (s *ControllerTestSuite) TestRetryRejectedAfterConfirmationFailure() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseFailed, func(st *saga.State) {
		st.Reason = saga.FailureConfirmation
		st.Message = "Payment succeeded but confirmation failed. Please contact support."
	}), nil)

	_, err := s.controller.Retry(context.Background(), s.sessionID)

	s.Require().ErrorIs(err, errs.ErrSagaNotRetryable)
}

func (s *ControllerTestSuite) TestRetryRejectedWhenNotFailed() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).
		Return(s.stateAt(saga.PhaseAwaitingPayment, nil), nil)

	_, err := s.controller.Retry(context.Background(), s.sessionID)

	s.Require().ErrorIs(err, errs.ErrSagaNotRetryable)
}

func (s *ControllerTestSuite) TestPaymentSuccessConfirmsExactlyOnce() {
	reservationID := uuid.New()
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseAwaitingPayment, func(st *saga.State) {
		st.ReservationID = &reservationID
		st.PaymentIntentID = "pi_123"
		st.ClientSecret = "pi_123_secret"
	}), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.payments.EXPECT().Confirm(gomock.Any(), "pi_123").Return(nil).Times(1)
	s.intents.EXPECT().Discard(gomock.Any(), s.sessionID).Return(nil)

	state, err := s.controller.ReportPaymentOutcome(context.Background(), s.sessionID, saga.PaymentOutcome{Succeeded: true})

	s.Require().NoError(err)
	s.Equal(saga.PhaseCompleted, state.Phase)
	s.True(state.IsTerminal())
}

func (s *ControllerTestSuite) TestPaymentFailureIsRecoverable() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseAwaitingPayment, func(st *saga.State) {
		st.PaymentIntentID = "pi_123"
		st.ClientSecret = "pi_123_secret"
	}), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	state, err := s.controller.ReportPaymentOutcome(context.Background(), s.sessionID, saga.PaymentOutcome{
		Succeeded:      false,
		FailureMessage: "Your card was declined.",
	})

	s.Require().NoError(err)
	s.Equal(saga.PhaseFailed, state.Phase)
	s.Equal(saga.FailurePayment, state.Reason)
	s.Equal("Your card was declined.", state.Message)
	s.True(state.CanRetry())
	// The client secret survives so a retry reuses the same attempt.
	s.Equal("pi_123_secret", state.ClientSecret)
}

func (s *ControllerTestSuite) TestConfirmationFailureIsTerminal() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(s.stateAt(saga.PhaseAwaitingPayment, func(st *saga.State) {
		st.PaymentIntentID = "pi_123"
	}), nil)
	s.states.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.payments.EXPECT().Confirm(gomock.Any(), "pi_123").Return(errs.New("record mismatch"))

	state, err := s.controller.ReportPaymentOutcome(context.Background(), s.sessionID, saga.PaymentOutcome{Succeeded: true})

	s.Require().NoError(err)
	s.Equal(saga.PhaseFailed, state.Phase)
	s.Equal(saga.FailureConfirmation, state.Reason)
	s.Equal("Payment succeeded but confirmation failed. Please contact support.", state.Message)
	s.False(state.CanRetry())
	s.True(state.IsTerminal())
}

func (s *ControllerTestSuite) TestOutcomeRejectedOutsideAwaitingPayment() {
	s.expectLock()
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).
		Return(s.stateAt(saga.PhaseReviewingBooking, nil), nil)

	_, err := s.controller.ReportPaymentOutcome(context.Background(), s.sessionID, saga.PaymentOutcome{Succeeded: true})

	s.Require().ErrorIs(err, errs.ErrSagaInvalidPhase)
}

func (s *ControllerTestSuite) TestCurrentReturnsNotFoundForUnknownSession() {
	s.states.EXPECT().Find(gomock.Any(), s.sessionID).Return(nil, errs.ErrSagaNotFound)

	_, err := s.controller.Current(context.Background(), s.sessionID)

	s.Require().ErrorIs(err, errs.ErrSagaNotFound)
}
