package payment

import (
	"context"
	"log/slog"

	"stayflow/internal/infra/repository"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"

	"github.com/google/uuid"
)

// statusSucceeded is the processor status that proves the charge
// completed. Anything else fails confirmation.
const statusSucceeded = "succeeded"

// Service pairs the processor gateway with the local payment records.
// It implements the payment side of the booking flow: intent creation,
// post-charge confirmation, and refunds.
type Service struct {
	gateway      Gateway
	payments     *repository.PaymentRepository
	reservations *repository.ReservationRepository
	currency     string
}

func NewService(gateway Gateway, payments *repository.PaymentRepository, reservations *repository.ReservationRepository, currency string) *Service {
	return &Service{
		gateway:      gateway,
		payments:     payments,
		reservations: reservations,
		currency:     currency,
	}
}

// CreateIntent creates a processor intent for the reservation's total
// and records it locally. Calling it again for the same reservation
// replaces the recorded intent, which is what a retry after a setup
// failure needs.
func (s *Service) CreateIntent(ctx context.Context, reservationID uuid.UUID) (saga.PaymentIntentHandle, error) {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return saga.PaymentIntentHandle{}, err
	}

	result, err := s.gateway.CreateIntent(ctx, reservation.TotalCents, s.currency, map[string]string{
		"reservation_id": reservationID.String(),
	})
	if err != nil {
		return saga.PaymentIntentHandle{}, err
	}

	if _, err := s.payments.Upsert(ctx, reservationID, result.PaymentIntentID, reservation.TotalCents, s.currency); err != nil {
		return saga.PaymentIntentHandle{}, err
	}

	return saga.PaymentIntentHandle{
		PaymentIntentID: result.PaymentIntentID,
		ClientSecret:    result.ClientSecret,
	}, nil
}

// Confirm verifies with the processor that the charge completed, then
// marks the payment and its reservation accordingly. It does not trust
// the caller's word for the outcome.
func (s *Service) Confirm(ctx context.Context, paymentIntentID string) error {
	status, err := s.gateway.IntentStatus(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if status != statusSucceeded {
		return errs.Mark(errs.New("payment intent status is "+status), errs.ErrPaymentNotCompleted)
	}

	record, err := s.payments.FindByIntentID(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if err := s.payments.UpdateStatus(ctx, record.ID, repository.PaymentStatusCompleted); err != nil {
		return err
	}
	if err := s.reservations.UpdateStatus(ctx, record.ReservationID, repository.ReservationStatusConfirmed); err != nil {
		return err
	}
	return nil
}

// Refund reverses a completed payment in full and cancels its
// reservation.
func (s *Service) Refund(ctx context.Context, paymentID uuid.UUID) error {
	record, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if record.Status != repository.PaymentStatusCompleted {
		return errs.Mark(errs.New("only completed payments can be refunded"), errs.ErrPaymentNotCompleted)
	}

	if err := s.gateway.Refund(ctx, record.PaymentIntentID, record.AmountCents); err != nil {
		return err
	}
	if err := s.payments.UpdateStatus(ctx, record.ID, repository.PaymentStatusRefunded); err != nil {
		return err
	}
	if err := s.reservations.UpdateStatus(ctx, record.ReservationID, repository.ReservationStatusCancelled); err != nil {
		return err
	}

	slog.Info("payment refunded", "payment_id", paymentID, "reservation_id", record.ReservationID)
	return nil
}
