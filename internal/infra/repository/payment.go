package repository

import (
	"context"
	"errors"
	"time"

	"stayflow/internal/infra"
	"stayflow/internal/infra/db"
	"stayflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
)

type PaymentRow struct {
	ID              uuid.UUID
	ReservationID   uuid.UUID
	PaymentIntentID string
	AmountCents     int64
	Currency        string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(db db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Upsert records the payment attempt for a reservation. A reservation
// has at most one payment row; re-creating the intent after a setup
// failure replaces the intent id on the existing row.
func (r *PaymentRepository) Upsert(ctx context.Context, reservationID uuid.UUID, paymentIntentID string, amountCents int64, currency string) (*PaymentRow, error) {
	const query = `
		INSERT INTO payments (id, reservation_id, payment_intent_id, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		ON CONFLICT (reservation_id) DO UPDATE
		SET payment_intent_id = EXCLUDED.payment_intent_id,
		    amount_cents = EXCLUDED.amount_cents,
		    currency = EXCLUDED.currency,
		    status = 'pending',
		    updated_at = now()
		RETURNING id, reservation_id, payment_intent_id, amount_cents, currency, status, created_at, updated_at`

	var row PaymentRow
	err := r.db.QueryRow(ctx, query, uuid.New(), reservationID, paymentIntentID, amountCents, currency).Scan(
		&row.ID, &row.ReservationID, &row.PaymentIntentID, &row.AmountCents,
		&row.Currency, &row.Status, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert payment", err)
	}
	return &row, nil
}

func (r *PaymentRepository) FindByIntentID(ctx context.Context, paymentIntentID string) (*PaymentRow, error) {
	return r.findBy(ctx, "payment_intent_id = $1", paymentIntentID)
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*PaymentRow, error) {
	return r.findBy(ctx, "id = $1", id)
}

func (r *PaymentRepository) findBy(ctx context.Context, where string, arg any) (*PaymentRow, error) {
	query := `
		SELECT id, reservation_id, payment_intent_id, amount_cents, currency, status, created_at, updated_at
		FROM payments
		WHERE ` + where

	var row PaymentRow
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&row.ID, &row.ReservationID, &row.PaymentIntentID, &row.AmountCents,
		&row.Currency, &row.Status, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("payment not found", errs.ErrPaymentNotFound, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return &row, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	const query = `UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", errs.ErrPaymentNotFound, infra.KindNotFound)
	}
	return nil
}
