package repository

import (
	"context"
	"errors"
	"time"

	"stayflow/internal/infra"
	"stayflow/internal/infra/db"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

type ReservationRow struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	GuestID    uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	TotalCents int64
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(db db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a pending reservation unless the room already has a
// non-cancelled reservation overlapping the stay. Two stays overlap
// when one checks in before the other checks out; back-to-back stays
// sharing a turnover day do not conflict.
func (r *ReservationRepository) Create(ctx context.Context, req saga.ReservationRequest) (saga.ReservationHandle, error) {
	const query = `
		INSERT INTO reservations (id, room_id, guest_id, check_in, check_out, guests, total_cents, status)
		SELECT $1, $2, $3, $4::date, $5::date, $6, $7, 'pending'
		WHERE NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_id = $2
			  AND status <> 'cancelled'
			  AND check_in < $5::date
			  AND check_out > $4::date
		)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		uuid.New(), req.RoomID, req.GuestID, req.CheckIn, req.CheckOut, req.Guests, req.TotalCents,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return saga.ReservationHandle{}, infra.WrapRepoErr("room is not available for the requested dates",
			errs.ErrReservationConflict, infra.KindConflict)
	}
	if err != nil {
		return saga.ReservationHandle{}, infra.WrapRepoErr("failed to create reservation", err)
	}

	return saga.ReservationHandle{ID: id}, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	const query = `UPDATE reservations SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", errs.ErrReservationNotFound, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ReservationRow, error) {
	const query = `
		SELECT id, room_id, guest_id, check_in, check_out, guests, total_cents, status, created_at, updated_at
		FROM reservations
		WHERE id = $1`

	var row ReservationRow
	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.RoomID, &row.GuestID, &row.CheckIn, &row.CheckOut,
		&row.Guests, &row.TotalCents, &row.Status, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("reservation not found", errs.ErrReservationNotFound, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return &row, nil
}
