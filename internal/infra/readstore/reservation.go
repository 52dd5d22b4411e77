package readstore

import (
	"context"
	"errors"
	"time"

	"stayflow/internal/infra"
	"stayflow/internal/infra/db"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const dateLayout = "2006-01-02"

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(db db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.room_id, rm.name, r.guest_id, u.email,
		       r.check_in, r.check_out, r.guests, r.total_cents, r.status,
		       p.id, r.created_at, r.updated_at
		FROM reservations r
		JOIN rooms rm ON rm.id = r.room_id
		JOIN users u ON u.id = r.guest_id
		LEFT JOIN payments p ON p.reservation_id = r.id
		WHERE r.id = $1`

	var (
		view      queries.ReservationView
		checkIn   time.Time
		checkOut  time.Time
		paymentID *uuid.UUID
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.RoomID, &view.RoomName, &view.GuestID, &view.GuestEmail,
		&checkIn, &checkOut, &view.Guests, &view.TotalCents, &view.Status,
		&paymentID, &view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("reservation not found", errs.ErrReservationNotFound, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	view.CheckIn = checkIn.Format(dateLayout)
	view.CheckOut = checkOut.Format(dateLayout)
	view.PaymentID = paymentID
	return &view, nil
}

func (r *ReservationReadStore) FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]*queries.ReservationListItem, error) {
	const query = `
		SELECT r.id, r.room_id, rm.name, r.check_in, r.check_out,
		       r.guests, r.total_cents, r.status, r.created_at
		FROM reservations r
		JOIN rooms rm ON rm.id = r.room_id
		WHERE r.guest_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, guestID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var items []*queries.ReservationListItem
	for rows.Next() {
		var (
			item     queries.ReservationListItem
			checkIn  time.Time
			checkOut time.Time
		)
		if err := rows.Scan(
			&item.ID, &item.RoomID, &item.RoomName, &checkIn, &checkOut,
			&item.Guests, &item.TotalCents, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		item.CheckIn = checkIn.Format(dateLayout)
		item.CheckOut = checkOut.Format(dateLayout)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return items, nil
}
