package readstore

import (
	"context"
	"errors"

	"stayflow/internal/infra"
	"stayflow/internal/infra/db"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomReadStore struct {
	db db.DBTX
}

func NewRoomReadStore(db db.DBTX) *RoomReadStore {
	return &RoomReadStore{db: db}
}

func (r *RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	const query = `
		SELECT id, name, room_type, price_per_night_cents, max_guests, image_url, created_at, updated_at
		FROM rooms
		WHERE id = $1`

	var view queries.RoomView
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.Name, &view.RoomType, &view.PricePerNightCents,
		&view.MaxGuests, &view.ImageURL, &view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("room not found", errs.ErrRoomNotFound, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find room", err)
	}
	return &view, nil
}

func (r *RoomReadStore) FindAll(ctx context.Context) ([]*queries.RoomView, error) {
	const query = `
		SELECT id, name, room_type, price_per_night_cents, max_guests, image_url, created_at, updated_at
		FROM rooms
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer rows.Close()

	var views []*queries.RoomView
	for rows.Next() {
		var view queries.RoomView
		if err := rows.Scan(
			&view.ID, &view.Name, &view.RoomType, &view.PricePerNightCents,
			&view.MaxGuests, &view.ImageURL, &view.CreatedAt, &view.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rooms", err)
	}
	return views, nil
}
