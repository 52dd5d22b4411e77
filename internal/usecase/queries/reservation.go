package queries

import (
	"context"

	"stayflow/internal/infra"
	"stayflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationAccess = errs.New("reservation access denied")

type ReservationQueries interface {
	// GetByID enforces ownership: guests see only their own
	// reservations, admins see all.
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationView, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*ReservationListItem, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrReservationNotFound
		}
		return nil, err
	}
	if actorRole != "admin" && view.GuestID != actorID {
		return nil, ErrReservationAccess
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*ReservationListItem, error) {
	return q.repo.FindByGuestID(ctx, guestID)
}
