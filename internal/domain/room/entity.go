package room

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidRoom     = errors.New("invalid room")
	ErrInvalidRate     = errors.New("nightly rate must be positive")
	ErrInvalidCapacity = errors.New("room capacity must be positive")
)

// Snapshot is the immutable view of a room captured into a booking
// intent. The booking flow never mutates rooms; it only prices against
// the rate that was visible when the guest chose to book.
type Snapshot struct {
	id                 uuid.UUID
	name               string
	roomType           string
	pricePerNightCents int64
	maxGuests          int
	imageURL           string
}

func NewSnapshot(id uuid.UUID, name, roomType string, pricePerNightCents int64, maxGuests int, imageURL string) (Snapshot, error) {
	if id == uuid.Nil || name == "" {
		return Snapshot{}, ErrInvalidRoom
	}
	if pricePerNightCents <= 0 {
		return Snapshot{}, ErrInvalidRate
	}
	if maxGuests <= 0 {
		return Snapshot{}, ErrInvalidCapacity
	}
	return Snapshot{
		id:                 id,
		name:               name,
		roomType:           roomType,
		pricePerNightCents: pricePerNightCents,
		maxGuests:          maxGuests,
		imageURL:           imageURL,
	}, nil
}

func (s Snapshot) ID() uuid.UUID             { return s.id }
func (s Snapshot) Name() string              { return s.name }
func (s Snapshot) RoomType() string          { return s.roomType }
func (s Snapshot) PricePerNightCents() int64 { return s.pricePerNightCents }
func (s Snapshot) MaxGuests() int            { return s.maxGuests }
func (s Snapshot) ImageURL() string          { return s.imageURL }
func (s Snapshot) IsZero() bool              { return s.id == uuid.Nil }
