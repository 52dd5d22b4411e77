package booking

import (
	"errors"

	"stayflow/internal/domain/room"
)

var (
	ErrMissingRoom   = errors.New("booking intent has no room")
	ErrInvalidGuests = errors.New("guest count must be at least 1")
	ErrTooManyGuests = errors.New("guest count exceeds room capacity")
)

// SchemaVersion tags the serialized form of a pending intent. Bump it
// when the persisted shape changes; stale slots are discarded on read.
const SchemaVersion = 1

// Intent is the guest's as-yet-uncommitted selection: room snapshot,
// stay dates, and guest count. Captured once when the guest asks to
// book, immutable afterward, and discarded when the booking flow
// completes or is abandoned.
type Intent struct {
	Room   room.Snapshot
	Stay   Stay
	Guests int
}

func NewIntent(snapshot room.Snapshot, stay Stay, guests int) (Intent, error) {
	intent := Intent{Room: snapshot, Stay: stay, Guests: guests}
	if err := intent.Validate(); err != nil {
		return Intent{}, err
	}
	return intent, nil
}

// Validate enforces the invariant that gates entry into the booking
// flow: room present, both dates present, check-in before check-out,
// and a guest count the room can hold.
func (i Intent) Validate() error {
	if i.Room.IsZero() {
		return ErrMissingRoom
	}
	if i.Stay.IsZero() {
		return ErrInvalidStayRange
	}
	if i.Guests < 1 {
		return ErrInvalidGuests
	}
	if i.Guests > i.Room.MaxGuests() {
		return ErrTooManyGuests
	}
	return nil
}

// Quote prices the intent against the snapshotted nightly rate.
func (i Intent) Quote() Quote {
	return PriceStay(i.Stay, i.Room.PricePerNightCents())
}
