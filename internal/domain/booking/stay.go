package booking

import (
	"errors"
	"time"
)

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidStayRange = errors.New("check-out must be after check-in")
)

const dateLayout = "2006-01-02"

// Stay is a calendar-date range. Dates carry no time-of-day and no
// caller timezone: "2024-06-01" means the same night count everywhere,
// so a guest booking from UTC+13 and one from UTC-11 get identical
// totals for identical dates.
type Stay struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStay(checkIn, checkOut string) (Stay, error) {
	in, err := parseCalendarDate(checkIn)
	if err != nil {
		return Stay{}, err
	}
	out, err := parseCalendarDate(checkOut)
	if err != nil {
		return Stay{}, err
	}
	if !out.After(in) {
		return Stay{}, ErrInvalidStayRange
	}
	return Stay{checkIn: in, checkOut: out}, nil
}

// parseCalendarDate normalizes to midnight UTC so that subtraction is a
// pure day count, never shifted by the process timezone.
func parseCalendarDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (s Stay) CheckIn() time.Time  { return s.checkIn }
func (s Stay) CheckOut() time.Time { return s.checkOut }

func (s Stay) CheckInDate() string  { return s.checkIn.Format(dateLayout) }
func (s Stay) CheckOutDate() string { return s.checkOut.Format(dateLayout) }

// Nights is the calendar-day difference between check-out and check-in.
func (s Stay) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

func (s Stay) IsZero() bool {
	return s.checkIn.IsZero() && s.checkOut.IsZero()
}

// Quote is the priced result of a stay against a nightly rate.
type Quote struct {
	Nights     int
	TotalCents int64
}

// PriceStay computes the total for a stay: nights times nightly rate.
// Pure; no rounding beyond integer cents.
func PriceStay(stay Stay, nightlyRateCents int64) Quote {
	nights := stay.Nights()
	return Quote{
		Nights:     nights,
		TotalCents: int64(nights) * nightlyRateCents,
	}
}
