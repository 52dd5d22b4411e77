//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayflow/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStay(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  string
		checkOut string
		errIs    error
		nights   int
	}{
		{name: "single night", checkIn: "2024-06-01", checkOut: "2024-06-02", nights: 1},
		{name: "three nights", checkIn: "2024-06-01", checkOut: "2024-06-04", nights: 3},
		{name: "across a month boundary", checkIn: "2024-01-30", checkOut: "2024-02-02", nights: 3},
		{name: "across a leap day", checkIn: "2024-02-28", checkOut: "2024-03-01", nights: 2},
		{name: "across a year boundary", checkIn: "2023-12-30", checkOut: "2024-01-02", nights: 3},
		{name: "long stay", checkIn: "2024-06-01", checkOut: "2024-07-01", nights: 30},
		{name: "same day rejected", checkIn: "2024-06-01", checkOut: "2024-06-01", errIs: booking.ErrInvalidStayRange},
		{name: "reversed range rejected", checkIn: "2024-06-04", checkOut: "2024-06-01", errIs: booking.ErrInvalidStayRange},
		{name: "empty check-in rejected", checkIn: "", checkOut: "2024-06-04", errIs: booking.ErrInvalidDate},
		{name: "empty check-out rejected", checkIn: "2024-06-01", checkOut: "", errIs: booking.ErrInvalidDate},
		{name: "malformed date rejected", checkIn: "06/01/2024", checkOut: "2024-06-04", errIs: booking.ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stay, err := booking.NewStay(tc.checkIn, tc.checkOut)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.nights, stay.Nights())
			assert.Equal(t, tc.checkIn, stay.CheckInDate())
			assert.Equal(t, tc.checkOut, stay.CheckOutDate())
		})
	}
}

// Night counts must not depend on the process timezone: a date is a
// date, not a timestamp.
func TestStayNightsTimezoneIndependent(t *testing.T) {
	zones := []string{"UTC", "Pacific/Auckland", "Pacific/Pago_Pago", "Asia/Tokyo", "America/New_York"}

	original := time.Local
	defer func() { time.Local = original }()

	for _, zone := range zones {
		t.Run(zone, func(t *testing.T) {
			loc, err := time.LoadLocation(zone)
			require.NoError(t, err)
			time.Local = loc

			stay, err := booking.NewStay("2024-06-01", "2024-06-04")
			require.NoError(t, err)
			assert.Equal(t, 3, stay.Nights())
		})
	}
}

func TestPriceStay(t *testing.T) {
	// $200/night, 2024-06-01 -> 2024-06-04: 3 nights, $600 total.
	stay, err := booking.NewStay("2024-06-01", "2024-06-04")
	require.NoError(t, err)

	quote := booking.PriceStay(stay, 20000)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, int64(60000), quote.TotalCents)
}

func TestPriceStayScalesWithNights(t *testing.T) {
	cases := []struct {
		checkIn, checkOut string
		rateCents         int64
		wantTotal         int64
	}{
		{"2024-06-01", "2024-06-02", 9900, 9900},
		{"2024-06-01", "2024-06-08", 12550, 87850},
		{"2024-12-24", "2025-01-03", 30000, 300000},
	}

	for _, tc := range cases {
		stay, err := booking.NewStay(tc.checkIn, tc.checkOut)
		require.NoError(t, err)
		quote := booking.PriceStay(stay, tc.rateCents)
		assert.Equal(t, tc.wantTotal, quote.TotalCents)
		assert.Equal(t, int64(quote.Nights)*tc.rateCents, quote.TotalCents)
	}
}
