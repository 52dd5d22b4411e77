//go:build unit

package saga

import (
	"testing"
	"time"

	"stayflow/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateAdvanceForwardOnly(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := newState("sid", uuid.New(), booking.Intent{}, now)

	require.NoError(t, st.advance(PhaseCreatingReservation, now))
	require.NoError(t, st.advance(PhaseCreatingPaymentIntent, now))

	// Backward and same-phase moves are rejected.
	assert.Error(t, st.advance(PhaseCreatingReservation, now))
	assert.Error(t, st.advance(PhaseCreatingPaymentIntent, now))
	assert.Equal(t, PhaseCreatingPaymentIntent, st.Phase)
}

func TestStateAdvanceSkipsPhases(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := newState("sid", uuid.New(), booking.Intent{}, now)

	// Forward skips are allowed by rank; the controller chooses not to
	// use them on the happy path, but re-entry after a payment failure
	// lands directly in AwaitingPayment.
	require.NoError(t, st.advance(PhaseAwaitingPayment, now))
	assert.Equal(t, PhaseAwaitingPayment, st.Phase)
}

func TestStateNoAdvanceOutOfTerminal(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	st := newState("sid", uuid.New(), booking.Intent{}, now)
	st.fail(FailureReservation, "boom", now)
	assert.Error(t, st.advance(PhaseCreatingReservation, now))

	st = newState("sid", uuid.New(), booking.Intent{}, now)
	require.NoError(t, st.advance(PhaseCompleted, now))
	assert.Error(t, st.advance(PhaseFailed, now))
}

func TestStateRetryEntryPerReason(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		reason FailureReason
		entry  Phase
	}{
		{FailureReservation, PhaseCreatingReservation},
		{FailurePaymentSetup, PhaseCreatingPaymentIntent},
		{FailurePayment, PhaseAwaitingPayment},
	}
	for _, tc := range cases {
		st := newState("sid", uuid.New(), booking.Intent{}, now)
		st.fail(tc.reason, "boom", now)
		require.True(t, st.CanRetry(), string(tc.reason))

		entry, err := st.reenter(now)
		require.NoError(t, err, string(tc.reason))
		assert.Equal(t, tc.entry, entry, string(tc.reason))
		assert.Equal(t, tc.entry, st.Phase, string(tc.reason))
		assert.Empty(t, st.Reason)
		assert.Empty(t, st.Message)
	}
}

func TestStateConfirmationFailureNotRetryable(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := newState("sid", uuid.New(), booking.Intent{}, now)
	st.fail(FailureConfirmation, "contact support", now)

	assert.False(t, st.CanRetry())
	assert.True(t, st.IsTerminal())

	_, err := st.reenter(now)
	assert.Error(t, err)
	assert.Equal(t, PhaseFailed, st.Phase)
}

func TestStateReenterRequiresFailure(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := newState("sid", uuid.New(), booking.Intent{}, now)

	_, err := st.reenter(now)
	assert.Error(t, err)
}
