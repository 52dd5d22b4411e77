//go:build unit

package sagastore

import (
	"context"
	"testing"
	"time"

	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	state := &saga.State{
		SessionID: "sid",
		GuestID:   uuid.New(),
		Phase:     saga.PhaseAwaitingPayment,
		StartedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Find(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, state.GuestID, got.GuestID)
	assert.Equal(t, saga.PhaseAwaitingPayment, got.Phase)

	// Mutating the returned state must not affect the stored copy.
	got.Phase = saga.PhaseFailed
	again, err := store.Find(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, saga.PhaseAwaitingPayment, again.Phase)
}

func TestMemoryStateStoreFindUnknownSession(t *testing.T) {
	store := NewMemoryStateStore()

	_, err := store.Find(context.Background(), "missing")

	assert.ErrorIs(t, err, errs.ErrSagaNotFound)
}

func TestMemoryStateStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	require.NoError(t, store.Save(ctx, &saga.State{SessionID: "sid"}))
	require.NoError(t, store.Delete(ctx, "sid"))

	_, err := store.Find(ctx, "sid")
	assert.ErrorIs(t, err, errs.ErrSagaNotFound)
}

func TestMemoryStepLockerRejectsWhileHeld(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryStepLocker()

	release, err := locker.Acquire(ctx, "sid")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "sid")
	assert.ErrorIs(t, err, errs.ErrSagaBusy)

	// Other sessions are unaffected.
	otherRelease, err := locker.Acquire(ctx, "other")
	require.NoError(t, err)
	otherRelease()

	release()
	release2, err := locker.Acquire(ctx, "sid")
	require.NoError(t, err)
	release2()
}
