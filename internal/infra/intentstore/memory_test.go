//go:build unit

package intentstore

import (
	"context"
	"testing"

	"stayflow/internal/domain/booking"
	"stayflow/internal/domain/room"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIntent(t *testing.T) booking.Intent {
	t.Helper()
	snapshot, err := room.NewSnapshot(uuid.New(), "Garden Suite", "suite", 15000, 3, "")
	require.NoError(t, err)
	stay, err := booking.NewStay("2024-07-10", "2024-07-12")
	require.NoError(t, err)
	intent, err := booking.NewIntent(snapshot, stay, 2)
	require.NoError(t, err)
	return intent
}

func TestMemoryStorePersistedSlotIsReadOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	intent := testIntent(t)

	require.NoError(t, store.PersistAcrossRedirect(ctx, "sid", intent))

	got, ok, err := store.ConsumePersisted(ctx, "sid")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, intent.Room.ID(), got.Room.ID())
	assert.Equal(t, intent.Guests, got.Guests)

	// The slot is gone after one read.
	_, ok, err = store.ConsumePersisted(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreResolvePrefersTransient(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	intent := testIntent(t)

	require.NoError(t, store.Capture(ctx, "sid", intent))
	require.NoError(t, store.PersistAcrossRedirect(ctx, "sid", intent))

	_, ok, err := store.Resolve(ctx, "sid")
	require.NoError(t, err)
	require.True(t, ok)

	// The transient slot served the read, so the persisted slot is
	// still intact.
	_, ok, err = store.ConsumePersisted(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreResolveConsumesPersistedFallback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.PersistAcrossRedirect(ctx, "sid", testIntent(t)))

	_, ok, err := store.Resolve(ctx, "sid")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.Resolve(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.PersistAcrossRedirect(ctx, "sid-a", testIntent(t)))

	_, ok, err := store.ConsumePersisted(ctx, "sid-b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDiscardClearsBothSlots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	intent := testIntent(t)

	require.NoError(t, store.Capture(ctx, "sid", intent))
	require.NoError(t, store.PersistAcrossRedirect(ctx, "sid", intent))
	require.NoError(t, store.Discard(ctx, "sid"))

	_, ok, err := store.Resolve(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)
}
