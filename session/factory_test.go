package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iasted "github.com/admin-ga/iasted"
)

func newMemoryStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStoreInvalidType(t *testing.T) {
	_, err := NewStore(StoreType("etcd"))
	assert.ErrorIs(t, err, iasted.ErrInvalidStoreType)
}

func TestNewStoreRedisRequiresClient(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, iasted.ErrInvalidConfig)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	state := &State{
		ID:         "sess-1",
		UserID:     "user-1",
		Voice:      VoiceAsh,
		SpeechRate: 1.0,
		VoiceState: StateConnected,
	}
	require.NoError(t, store.Create(ctx, state))
	assert.Equal(t, int64(1), state.Version)

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, VoiceAsh, got.Voice)
	assert.Equal(t, int64(1), got.Version)

	got.Voice = VoiceShimmer
	require.NoError(t, store.Update(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	gone, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemoryStoreGetMissingIsNil(t *testing.T) {
	store := newMemoryStore(t)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	state := &State{ID: "sess-1", UserID: "user-1", Voice: VoiceEcho}
	require.NoError(t, store.Create(ctx, state))

	first, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	second, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)

	first.SpeechRate = 1.5
	require.NoError(t, store.Update(ctx, first))

	second.SpeechRate = 0.8
	err = store.Update(ctx, second)
	assert.ErrorIs(t, err, iasted.ErrVersionConflict)

	// The winning write is intact.
	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.SpeechRate)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := newMemoryStore(t)

	err := store.Update(context.Background(), &State{ID: "ghost", Version: 1})
	assert.ErrorIs(t, err, iasted.ErrNotFound)
}
