package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Get(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("LazyIdleSession", func(t *testing.T) {
		sess, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), sess.OwnerID)
		assert.Equal(t, StateIdle, sess.State)
		assert.Empty(t, sess.Scratch)
	})

	t.Run("ReturnsCopyOfScratch", func(t *testing.T) {
		require.NoError(t, store.SetField(ctx, 1, FieldProductName, "Candy"))

		sess, err := store.Get(ctx, 1)
		require.NoError(t, err)
		sess.Scratch[FieldProductName] = "tampered"

		again, err := store.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Candy", again.Scratch[FieldProductName])
	})
}

func TestMemoryStore_SetState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetState(ctx, 1, StateAwaitingQuantity))

	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingQuantity, sess.State)

	// Other owners are untouched.
	other, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, other.State)
}

func TestMemoryStore_SetField(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetState(ctx, 1, StateAwaitingQuantity))
	require.NoError(t, store.SetField(ctx, 1, FieldProductName, "Candy"))

	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
	assert.Equal(t, "Candy", sess.Scratch[FieldProductName])

	// A later write overwrites the stale value.
	require.NoError(t, store.SetField(ctx, 1, FieldProductName, "Chocolate"))
	sess, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate", sess.Scratch[FieldProductName])
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetState(ctx, 1, StateAwaitingQuantity))
	require.NoError(t, store.SetField(ctx, 1, FieldProductName, "Candy"))

	require.NoError(t, store.Clear(ctx, 1))

	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)
	assert.Empty(t, sess.Scratch)
}

func TestMemoryStore_ConcurrentOwners(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(owner int64) {
			defer wg.Done()
			_ = store.SetState(ctx, owner, StateAwaitingCity)
			_, _ = store.Get(ctx, owner)
			_ = store.Clear(ctx, owner)
		}(int64(i))
	}
	wg.Wait()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_city", StateAwaitingCity.String())
	assert.Equal(t, "awaiting_product_name", StateAwaitingProductName.String())
	assert.Equal(t, "awaiting_quantity", StateAwaitingQuantity.String())
}
