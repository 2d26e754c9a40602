package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/storage/kv"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := kv.NewMemoryStore(kv.WithClock(func() time.Time { return now }))

	t.Run("Should miss absent keys", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should return stored value until expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

		now = now.Add(59 * time.Second)
		val, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), val)

		now = now.Add(time.Second)
		_, ok, err = store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should never expire without ttl", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))
		now = now.Add(24 * 365 * time.Hour)

		_, ok, err := store.Get(ctx, "forever")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should delete regardless of remaining ttl", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Hour))
		require.NoError(t, store.Delete(ctx, "k"))
		require.NoError(t, store.Delete(ctx, "k"))

		_, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Should not alias caller buffers", func(t *testing.T) {
		buf := []byte("abc")
		require.NoError(t, store.Set(ctx, "alias", buf, time.Hour))
		buf[0] = 'x'

		val, _, err := store.Get(ctx, "alias")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), val)
	})
}
