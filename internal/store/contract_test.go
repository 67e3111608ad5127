package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract checks the behaviour every backend must share.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent by default", func(t *testing.T) {
		_, ok, err := s.Get(ctx, 404)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("get returns what was set", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, 5, 42))
		imageID, ok, err := s.Get(ctx, 5)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint(42), imageID)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, 5, 43))
		imageID, _, err := s.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(43), imageID)
	})

	t.Run("get many skips absent terms", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, 6, 60))
		got, err := s.GetMany(ctx, []uint{5, 6, 7})
		require.NoError(t, err)
		assert.Equal(t, map[uint]uint{5: 43, 6: 60}, got)

		empty, err := s.GetMany(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("remove then get is absent", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, 5))
		_, ok, err := s.Get(ctx, 5)
		require.NoError(t, err)
		assert.False(t, ok)

		other, ok, err := s.Get(ctx, 6)
		require.NoError(t, err)
		assert.True(t, ok, "removing one term leaves the others")
		assert.Equal(t, uint(60), other)
	})

	t.Run("remove absent is a no-op", func(t *testing.T) {
		assert.NoError(t, s.Remove(ctx, 999))
	})

	t.Run("zero is rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.Set(ctx, 8, 0), ErrZeroImage)
		_, ok, err := s.Get(ctx, 8)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
