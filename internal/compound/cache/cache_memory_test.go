package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenforge/internal/compound/models"
	"greenforge/internal/scoring"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	bp := 157.0
	thc := models.Compound{Name: "THC", Type: scoring.TypeCannabinoid, BoilingPoint: &bp, Unit: models.Celsius}

	t.Run("lookups are case-insensitive", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		require.NoError(t, c.Set(ctx, "thc", []models.Compound{thc}))

		rows, ok, err := c.Get(ctx, " THC ")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []models.Compound{thc}, rows)
	})

	t.Run("empty slice is a hit", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		require.NoError(t, c.Set(ctx, "Mystery", nil))

		rows, ok, err := c.Get(ctx, "mystery")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, rows)
	})

	t.Run("expired entries miss and are evicted", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, "THC", []models.Compound{thc}))

		now = now.Add(2 * time.Minute)
		_, ok, err := c.Get(ctx, "THC")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		require.NoError(t, c.Set(ctx, "THC", []models.Compound{thc}))

		rows, _, _ := c.Get(ctx, "THC")
		rows[0].Name = "changed"

		again, _, _ := c.Get(ctx, "THC")
		assert.Equal(t, "THC", again[0].Name)
	})

	t.Run("purge empties the cache", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		require.NoError(t, c.Set(ctx, "THC", []models.Compound{thc}))
		require.NoError(t, c.Purge(ctx))
		assert.Equal(t, 0, c.Len())
	})
}
