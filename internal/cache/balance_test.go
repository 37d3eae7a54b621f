package cache

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"pointledger/internal/models"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestBalanceCache(t *testing.T) {
	t.Parallel()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewBalanceCache(setupTestRedis(t), 0, nil)

		_, ok := c.Get(t.Context(), 1)
		require.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewBalanceCache(setupTestRedis(t), time.Minute, nil)

		point := models.UserPoint{UserID: 1, Balance: 42_000, UpdatedAt: time.Now().UTC()}
		c.Set(t.Context(), point)

		got, ok := c.Get(t.Context(), 1)
		require.True(t, ok)
		require.Equal(t, point.UserID, got.UserID)
		require.Equal(t, point.Balance, got.Balance)
	})

	t.Run("corrupt entry is a miss", func(t *testing.T) {
		client := setupTestRedis(t)
		c := NewBalanceCache(client, time.Minute, nil)

		err := client.Set(t.Context(), "point:balance:1", "not json", time.Minute).Err()
		require.NoError(t, err)

		_, ok := c.Get(t.Context(), 1)
		require.False(t, ok)
	})

	t.Run("entries do not leak between users", func(t *testing.T) {
		c := NewBalanceCache(setupTestRedis(t), time.Minute, nil)

		c.Set(t.Context(), models.UserPoint{UserID: 1, Balance: 100})

		_, ok := c.Get(t.Context(), 2)
		require.False(t, ok)
	})
}
