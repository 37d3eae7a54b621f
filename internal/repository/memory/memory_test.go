package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pointledger/internal/models"
	"pointledger/internal/repository"
)

func TestUserPointTable(t *testing.T) {
	t.Parallel()

	t.Run("unseen user gets zero balance", func(t *testing.T) {
		storage := NewStorage()

		point, err := storage.Points().GetUserPoint(t.Context(), 7)

		require.NoError(t, err)
		require.Equal(t, int64(7), point.UserID)
		require.Zero(t, point.Balance)
		require.WithinDuration(t, time.Now(), point.UpdatedAt, time.Second)
	})

	t.Run("upsert creates and overwrites", func(t *testing.T) {
		storage := NewStorage()

		point, err := storage.Points().UpsertUserPoint(t.Context(), 1, 500)
		require.NoError(t, err)
		require.Equal(t, int64(500), point.Balance)

		point, err = storage.Points().UpsertUserPoint(t.Context(), 1, 200)
		require.NoError(t, err)
		require.Equal(t, int64(200), point.Balance, "upsert is an overwrite, not a delta")

		stored, err := storage.Points().GetUserPoint(t.Context(), 1)
		require.NoError(t, err)
		require.Equal(t, int64(200), stored.Balance)
	})
}

func TestPointHistoryTable(t *testing.T) {
	t.Parallel()

	t.Run("ids grow across users", func(t *testing.T) {
		storage := NewStorage()
		now := time.Now()

		first, err := storage.History().Append(t.Context(), 1, 100, models.TransactionTypeCharge, now)
		require.NoError(t, err)
		second, err := storage.History().Append(t.Context(), 2, 200, models.TransactionTypeCharge, now)
		require.NoError(t, err)

		require.Less(t, first.ID, second.ID)
	})

	t.Run("list keeps insertion order per user", func(t *testing.T) {
		storage := NewStorage()
		now := time.Now()

		_, err := storage.History().Append(t.Context(), 1, 100, models.TransactionTypeCharge, now)
		require.NoError(t, err)
		_, err = storage.History().Append(t.Context(), 2, 999, models.TransactionTypeCharge, now)
		require.NoError(t, err)
		_, err = storage.History().Append(t.Context(), 1, 50, models.TransactionTypeUse, now)
		require.NoError(t, err)

		entries, err := storage.History().ListByUser(t.Context(), 1)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, models.TransactionTypeCharge, entries[0].Type)
		require.Equal(t, models.TransactionTypeUse, entries[1].Type)
	})

	t.Run("listed slice is a copy", func(t *testing.T) {
		storage := NewStorage()

		_, err := storage.History().Append(t.Context(), 1, 100, models.TransactionTypeCharge, time.Now())
		require.NoError(t, err)

		entries, err := storage.History().ListByUser(t.Context(), 1)
		require.NoError(t, err)
		entries[0].Amount = 777

		fresh, err := storage.History().ListByUser(t.Context(), 1)
		require.NoError(t, err)
		require.Equal(t, int64(100), fresh[0].Amount)
	})
}

func TestInTx(t *testing.T) {
	t.Parallel()

	storage := NewStorage()

	err := storage.InTx(t.Context(), func(st repository.Storage) error {
		_, err := st.Points().UpsertUserPoint(t.Context(), 1, 1_000)
		if err != nil {
			return err
		}

		_, err = st.History().Append(t.Context(), 1, 1_000, models.TransactionTypeCharge, time.Now())
		return err
	})
	require.NoError(t, err)

	point, err := storage.Points().GetUserPoint(t.Context(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1_000), point.Balance)
}
