package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"pointledger/internal/apperrors"
	"pointledger/internal/models"
	"pointledger/internal/repository"
	"pointledger/internal/testutil"
)

func TestUserPoints(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	t.Run("GetUserPoint", func(t *testing.T) {
		t.Run("unseen user gets zero balance", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				point, err := storage.Points().GetUserPoint(t.Context(), 42)

				require.NoError(t, err, "unseen user is not an error")
				require.Equal(t, int64(42), point.UserID)
				require.Zero(t, point.Balance)
				require.WithinDuration(t, time.Now(), point.UpdatedAt, time.Minute)
			})
		})

		t.Run("existing user", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.Points().UpsertUserPoint(t.Context(), 1, 1_000)
				require.NoError(t, err)

				point, err := storage.Points().GetUserPoint(t.Context(), 1)

				require.NoError(t, err)
				require.Equal(t, int64(1_000), point.Balance)
			})
		})
	})

	t.Run("UpsertUserPoint", func(t *testing.T) {
		t.Run("creates row on first write", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				point, err := storage.Points().UpsertUserPoint(t.Context(), 1, 500)

				require.NoError(t, err)
				require.Equal(t, int64(1), point.UserID)
				require.Equal(t, int64(500), point.Balance)
				require.False(t, point.UpdatedAt.IsZero())
			})
		})

		t.Run("overwrites existing balance", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.Points().UpsertUserPoint(t.Context(), 1, 500)
				require.NoError(t, err)

				point, err := storage.Points().UpsertUserPoint(t.Context(), 1, 200)

				require.NoError(t, err)
				require.Equal(t, int64(200), point.Balance, "write is an overwrite, not a delta")
			})
		})

		t.Run("negative balance is rejected by the schema", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.Points().UpsertUserPoint(t.Context(), 1, -100)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrInsufficientBalance, "check violation maps to well known error")
			})
		})
	})

	t.Run("balance and history commit together", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			err := storage.InTx(t.Context(), func(st repository.Storage) error {
				if _, err := st.Points().UpsertUserPoint(t.Context(), 1, 1_000); err != nil {
					return err
				}
				_, err := st.History().Append(t.Context(), 1, 1_000, models.TransactionTypeCharge, time.Now())
				return err
			})
			require.NoError(t, err)

			point, err := storage.Points().GetUserPoint(t.Context(), 1)
			require.NoError(t, err)
			require.Equal(t, int64(1_000), point.Balance)

			entries, err := storage.History().ListByUser(t.Context(), 1)
			require.NoError(t, err)
			require.Len(t, entries, 1)
		})
	})

	t.Run("failed transaction leaves nothing behind", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			boom := errors.New("boom")

			err := storage.InTx(t.Context(), func(st repository.Storage) error {
				if _, err := st.Points().UpsertUserPoint(t.Context(), 1, 1_000); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			point, err := storage.Points().GetUserPoint(t.Context(), 1)
			require.NoError(t, err)
			require.Zero(t, point.Balance, "rolled back write should not be visible")
		})
	})
}
