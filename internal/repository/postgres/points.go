package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pointledger/internal/apperrors"
	"pointledger/internal/models"
)

type UserPointRepo struct {
	DB DBTX
}

const getUserPoint = `-- name: GetUserPoint
SELECT user_id, balance, updated_at FROM user_points
WHERE user_id = $1
`

func (r *UserPointRepo) GetUserPoint(ctx context.Context, userID int64) (models.UserPoint, error) {
	rows, _ := r.DB.Query(ctx, getUserPoint, userID)
	point, err := pgx.CollectOneRow(rows, rowToUserPoint)

	switch {
	case err == nil:
		return point, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Accounts are created implicitly: unseen user means zero balance
		return models.UserPoint{UserID: userID, Balance: 0, UpdatedAt: time.Now()}, nil
	default:
		return point, fmt.Errorf("db error: %w", err)
	}
}

const upsertUserPoint = `-- name: UpsertUserPoint
INSERT INTO user_points (user_id, balance, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE
SET balance = EXCLUDED.balance, updated_at = now()
RETURNING user_id, balance, updated_at
`

func (r *UserPointRepo) UpsertUserPoint(ctx context.Context, userID int64, balance int64) (models.UserPoint, error) {
	rows, _ := r.DB.Query(ctx, upsertUserPoint, userID, balance)
	point, err := pgx.CollectOneRow(rows, rowToUserPoint)

	if err != nil {
		// The schema keeps balances non negative as a last line of defense,
		// the service must have rejected such a write before it got here
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return point, apperrors.ErrInsufficientBalance
		}

		return point, fmt.Errorf("db error: %w", err)
	}

	return point, nil
}

func rowToUserPoint(row pgx.CollectableRow) (models.UserPoint, error) {
	var p models.UserPoint
	err := row.Scan(&p.UserID, &p.Balance, &p.UpdatedAt)
	return p, err
}
