package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pointledger/internal/models"
)

type PointHistoryRepo struct {
	DB DBTX
}

const appendHistory = `-- name: AppendHistory
INSERT INTO point_histories (user_id, amount, type, processed_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, amount, type, processed_at
`

func (r *PointHistoryRepo) Append(ctx context.Context, userID int64, amount int64, txType string, processedAt time.Time) (models.PointHistory, error) {
	rows, _ := r.DB.Query(ctx, appendHistory, userID, amount, txType, processedAt)
	entry, err := pgx.CollectOneRow(rows, rowToPointHistory)

	if err != nil {
		return entry, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

const listHistoryByUser = `-- name: ListHistoryByUser
SELECT id, user_id, amount, type, processed_at FROM point_histories
WHERE user_id = $1
ORDER BY id
`

func (r *PointHistoryRepo) ListByUser(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	rows, _ := r.DB.Query(ctx, listHistoryByUser, userID)
	entries, err := pgx.CollectRows(rows, rowToPointHistory)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func rowToPointHistory(row pgx.CollectableRow) (models.PointHistory, error) {
	var h models.PointHistory
	err := row.Scan(&h.ID, &h.UserID, &h.Amount, &h.Type, &h.ProcessedAt)
	return h, err
}
