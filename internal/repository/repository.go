package repository

import (
	"context"
	"time"

	"pointledger/internal/models"
)

// UserPoint repository interface
type UserPointRepo interface {
	// Get current point state of the user
	// Unseen users are not an error: must return a zero balance with UpdatedAt set to now
	GetUserPoint(ctx context.Context, userID int64) (models.UserPoint, error)

	// Overwrite the user balance with the given value (not a delta)
	// Creates the row on first write and returns the committed state
	UpsertUserPoint(ctx context.Context, userID int64, balance int64) (models.UserPoint, error)
}

// PointHistory repository interface
type PointHistoryRepo interface {
	// Append one committed operation to the user's history
	// Never validates business rules: that is the point service's job
	Append(ctx context.Context, userID int64, amount int64, txType string, processedAt time.Time) (models.PointHistory, error)

	// List full history of the user in commit order, oldest first
	// Must return an empty slice for unseen users
	ListByUser(ctx context.Context, userID int64) ([]models.PointHistory, error)
}

// Storage combines the repositories and lets callers run them in one
// storage transaction, so a balance write and its history append either
// both commit or both roll back.
type Storage interface {
	Points() UserPointRepo
	History() PointHistoryRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}
