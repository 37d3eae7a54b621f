package memory

import (
	"context"
	"sync"
	"time"

	"pointledger/internal/models"
)

type userPointTable struct {
	mu     sync.RWMutex
	points map[int64]models.UserPoint
}

func newUserPointTable() *userPointTable {
	return &userPointTable{
		points: make(map[int64]models.UserPoint),
	}
}

func (t *userPointTable) GetUserPoint(_ context.Context, userID int64) (models.UserPoint, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	point, ok := t.points[userID]
	if !ok {
		return models.UserPoint{UserID: userID, Balance: 0, UpdatedAt: time.Now()}, nil
	}

	return point, nil
}

func (t *userPointTable) UpsertUserPoint(_ context.Context, userID int64, balance int64) (models.UserPoint, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	point := models.UserPoint{
		UserID:    userID,
		Balance:   balance,
		UpdatedAt: time.Now(),
	}
	t.points[userID] = point

	return point, nil
}
