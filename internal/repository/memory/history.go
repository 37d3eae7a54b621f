package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"pointledger/internal/models"
)

type pointHistoryTable struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64][]models.PointHistory
}

func newPointHistoryTable() *pointHistoryTable {
	return &pointHistoryTable{
		entries: make(map[int64][]models.PointHistory),
	}
}

func (t *pointHistoryTable) Append(_ context.Context, userID int64, amount int64, txType string, processedAt time.Time) (models.PointHistory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	entry := models.PointHistory{
		ID:          t.nextID,
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		ProcessedAt: processedAt,
	}
	t.entries[userID] = append(t.entries[userID], entry)

	return entry, nil
}

func (t *pointHistoryTable) ListByUser(_ context.Context, userID int64) ([]models.PointHistory, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	// Copy so callers never observe later appends through the shared slice
	return slices.Clone(t.entries[userID]), nil
}
