// Package memory implements the storage interfaces over process memory.
//
// It backs unit tests and DSN-less runs. The tables themselves are safe
// for concurrent access but do not serialize read-modify-write sequences:
// that is the point service's job, same as with the postgres storage.
package memory

import (
	"context"
	"sync"

	"pointledger/internal/repository"
)

type Storage struct {
	txMu      sync.Mutex
	points    *userPointTable
	histories *pointHistoryTable
}

func NewStorage() *Storage {
	return &Storage{
		points:    newUserPointTable(),
		histories: newPointHistoryTable(),
	}
}

func (s *Storage) Points() repository.UserPointRepo {
	return s.points
}

func (s *Storage) History() repository.PointHistoryRepo {
	return s.histories
}

// InTx runs fn while holding a storage-wide lock, so two transactions
// never interleave their writes. There is no rollback: memory writes are
// assumed to succeed, and callers validate before writing anything.
func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	return fn(s)
}
