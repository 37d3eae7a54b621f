// Package point implements the ledger engine: validated, per-user
// serialized balance mutations with an append-only history.
package point

import (
	"context"
	"fmt"
	"time"

	"pointledger/internal/apperrors"
	"pointledger/internal/cache"
	"pointledger/internal/events"
	"pointledger/internal/lane"
	"pointledger/internal/logger"
	"pointledger/internal/metrics"
	"pointledger/internal/models"
	"pointledger/internal/repository"
)

const (
	DefaultMaxBalance   = 5_000_000
	DefaultMinUseAmount = 1_000
)

type Config struct {
	// Hard cap a balance may never exceed
	MaxBalance int64

	// Smallest amount a single use operation may spend
	MinUseAmount int64
}

type PointService struct {
	cfg     Config
	storage repository.Storage
	lanes   *lane.KeyedMutex
	log     logger.Logger

	// Optional collaborators, may stay nil
	balanceCache *cache.BalanceCache
	publisher    events.Publisher
}

type Option func(*PointService)

// WithBalanceCache serves GetBalance from redis when possible.
func WithBalanceCache(c *cache.BalanceCache) Option {
	return func(s *PointService) { s.balanceCache = c }
}

// WithPublisher emits an event for every committed transaction.
func WithPublisher(p events.Publisher) Option {
	return func(s *PointService) { s.publisher = p }
}

func NewService(cfg Config, storage repository.Storage, l logger.Logger, opts ...Option) *PointService {
	if cfg.MaxBalance <= 0 {
		cfg.MaxBalance = DefaultMaxBalance
	}
	if cfg.MinUseAmount <= 0 {
		cfg.MinUseAmount = DefaultMinUseAmount
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	s := &PointService{
		cfg:     cfg,
		storage: storage,
		lanes:   lane.New(),
		log:     l,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Charge adds amount to the user balance and appends a CHARGE entry.
// The whole read-validate-write-append sequence runs inside the user's
// lane, so a concurrent mutation can never base itself on a stale read.
func (s *PointService) Charge(ctx context.Context, userID int64, amount int64) (point models.UserPoint, err error) {
	defer s.observe("charge", time.Now(), &err)

	if err := validateInput(userID, amount); err != nil {
		return models.UserPoint{}, err
	}

	unlock := s.lanes.Lock(userID)
	defer unlock()

	current, err := s.storage.Points().GetUserPoint(ctx, userID)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}

	// amount > MaxBalance catches additions that would overflow int64
	if amount > s.cfg.MaxBalance || current.Balance+amount > s.cfg.MaxBalance {
		s.log.Error("charge rejected, balance limit exceeded",
			"user_id", userID, "balance", current.Balance, "amount", amount, "limit", s.cfg.MaxBalance)
		return models.UserPoint{}, fmt.Errorf("balance may not exceed %d, current balance is %d: %w",
			s.cfg.MaxBalance, current.Balance, apperrors.ErrBalanceLimitExceeded)
	}

	point, err = s.commit(ctx, userID, current.Balance+amount, amount, models.TransactionTypeCharge)
	if err != nil {
		return models.UserPoint{}, err
	}

	s.log.Info("points charged", "user_id", userID, "amount", amount, "balance", point.Balance)

	return point, nil
}

// Use spends amount from the user balance and appends a USE entry.
func (s *PointService) Use(ctx context.Context, userID int64, amount int64) (point models.UserPoint, err error) {
	defer s.observe("use", time.Now(), &err)

	if err := validateInput(userID, amount); err != nil {
		return models.UserPoint{}, err
	}

	// Depends only on input, checked before touching any state
	if amount < s.cfg.MinUseAmount {
		s.log.Error("use rejected, amount below minimum",
			"user_id", userID, "amount", amount, "minimum", s.cfg.MinUseAmount)
		return models.UserPoint{}, fmt.Errorf("at least %d points must be used at once: %w",
			s.cfg.MinUseAmount, apperrors.ErrBelowMinUseAmount)
	}

	unlock := s.lanes.Lock(userID)
	defer unlock()

	current, err := s.storage.Points().GetUserPoint(ctx, userID)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}

	if current.Balance < amount {
		s.log.Error("use rejected, insufficient balance",
			"user_id", userID, "balance", current.Balance, "amount", amount)
		return models.UserPoint{}, fmt.Errorf("current balance is %d: %w",
			current.Balance, apperrors.ErrInsufficientBalance)
	}

	point, err = s.commit(ctx, userID, current.Balance-amount, amount, models.TransactionTypeUse)
	if err != nil {
		return models.UserPoint{}, err
	}

	s.log.Info("points used", "user_id", userID, "amount", amount, "balance", point.Balance)

	return point, nil
}

// GetBalance returns the current state of the user account.
// Served without the lane: a concurrently committing mutation may not be
// visible yet, which is the documented read relaxation.
func (s *PointService) GetBalance(ctx context.Context, userID int64) (point models.UserPoint, err error) {
	defer s.observe("balance", time.Now(), &err)

	if userID <= 0 {
		return models.UserPoint{}, apperrors.ErrInvalidUserID
	}

	if s.balanceCache != nil {
		if cached, ok := s.balanceCache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	point, err = s.storage.Points().GetUserPoint(ctx, userID)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}

	if s.balanceCache != nil {
		s.balanceCache.Set(ctx, point)
	}

	return point, nil
}

// GetHistory returns all committed operations of the user, oldest first.
func (s *PointService) GetHistory(ctx context.Context, userID int64) (entries []models.PointHistory, err error) {
	defer s.observe("history", time.Now(), &err)

	if userID <= 0 {
		return nil, apperrors.ErrInvalidUserID
	}

	entries, err = s.storage.History().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}

	return entries, nil
}

// commit writes the new balance and its history entry as one storage
// transaction. Must be called with the user's lane held.
func (s *PointService) commit(ctx context.Context, userID int64, newBalance int64, amount int64, txType string) (models.UserPoint, error) {
	var point models.UserPoint
	var entry models.PointHistory

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error

		point, err = st.Points().UpsertUserPoint(ctx, userID, newBalance)
		if err != nil {
			return err
		}

		entry, err = st.History().Append(ctx, userID, amount, txType, time.Now())
		return err
	})
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}

	// Post-commit, best effort only
	if s.balanceCache != nil {
		s.balanceCache.Set(ctx, point)
	}
	if s.publisher != nil {
		s.publishTransaction(entry, point.Balance)
	}

	return point, nil
}

func (s *PointService) publishTransaction(entry models.PointHistory, balance int64) {
	data, err := events.MarshalTransaction(entry, balance)
	if err != nil {
		s.log.Warn("transaction event marshal failed", "entry_id", entry.ID, "error", err)
		return
	}

	if err := s.publisher.Publish(events.SubjectTransactions, data); err != nil {
		s.log.Warn("transaction event publish failed", "entry_id", entry.ID, "error", err)
	}
}

func (s *PointService) observe(op string, start time.Time, err *error) {
	metrics.RecordOperation(op, statusOf(*err), time.Since(start))
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case apperrors.IsValidation(err):
		return metrics.StatusRejected
	default:
		return metrics.StatusError
	}
}

func validateInput(userID int64, amount int64) error {
	if userID <= 0 {
		return apperrors.ErrInvalidUserID
	}
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	return nil
}
