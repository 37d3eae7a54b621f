package models

import (
	"time"
)

const (
	TransactionTypeCharge = "CHARGE"
	TransactionTypeUse    = "USE"
)

// UserPoint is the current point balance of a single user.
// Accounts are created implicitly: an unseen user has a zero balance.
type UserPoint struct {
	UserID    int64
	Balance   int64
	UpdatedAt time.Time
}

// PointHistory is one committed charge or use operation.
// Amount is always the positive magnitude; Type tells the direction.
type PointHistory struct {
	ID          int64
	UserID      int64
	Amount      int64
	Type        string
	ProcessedAt time.Time
}
