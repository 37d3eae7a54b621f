package apperrors

import (
	"errors"
)

var (
	ErrInvalidUserID = errors.New("user id must be a positive integer")
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	ErrBalanceLimitExceeded = errors.New("balance limit exceeded")
	ErrBelowMinUseAmount    = errors.New("amount is below minimum use amount")
	ErrInsufficientBalance  = errors.New("insufficient balance")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsValidation reports whether err is a deterministic rejection of the
// request itself, as opposed to an infrastructure failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidUserID,
		ErrInvalidAmount,
		ErrBalanceLimitExceeded,
		ErrBelowMinUseAmount,
		ErrInsufficientBalance,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
