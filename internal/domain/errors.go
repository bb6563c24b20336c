package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Book errors
	ErrBookNotFound         = errors.New("book not found")
	ErrBookMembershipDenied = errors.New("user is not a member of the book")
	ErrCrossBookAccounts    = errors.New("accounts belong to different books")
	ErrCrossBookTag         = errors.New("tag belongs to a different book")

	// Movement errors
	ErrFlowRecordNotFound     = errors.New("flow record not found")
	ErrTransferRecordNotFound = errors.New("transfer record not found")
	ErrSameAccount            = errors.New("cannot transfer to same account")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrSignRuleViolation      = errors.New("amount sign not allowed by tag category")

	// Tag/user errors
	ErrTagNotFound  = errors.New("tag not found")
	ErrUserNotFound = errors.New("user not found")

	// Checkpoint errors
	ErrCheckpointConflict = errors.New("checkpoint already recorded for account and date")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// NegativeBalanceError reports that a delta would drive an account's balance
// below zero at some date on or after the requested date.
type NegativeBalanceError struct {
	AccountID string
	Date      time.Time
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("balance of account %s would become negative at %s",
		e.AccountID, e.Date.Format("2006-01-02"))
}

// IsNegativeBalance reports whether err is a NegativeBalanceError.
func IsNegativeBalance(err error) bool {
	var nb *NegativeBalanceError
	return errors.As(err, &nb)
}
