package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowRecord is a single-account dated movement. Amount is signed: negative
// for expenditure, positive for income, as constrained by the tag's sign rule.
type FlowRecord struct {
	ID        string
	BookID    string
	AccountID string
	TagID     string
	TraderID  string
	CreatorID string
	UpdaterID string
	Amount    decimal.Decimal
	DealAt    time.Time
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the record's intrinsic rules; sign-rule and membership
// checks need the tag and book and live in the use case layer.
func (r *FlowRecord) Validate() error {
	if r.Amount.IsZero() {
		return ErrSignRuleViolation
	}

	if err := ValidateMoney(r.Amount); err != nil {
		return err
	}

	return ValidateDealDate(r.DealAt)
}
