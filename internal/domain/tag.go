package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignRule constrains the sign of flow record amounts carrying a tag.
type SignRule string

const (
	// SignRulePositiveOnly is used by income-category tags.
	SignRulePositiveOnly SignRule = "positive_only"
	// SignRuleNegativeOnly is used by expenditure-category tags.
	SignRuleNegativeOnly SignRule = "negative_only"
	// SignRuleEither places no constraint on the amount's sign.
	SignRuleEither SignRule = "either"
)

// Tag categorizes flow records within one book.
type Tag struct {
	ID        string
	BookID    string
	Name      string
	SignRule  SignRule
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateAmount checks amount against the tag's sign rule. Zero amounts are
// rejected under every rule: a movement must move money.
func (t *Tag) ValidateAmount(amount decimal.Decimal) error {
	switch t.SignRule {
	case SignRulePositiveOnly:
		if !amount.IsPositive() {
			return ErrSignRuleViolation
		}
	case SignRuleNegativeOnly:
		if !amount.IsNegative() {
			return ErrSignRuleViolation
		}
	default:
		if amount.IsZero() {
			return ErrSignRuleViolation
		}
	}

	return nil
}
