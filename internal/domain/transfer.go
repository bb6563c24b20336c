package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRecord moves a positive amount between two accounts of the same
// book on one date: the from side is debited and the to side credited by the
// same magnitude.
type TransferRecord struct {
	ID            string
	BookID        string
	FromAccountID string
	ToAccountID   string
	TraderID      string
	CreatorID     string
	UpdaterID     string
	Amount        decimal.Decimal
	DealAt        time.Time
	Comment       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates the transfer's intrinsic rules.
func (t *TransferRecord) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if err := ValidateMoney(t.Amount); err != nil {
		return err
	}

	return ValidateDealDate(t.DealAt)
}
