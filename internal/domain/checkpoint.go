package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkpoint is one step of an account's balance history: Amount is the
// cumulative balance as of Date, inclusive. The balance at any query date is
// the amount of the checkpoint with the greatest date at or before it, or the
// account's initial amount when no such checkpoint exists.
//
// Within one account's series no two checkpoints share a date, and no two
// adjacent checkpoints carry the same amount: the series is a minimal
// run-length encoding of the balance step function.
type Checkpoint struct {
	AccountID string
	Date      time.Time
	Amount    decimal.Decimal
}

// Day truncates t to UTC midnight. Deal dates compare at day precision, so
// every date entering the checkpoint series goes through this first.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
