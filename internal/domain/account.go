package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a monetary account inside one book. InitialAmount is the
// balance before any recorded movement; the checkpoint series encodes every
// change after that.
type Account struct {
	ID            string
	BookID        string
	Name          string
	InitialAmount decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
