package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName    = errors.New("invalid name")
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")
	ErrInvalidScale   = errors.New("amount has more than two decimal places")
	ErrInvalidDate    = errors.New("invalid deal date")
)

// Validation constants
const (
	MaxNameLength = 255
	MinNameLength = 1
	MaxMoney      = "1000000000000" // 1 trillion
)

// Deal dates must stay inside a sane window so a typo'd year cannot park a
// checkpoint the shift query will drag along forever.
var (
	minDealDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDealDate = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// ValidateName validates a book, account, or tag name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateMoney validates magnitude and scale of a monetary amount. All
// amounts are fixed-point with a two-digit scale end to end.
func ValidateMoney(amount decimal.Decimal) error {
	if amount.Exponent() < -2 {
		return ErrInvalidScale
	}

	maxMoney, _ := decimal.NewFromString(MaxMoney)
	if amount.Abs().GreaterThan(maxMoney) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMoney)
	}

	return nil
}

// ValidateDealDate checks a movement date is set and inside the allowed window.
func ValidateDealDate(dealAt time.Time) error {
	if dealAt.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	if dealAt.Before(minDealDate) || !dealAt.Before(maxDealDate) {
		return fmt.Errorf("%w: date out of range", ErrInvalidDate)
	}

	return nil
}

// ClampPagination validates and limits pagination parameters.
func ClampPagination(limit, offset int) (int, int) {
	const maxPageSize = 100
	const defaultPageSize = 20

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
