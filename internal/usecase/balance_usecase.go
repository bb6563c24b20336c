package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
)

// BalanceUseCase answers balance questions from the checkpoint series. It is
// read-only: it trusts the series the propagator maintains and never touches
// it.
type BalanceUseCase struct {
	accountRepo AccountRepository
	checkpoints CheckpointRepository
	cache       Cache
	now         func() time.Time
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil.
func NewBalanceUseCase(accountRepo AccountRepository, checkpoints CheckpointRepository, cache Cache) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo: accountRepo,
		checkpoints: checkpoints,
		cache:       cache,
		now:         time.Now,
	}
}

// CurrentBalance returns the account's balance as of today, read through the
// cache when one is configured.
func (uc *BalanceUseCase) CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceKeyPrefix+accountID); err == nil {
			if balance, perr := decimal.NewFromString(cached); perr == nil {
				return balance, nil
			}
		}
	}

	balance, err := uc.BalanceAt(ctx, accountID, uc.now())
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceKeyPrefix+accountID, balance.String(), BalanceCacheTTL)
	}

	return balance, nil
}

// BalanceAt returns the account's balance as of date: the amount of the
// checkpoint with the greatest date at or before it, or the account's initial
// amount when the series has nothing there yet.
func (uc *BalanceUseCase) BalanceAt(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	cp, err := uc.checkpoints.FindLatestAtOrBefore(ctx, accountID, domain.Day(date))
	if err != nil {
		return decimal.Zero, err
	}

	if cp == nil {
		return account.InitialAmount, nil
	}

	return cp.Amount, nil
}

// BalanceSeries is an account's balance trend over a date range: the balance
// just before From, then every change inside the range.
type BalanceSeries struct {
	AccountID string
	From      time.Time
	To        time.Time
	Opening   decimal.Decimal
	Points    []*domain.Checkpoint
}

// GetBalanceSeries returns the checkpoints between from and to inclusive,
// seeded with the balance in force the day before from. The points hold
// cumulative balances, not deltas, so a caller can plot them directly.
func (uc *BalanceUseCase) GetBalanceSeries(ctx context.Context, accountID string, from, to time.Time) (*BalanceSeries, error) {
	from = domain.Day(from)
	to = domain.Day(to)

	opening, err := uc.BalanceAt(ctx, accountID, from.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	points, err := uc.checkpoints.ListRange(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	return &BalanceSeries{
		AccountID: accountID,
		From:      from,
		To:        to,
		Opening:   opening,
		Points:    points,
	}, nil
}
