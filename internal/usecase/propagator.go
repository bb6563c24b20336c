package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
)

// Delta is one movement's effect on one account as of one date.
type Delta struct {
	AccountID string
	Date      time.Time
	Amount    decimal.Decimal
}

// DeltaPropagator pushes a signed amount through an account's checkpoint
// series: every checkpoint from the delta's date onward absorbs it, a
// checkpoint is created or removed at the date itself as needed, and the
// non-negativity of the whole history is enforced before anything is written.
//
// All methods run inside the caller's transaction and never commit. The
// account row is locked first, so concurrent propagations on one account
// serialize on the database.
type DeltaPropagator struct {
	accountRepo AccountRepository
	checkpoints CheckpointRepository
}

// NewDeltaPropagator creates a new DeltaPropagator.
func NewDeltaPropagator(accountRepo AccountRepository, checkpoints CheckpointRepository) *DeltaPropagator {
	return &DeltaPropagator{
		accountRepo: accountRepo,
		checkpoints: checkpoints,
	}
}

// Apply records that the account's balance changes by delta from date onward.
func (p *DeltaPropagator) Apply(ctx context.Context, tx Transaction, accountID string, date time.Time, delta decimal.Decimal) error {
	date = domain.Day(date)

	account, err := p.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	if delta.IsZero() {
		return nil
	}

	// Every checkpoint from date onward will absorb delta; reject before
	// writing if any of them would land below zero.
	future, err := p.checkpoints.ListFromForUpdate(ctx, tx, accountID, date)
	if err != nil {
		return err
	}

	for _, cp := range future {
		if cp.Amount.Add(delta).IsNegative() {
			return &domain.NegativeBalanceError{AccountID: accountID, Date: cp.Date}
		}
	}

	if err := p.checkpoints.ShiftAmountsFrom(ctx, tx, accountID, date, delta, true); err != nil {
		return err
	}

	// base is the balance just before date.
	base := account.InitialAmount

	prev, err := p.checkpoints.FindLatestBefore(ctx, tx, accountID, date)
	if err != nil {
		return err
	}

	if prev != nil {
		base = prev.Amount
	}

	// current, if present, was already shifted above.
	current, err := p.checkpoints.FindAt(ctx, tx, accountID, date)
	if err != nil {
		return err
	}

	target := base.Add(delta)
	if current != nil {
		target = current.Amount
	}

	if target.IsNegative() {
		// The bulk check above covers every pre-existing checkpoint; this
		// covers the value newly standing at date itself.
		return &domain.NegativeBalanceError{AccountID: accountID, Date: date}
	}

	// Compression: a checkpoint equal to its predecessor encodes no change.
	if target.Equal(base) {
		if current != nil {
			return p.checkpoints.Delete(ctx, tx, accountID, date)
		}

		return nil
	}

	return p.checkpoints.Upsert(ctx, tx, &domain.Checkpoint{
		AccountID: accountID,
		Date:      date,
		Amount:    target,
	})
}

// Unapply reverses a previously applied delta.
func (p *DeltaPropagator) Unapply(ctx context.Context, tx Transaction, accountID string, date time.Time, delta decimal.Decimal) error {
	return p.Apply(ctx, tx, accountID, date, delta.Neg())
}

// Move reverses old and applies new as one unit. Both run on the caller's
// transaction: if the new delta is rejected, rolling back the transaction
// also undoes the reversal.
func (p *DeltaPropagator) Move(ctx context.Context, tx Transaction, old, new Delta) error {
	if err := p.Unapply(ctx, tx, old.AccountID, old.Date, old.Amount); err != nil {
		return err
	}

	return p.Apply(ctx, tx, new.AccountID, new.Date, new.Amount)
}
