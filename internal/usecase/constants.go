package usecase

import (
	"context"
	"time"
)

const (
	// BalanceCacheTTL bounds staleness of cached current balances; mutations
	// also invalidate eagerly.
	BalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	balanceKeyPrefix = "balance:"
)

// invalidateBalances drops cached current balances for the touched accounts.
// Cache failures are swallowed: the entry expires on its own and the source
// of truth already committed.
func invalidateBalances(ctx context.Context, cache Cache, accountIDs ...string) {
	if cache == nil {
		return
	}

	for _, id := range accountIDs {
		_ = cache.Delete(ctx, balanceKeyPrefix+id)
	}
}

// runInTx is the shared transaction wrapper for movement mutations: one
// retriable attempt opens a transaction, runs op, and commits; any error
// rolls everything back.
func runInTx(ctx context.Context, txManager TransactionManager, retrier Retrier, op func(tx Transaction) error) error {
	attempt := func() error {
		tx, err := txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := op(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if retrier == nil {
		return attempt()
	}

	return retrier.Retry(ctx, attempt)
}
