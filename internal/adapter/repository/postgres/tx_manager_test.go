package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/tallyhq/tallybook/internal/domain"
)

func TestTxManagerCommit(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectCommit()

	manager := newTxManagerWithPool(mockPool)

	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTxManagerBeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("begin failed")
	mockPool.ExpectBegin().WillReturnError(mockErr)

	manager := newTxManagerWithPool(mockPool)

	if _, err := manager.Begin(context.Background()); !errors.Is(err, mockErr) {
		t.Fatalf("expected begin error, got %v", err)
	}
}

func TestTxRollback(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool)

	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

// Repositories reach the raw pgx transaction through PgxTx; a checkpoint
// shift inside the wrapper must land on the same transaction.
func TestTxExposesUnderlyingTransaction(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(shiftCheckpointsInclusiveSQL)).
		WithArgs("acc-1", dateToPgDate(domain.Day(mustParseDay(t, "2024-01-10"))), decimalToNumeric(decimal.RequireFromString("-30.00"))).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mockPool.ExpectCommit()

	manager := newTxManagerWithPool(mockPool)

	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pgxTx := tx.(*Tx).PgxTx()
	if pgxTx == nil {
		t.Fatal("expected underlying pgx transaction")
	}

	_, err = pgxTx.Exec(context.Background(), shiftCheckpointsInclusiveSQL,
		"acc-1",
		dateToPgDate(domain.Day(mustParseDay(t, "2024-01-10"))),
		decimalToNumeric(decimal.RequireFromString("-30.00")),
	)
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func mustParseDay(t *testing.T, s string) time.Time {
	t.Helper()

	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad day %q: %v", s, err)
	}

	return day
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()

	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
