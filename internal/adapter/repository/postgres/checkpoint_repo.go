package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const (
	checkpointColumns = "account_id, date, amount"

	findCheckpointAtSQL = `SELECT ` + checkpointColumns + `
FROM checkpoints WHERE account_id = $1 AND date = $2`

	findLatestCheckpointBeforeSQL = `SELECT ` + checkpointColumns + `
FROM checkpoints WHERE account_id = $1 AND date < $2
ORDER BY date DESC LIMIT 1`

	findLatestCheckpointAtOrBeforeSQL = `SELECT ` + checkpointColumns + `
FROM checkpoints WHERE account_id = $1 AND date <= $2
ORDER BY date DESC LIMIT 1`

	listCheckpointsFromForUpdateSQL = `SELECT ` + checkpointColumns + `
FROM checkpoints WHERE account_id = $1 AND date >= $2
ORDER BY date FOR UPDATE`

	listCheckpointsRangeSQL = `SELECT ` + checkpointColumns + `
FROM checkpoints WHERE account_id = $1 AND date BETWEEN $2 AND $3
ORDER BY date`

	shiftCheckpointsInclusiveSQL = `UPDATE checkpoints
SET amount = amount + $3 WHERE account_id = $1 AND date >= $2`

	shiftCheckpointsExclusiveSQL = `UPDATE checkpoints
SET amount = amount + $3 WHERE account_id = $1 AND date > $2`

	upsertCheckpointSQL = `INSERT INTO checkpoints (account_id, date, amount)
VALUES ($1, $2, $3)
ON CONFLICT (account_id, date) DO UPDATE SET amount = EXCLUDED.amount`

	deleteCheckpointSQL = `DELETE FROM checkpoints
WHERE account_id = $1 AND date = $2`
)

// CheckpointRepository implements usecase.CheckpointRepository on top of the
// checkpoints table. One row per (account, day); amount is the cumulative
// balance as of that day.
type CheckpointRepository struct {
	pool *pgxpool.Pool
}

// NewCheckpointRepository creates a new CheckpointRepository.
func NewCheckpointRepository(pool *pgxpool.Pool) *CheckpointRepository {
	return &CheckpointRepository{pool: pool}
}

// FindAt returns the checkpoint at exactly date, or (nil, nil).
func (r *CheckpointRepository) FindAt(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) (*domain.Checkpoint, error) {
	row := tx.(*Tx).PgxTx().QueryRow(ctx, findCheckpointAtSQL, accountID, dateToPgDate(date))

	return scanCheckpoint(row)
}

// FindLatestBefore returns the checkpoint with the greatest date strictly
// before the argument, or (nil, nil).
func (r *CheckpointRepository) FindLatestBefore(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) (*domain.Checkpoint, error) {
	row := tx.(*Tx).PgxTx().QueryRow(ctx, findLatestCheckpointBeforeSQL, accountID, dateToPgDate(date))

	return scanCheckpoint(row)
}

// FindLatestAtOrBefore returns the checkpoint governing the balance at date.
// Runs on the pool: balance reads do not open transactions.
func (r *CheckpointRepository) FindLatestAtOrBefore(ctx context.Context, accountID string, date time.Time) (*domain.Checkpoint, error) {
	row := r.pool.QueryRow(ctx, findLatestCheckpointAtOrBeforeSQL, accountID, dateToPgDate(date))

	return scanCheckpoint(row)
}

// ListFromForUpdate returns all checkpoints with date >= date in date order,
// locking the rows for the duration of tx.
func (r *CheckpointRepository) ListFromForUpdate(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) ([]*domain.Checkpoint, error) {
	rows, err := tx.(*Tx).PgxTx().Query(ctx, listCheckpointsFromForUpdateSQL, accountID, dateToPgDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCheckpoints(rows)
}

// ListRange returns checkpoints with from <= date <= to in date order.
func (r *CheckpointRepository) ListRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.Checkpoint, error) {
	rows, err := r.pool.Query(ctx, listCheckpointsRangeSQL, accountID, dateToPgDate(from), dateToPgDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCheckpoints(rows)
}

// ShiftAmountsFrom adds delta to every checkpoint at or after date (inclusive)
// or strictly after date (exclusive) in one bulk update.
func (r *CheckpointRepository) ShiftAmountsFrom(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time, delta decimal.Decimal, inclusive bool) error {
	query := shiftCheckpointsExclusiveSQL
	if inclusive {
		query = shiftCheckpointsInclusiveSQL
	}

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query, accountID, dateToPgDate(date), decimalToNumeric(delta))

	return err
}

// Upsert inserts the checkpoint or overwrites the amount of the existing row
// at the same date.
func (r *CheckpointRepository) Upsert(ctx context.Context, tx usecase.Transaction, checkpoint *domain.Checkpoint) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, upsertCheckpointSQL,
		checkpoint.AccountID,
		dateToPgDate(checkpoint.Date),
		decimalToNumeric(checkpoint.Amount),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrCheckpointConflict
	}

	return err
}

// Delete removes the checkpoint at date. Deleting a missing row is a no-op.
func (r *CheckpointRepository) Delete(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, deleteCheckpointSQL, accountID, dateToPgDate(date))

	return err
}

func scanCheckpoint(row pgx.Row) (*domain.Checkpoint, error) {
	var (
		cp     domain.Checkpoint
		date   pgtype.Date
		amount pgtype.Numeric
	)

	if err := row.Scan(&cp.AccountID, &date, &amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	cp.Date = pgDateToTime(date)
	cp.Amount = numericToDecimal(amount)

	return &cp, nil
}

func scanCheckpoints(rows pgx.Rows) ([]*domain.Checkpoint, error) {
	var checkpoints []*domain.Checkpoint

	for rows.Next() {
		var (
			cp     domain.Checkpoint
			date   pgtype.Date
			amount pgtype.Numeric
		)

		if err := rows.Scan(&cp.AccountID, &date, &amount); err != nil {
			return nil, err
		}

		cp.Date = pgDateToTime(date)
		cp.Amount = numericToDecimal(amount)
		checkpoints = append(checkpoints, &cp)
	}

	return checkpoints, rows.Err()
}
