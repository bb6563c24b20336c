package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
)

const (
	flowRecordColumns = `id, book_id, account_id, tag_id, trader_id, creator_id,
updater_id, amount, deal_at, comment, created_at, updated_at`

	createFlowRecordSQL = `INSERT INTO flow_records
(id, book_id, account_id, tag_id, trader_id, creator_id, updater_id, amount, deal_at, comment, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	getFlowRecordByIDSQL = `SELECT ` + flowRecordColumns + `
FROM flow_records WHERE id = $1`

	updateFlowRecordSQL = `UPDATE flow_records
SET tag_id = $2, trader_id = $3, updater_id = $4, amount = $5, deal_at = $6,
comment = $7, updated_at = $8
WHERE id = $1`

	deleteFlowRecordSQL = `DELETE FROM flow_records WHERE id = $1`

	listFlowRecordsByAccountSQL = `SELECT ` + flowRecordColumns + `
FROM flow_records WHERE account_id = $1
ORDER BY deal_at DESC, created_at DESC LIMIT $2 OFFSET $3`
)

// FlowRecordRepository implements usecase.FlowRecordRepository.
type FlowRecordRepository struct {
	pool *pgxpool.Pool
}

// NewFlowRecordRepository creates a new FlowRecordRepository.
func NewFlowRecordRepository(pool *pgxpool.Pool) *FlowRecordRepository {
	return &FlowRecordRepository{pool: pool}
}

// Create inserts the record inside tx, alongside its checkpoint propagation.
func (r *FlowRecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.FlowRecord) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, createFlowRecordSQL,
		record.ID,
		record.BookID,
		record.AccountID,
		record.TagID,
		record.TraderID,
		record.CreatorID,
		record.UpdaterID,
		decimalToNumeric(record.Amount),
		dateToPgDate(record.DealAt),
		record.Comment,
		timeToPgTimestamptz(record.CreatedAt),
		timeToPgTimestamptz(record.UpdatedAt),
	)

	return err
}

// GetByID retrieves a flow record by ID.
func (r *FlowRecordRepository) GetByID(ctx context.Context, id string) (*domain.FlowRecord, error) {
	record, err := scanFlowRecord(r.pool.QueryRow(ctx, getFlowRecordByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlowRecordNotFound
		}

		return nil, err
	}

	return record, nil
}

// Update rewrites the record's mutable fields inside tx.
func (r *FlowRecordRepository) Update(ctx context.Context, tx usecase.Transaction, record *domain.FlowRecord) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, updateFlowRecordSQL,
		record.ID,
		record.TagID,
		record.TraderID,
		record.UpdaterID,
		decimalToNumeric(record.Amount),
		dateToPgDate(record.DealAt),
		record.Comment,
		timeToPgTimestamptz(record.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrFlowRecordNotFound
	}

	return nil
}

// Delete removes the record inside tx.
func (r *FlowRecordRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, deleteFlowRecordSQL, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrFlowRecordNotFound
	}

	return nil
}

// ListByAccount lists an account's flow records, most recent deal first.
func (r *FlowRecordRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FlowRecord, error) {
	rows, err := r.pool.Query(ctx, listFlowRecordsByAccountSQL, accountID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.FlowRecord
	for rows.Next() {
		record, err := scanFlowRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanFlowRecord(row pgx.Row) (*domain.FlowRecord, error) {
	var (
		record             domain.FlowRecord
		amount             pgtype.Numeric
		dealAt             pgtype.Date
		createdAt, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.BookID,
		&record.AccountID,
		&record.TagID,
		&record.TraderID,
		&record.CreatorID,
		&record.UpdaterID,
		&amount,
		&dealAt,
		&record.Comment,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	record.Amount = numericToDecimal(amount)
	record.DealAt = pgDateToTime(dealAt)
	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updated.Time

	return &record, nil
}
