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
	transferRecordColumns = `id, book_id, from_account_id, to_account_id, trader_id,
creator_id, updater_id, amount, deal_at, comment, created_at, updated_at`

	createTransferRecordSQL = `INSERT INTO transfer_records
(id, book_id, from_account_id, to_account_id, trader_id, creator_id, updater_id, amount, deal_at, comment, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	getTransferRecordByIDSQL = `SELECT ` + transferRecordColumns + `
FROM transfer_records WHERE id = $1`

	updateTransferRecordSQL = `UPDATE transfer_records
SET trader_id = $2, updater_id = $3, amount = $4, deal_at = $5, comment = $6,
updated_at = $7
WHERE id = $1`

	deleteTransferRecordSQL = `DELETE FROM transfer_records WHERE id = $1`

	listTransferRecordsByAccountSQL = `SELECT ` + transferRecordColumns + `
FROM transfer_records WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY deal_at DESC, created_at DESC LIMIT $2 OFFSET $3`
)

// TransferRecordRepository implements usecase.TransferRecordRepository.
type TransferRecordRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRecordRepository creates a new TransferRecordRepository.
func NewTransferRecordRepository(pool *pgxpool.Pool) *TransferRecordRepository {
	return &TransferRecordRepository{pool: pool}
}

// Create inserts the record inside tx, alongside both sides' propagations.
func (r *TransferRecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransferRecord) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, createTransferRecordSQL,
		record.ID,
		record.BookID,
		record.FromAccountID,
		record.ToAccountID,
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

// GetByID retrieves a transfer record by ID.
func (r *TransferRecordRepository) GetByID(ctx context.Context, id string) (*domain.TransferRecord, error) {
	record, err := scanTransferRecord(r.pool.QueryRow(ctx, getTransferRecordByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferRecordNotFound
		}

		return nil, err
	}

	return record, nil
}

// Update rewrites the record's mutable fields inside tx. The account pair is
// immutable: moving money elsewhere is a delete plus a create.
func (r *TransferRecordRepository) Update(ctx context.Context, tx usecase.Transaction, record *domain.TransferRecord) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, updateTransferRecordSQL,
		record.ID,
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
		return domain.ErrTransferRecordNotFound
	}

	return nil
}

// Delete removes the record inside tx.
func (r *TransferRecordRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, deleteTransferRecordSQL, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferRecordNotFound
	}

	return nil
}

// ListByAccount lists transfers touching the account on either side.
func (r *TransferRecordRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransferRecord, error) {
	rows, err := r.pool.Query(ctx, listTransferRecordsByAccountSQL, accountID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TransferRecord
	for rows.Next() {
		record, err := scanTransferRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanTransferRecord(row pgx.Row) (*domain.TransferRecord, error) {
	var (
		record             domain.TransferRecord
		amount             pgtype.Numeric
		dealAt             pgtype.Date
		createdAt, updated pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.BookID,
		&record.FromAccountID,
		&record.ToAccountID,
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
