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
	accountColumns = "id, book_id, name, initial_amount, created_at, updated_at"

	createAccountSQL = `INSERT INTO accounts (id, book_id, name, initial_amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	getAccountByIDSQL = `SELECT ` + accountColumns + `
FROM accounts WHERE id = $1`

	getAccountByIDForUpdateSQL = `SELECT ` + accountColumns + `
FROM accounts WHERE id = $1 FOR UPDATE`

	listAccountsByBookSQL = `SELECT ` + accountColumns + `
FROM accounts WHERE book_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, createAccountSQL,
		account.ID,
		account.BookID,
		account.Name,
		decimalToNumeric(account.InitialAmount),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, getAccountByIDSQL, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock. Every
// checkpoint propagation takes this lock first, serializing writers per
// account.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return scanAccount(tx.(*Tx).PgxTx().QueryRow(ctx, getAccountByIDForUpdateSQL, id))
}

// ListByBook lists a book's accounts with pagination.
func (r *AccountRepository) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, listAccountsByBookSQL, bookID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccountFrom(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account, err := scanAccountFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func scanAccountFrom(row pgx.Row) (*domain.Account, error) {
	var (
		account            domain.Account
		initial            pgtype.Numeric
		createdAt, updated pgtype.Timestamptz
	)

	if err := row.Scan(&account.ID, &account.BookID, &account.Name, &initial, &createdAt, &updated); err != nil {
		return nil, err
	}

	account.InitialAmount = numericToDecimal(initial)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updated.Time

	return &account, nil
}
