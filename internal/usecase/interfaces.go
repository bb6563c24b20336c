package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
)

// CheckpointRepository defines data access for one account's balance
// checkpoint series. Lookup methods return (nil, nil) when no checkpoint
// matches: an empty series is a normal state, not an error.
type CheckpointRepository interface {
	// FindAt returns the checkpoint at exactly date.
	FindAt(ctx context.Context, tx Transaction, accountID string, date time.Time) (*domain.Checkpoint, error)
	// FindLatestBefore returns the checkpoint with the greatest date strictly
	// before the argument.
	FindLatestBefore(ctx context.Context, tx Transaction, accountID string, date time.Time) (*domain.Checkpoint, error)
	// FindLatestAtOrBefore returns the checkpoint governing the balance at
	// date. Read-only, runs outside any transaction.
	FindLatestAtOrBefore(ctx context.Context, accountID string, date time.Time) (*domain.Checkpoint, error)
	// ListFromForUpdate returns all checkpoints with date >= date in date
	// order, locking the rows for the duration of tx.
	ListFromForUpdate(ctx context.Context, tx Transaction, accountID string, date time.Time) ([]*domain.Checkpoint, error)
	// ListRange returns checkpoints with from <= date <= to in date order.
	ListRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.Checkpoint, error)
	// ShiftAmountsFrom adds delta to the amount of every checkpoint with
	// date >= date (inclusive) or date > date (exclusive) in one bulk update.
	ShiftAmountsFrom(ctx context.Context, tx Transaction, accountID string, date time.Time, delta decimal.Decimal, inclusive bool) error
	Upsert(ctx context.Context, tx Transaction, checkpoint *domain.Checkpoint) error
	Delete(ctx context.Context, tx Transaction, accountID string, date time.Time) error
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Account, error)
}

// BookRepository defines data access for books and their membership.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	AddMember(ctx context.Context, bookID, userID string) error
	IsMember(ctx context.Context, bookID, userID string) (bool, error)
}

// TagRepository defines data access for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Tag, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// FlowRecordRepository defines data access for flow records.
type FlowRecordRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.FlowRecord) error
	GetByID(ctx context.Context, id string) (*domain.FlowRecord, error)
	Update(ctx context.Context, tx Transaction, record *domain.FlowRecord) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FlowRecord, error)
}

// TransferRecordRepository defines data access for transfer records.
type TransferRecordRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.TransferRecord) error
	GetByID(ctx context.Context, id string) (*domain.TransferRecord, error)
	Update(ctx context.Context, tx Transaction, record *domain.TransferRecord) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransferRecord, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation when it fails with a transient conflict
// (serialization failure, deadlock, checkpoint unique-key race).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
