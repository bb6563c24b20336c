package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyhq/tallybook/internal/domain"
)

const (
	createBookSQL = `INSERT INTO books (id, name, created_at, updated_at)
VALUES ($1, $2, $3, $4)`

	getBookByIDSQL = `SELECT id, name, created_at, updated_at
FROM books WHERE id = $1`

	addBookMemberSQL = `INSERT INTO book_members (book_id, user_id, created_at)
VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`

	isBookMemberSQL = `SELECT EXISTS (
SELECT 1 FROM book_members WHERE book_id = $1 AND user_id = $2)`
)

// BookRepository implements usecase.BookRepository.
type BookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

// Create creates a new book.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	_, err := r.pool.Exec(ctx, createBookSQL,
		book.ID,
		book.Name,
		timeToPgTimestamptz(book.CreatedAt),
		timeToPgTimestamptz(book.UpdatedAt),
	)

	return err
}

// GetByID retrieves a book by ID.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	var (
		book               domain.Book
		createdAt, updated pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, getBookByIDSQL, id).Scan(&book.ID, &book.Name, &createdAt, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}

		return nil, err
	}

	book.CreatedAt = createdAt.Time
	book.UpdatedAt = updated.Time

	return &book, nil
}

// AddMember adds a user to a book. Adding an existing member is a no-op.
func (r *BookRepository) AddMember(ctx context.Context, bookID, userID string) error {
	_, err := r.pool.Exec(ctx, addBookMemberSQL, bookID, userID)

	return err
}

// IsMember reports whether the user belongs to the book.
func (r *BookRepository) IsMember(ctx context.Context, bookID, userID string) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, isBookMemberSQL, bookID, userID).Scan(&exists)

	return exists, err
}
