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
	createUserSQL = `INSERT INTO users (id, name, email, created_at)
VALUES ($1, $2, $3, $4)`

	getUserByIDSQL = `SELECT id, name, email, created_at
FROM users WHERE id = $1`
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		user.ID,
		user.Name,
		user.Email,
		timeToPgTimestamptz(user.CreatedAt),
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var (
		user      domain.User
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, getUserByIDSQL, id).Scan(&user.ID, &user.Name, &user.Email, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	user.CreatedAt = createdAt.Time

	return &user, nil
}
