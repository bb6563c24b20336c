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
	tagColumns = "id, book_id, name, sign_rule, created_at, updated_at"

	createTagSQL = `INSERT INTO tags (id, book_id, name, sign_rule, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	getTagByIDSQL = `SELECT ` + tagColumns + `
FROM tags WHERE id = $1`

	listTagsByBookSQL = `SELECT ` + tagColumns + `
FROM tags WHERE book_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
)

// TagRepository implements usecase.TagRepository.
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// Create creates a new tag.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	_, err := r.pool.Exec(ctx, createTagSQL,
		tag.ID,
		tag.BookID,
		tag.Name,
		string(tag.SignRule),
		timeToPgTimestamptz(tag.CreatedAt),
		timeToPgTimestamptz(tag.UpdatedAt),
	)

	return err
}

// GetByID retrieves a tag by ID.
func (r *TagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	tag, err := scanTag(r.pool.QueryRow(ctx, getTagByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}

		return nil, err
	}

	return tag, nil
}

// ListByBook lists a book's tags with pagination.
func (r *TagRepository) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(ctx, listTagsByBookSQL, bookID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

func scanTag(row pgx.Row) (*domain.Tag, error) {
	var (
		tag                domain.Tag
		signRule           string
		createdAt, updated pgtype.Timestamptz
	)

	if err := row.Scan(&tag.ID, &tag.BookID, &tag.Name, &signRule, &createdAt, &updated); err != nil {
		return nil, err
	}

	tag.SignRule = domain.SignRule(signRule)
	tag.CreatedAt = createdAt.Time
	tag.UpdatedAt = updated.Time

	return &tag, nil
}
