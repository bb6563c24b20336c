package usecase

import (
	"context"
	"time"

	"github.com/tallyhq/tallybook/internal/domain"
)

// BookUseCase handles book, member, tag, and user management. These are the
// thin collaborators around the balance-history core: just enough surface for
// membership checks, sign-rule lookups, and trader references.
type BookUseCase struct {
	bookRepo BookRepository
	tagRepo  TagRepository
	userRepo UserRepository
	idGen    IDGenerator
}

// NewBookUseCase creates a new BookUseCase.
func NewBookUseCase(bookRepo BookRepository, tagRepo TagRepository, userRepo UserRepository, idGen IDGenerator) *BookUseCase {
	return &BookUseCase{
		bookRepo: bookRepo,
		tagRepo:  tagRepo,
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// CreateBook creates a book with the creator as its first member.
func (uc *BookUseCase) CreateBook(ctx context.Context, name, creatorID string) (*domain.Book, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &domain.Book{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	if err := uc.bookRepo.AddMember(ctx, book.ID, creatorID); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBook retrieves a book by ID.
func (uc *BookUseCase) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return uc.bookRepo.GetByID(ctx, id)
}

// AddMember adds a user to a book. Only existing members may invite.
func (uc *BookUseCase) AddMember(ctx context.Context, bookID, userID, actorID string) error {
	member, err := uc.bookRepo.IsMember(ctx, bookID, actorID)
	if err != nil {
		return err
	}

	if !member {
		return domain.ErrBookMembershipDenied
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return uc.bookRepo.AddMember(ctx, bookID, userID)
}

// CreateTagInput represents input for creating a tag.
type CreateTagInput struct {
	ActorID  string
	BookID   string
	Name     string
	SignRule domain.SignRule
}

// CreateTag creates a tag in a book the actor is a member of.
func (uc *BookUseCase) CreateTag(ctx context.Context, input CreateTagInput) (*domain.Tag, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	switch input.SignRule {
	case domain.SignRulePositiveOnly, domain.SignRuleNegativeOnly, domain.SignRuleEither:
	default:
		return nil, domain.ErrSignRuleViolation
	}

	member, err := uc.bookRepo.IsMember(ctx, input.BookID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if !member {
		return nil, domain.ErrBookMembershipDenied
	}

	now := time.Now().UTC()
	tag := &domain.Tag{
		ID:        uc.idGen.Generate(),
		BookID:    input.BookID,
		Name:      input.Name,
		SignRule:  input.SignRule,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// ListTagsByBook lists a book's tags.
func (uc *BookUseCase) ListTagsByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Tag, error) {
	limit, offset = domain.ClampPagination(limit, offset)
	return uc.tagRepo.ListByBook(ctx, bookID, limit, offset)
}

// CreateUser registers a user.
func (uc *BookUseCase) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *BookUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
