package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
)

// AccountUseCase handles account management.
type AccountUseCase struct {
	accountRepo AccountRepository
	bookRepo    BookRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, bookRepo BookRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		bookRepo:    bookRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ActorID       string
	BookID        string
	Name          string
	InitialAmount decimal.Decimal
}

// CreateAccount creates an account inside a book the actor is a member of.
// The initial amount may not be negative: the non-negativity invariant holds
// from the very first instant of the account's history.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if input.InitialAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateMoney(input.InitialAmount); err != nil {
		return nil, err
	}

	if _, err := uc.bookRepo.GetByID(ctx, input.BookID); err != nil {
		return nil, err
	}

	member, err := uc.bookRepo.IsMember(ctx, input.BookID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if !member {
		return nil, domain.ErrBookMembershipDenied
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		BookID:        input.BookID,
		Name:          input.Name,
		InitialAmount: input.InitialAmount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsByBook lists a book's accounts.
func (uc *AccountUseCase) ListAccountsByBook(ctx context.Context, bookID string, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ClampPagination(limit, offset)
	return uc.accountRepo.ListByBook(ctx, bookID, limit, offset)
}
