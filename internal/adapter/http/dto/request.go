package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// CreateUserRequest represents a request to register a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateBookRequest represents a request to create a book.
type CreateBookRequest struct {
	Name string `json:"name"`
}

// AddMemberRequest represents a request to add a member to a book.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// CreateTagRequest represents a request to create a tag.
type CreateTagRequest struct {
	Name     string `json:"name"`
	SignRule string `json:"sign_rule"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTagRequest) ToUseCaseInput(bookID, actorID string) usecase.CreateTagInput {
	return usecase.CreateTagInput{
		ActorID:  actorID,
		BookID:   bookID,
		Name:     r.Name,
		SignRule: domain.SignRule(r.SignRule),
	}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name          string          `json:"name"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(bookID, actorID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		ActorID:       actorID,
		BookID:        bookID,
		Name:          r.Name,
		InitialAmount: r.InitialAmount,
	}
}

// CreateFlowRecordRequest represents a request to create a flow record.
type CreateFlowRecordRequest struct {
	AccountID string          `json:"account_id"`
	TagID     string          `json:"tag_id"`
	TraderID  string          `json:"trader_id"`
	Amount    decimal.Decimal `json:"amount"`
	DealAt    Date            `json:"deal_at"`
	Comment   string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFlowRecordRequest) ToUseCaseInput(actorID string) usecase.CreateFlowRecordInput {
	return usecase.CreateFlowRecordInput{
		ActorID:   actorID,
		AccountID: r.AccountID,
		TagID:     r.TagID,
		TraderID:  r.TraderID,
		Amount:    r.Amount,
		DealAt:    r.DealAt.Time,
		Comment:   r.Comment,
	}
}

// UpdateFlowRecordRequest represents a request to update a flow record.
// Omitted fields keep their stored values.
type UpdateFlowRecordRequest struct {
	AccountID *string          `json:"account_id,omitempty"`
	TagID     *string          `json:"tag_id,omitempty"`
	TraderID  *string          `json:"trader_id,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	DealAt    *Date            `json:"deal_at,omitempty"`
	Comment   *string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateFlowRecordRequest) ToUseCaseInput(id, actorID string) usecase.UpdateFlowRecordInput {
	input := usecase.UpdateFlowRecordInput{
		ID:        id,
		ActorID:   actorID,
		AccountID: r.AccountID,
		TagID:     r.TagID,
		TraderID:  r.TraderID,
		Amount:    r.Amount,
		Comment:   r.Comment,
	}

	if r.DealAt != nil {
		dealAt := r.DealAt.Time
		input.DealAt = &dealAt
	}

	return input
}

// CreateTransferRequest represents a request to create a transfer record.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	TraderID      string          `json:"trader_id"`
	Amount        decimal.Decimal `json:"amount"`
	DealAt        Date            `json:"deal_at"`
	Comment       string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(actorID string) usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		ActorID:       actorID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		TraderID:      r.TraderID,
		Amount:        r.Amount,
		DealAt:        r.DealAt.Time,
		Comment:       r.Comment,
	}
}

// UpdateTransferRequest represents a request to update a transfer record.
// Omitted fields keep their stored values.
type UpdateTransferRequest struct {
	FromAccountID *string          `json:"from_account_id,omitempty"`
	ToAccountID   *string          `json:"to_account_id,omitempty"`
	TraderID      *string          `json:"trader_id,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	DealAt        *Date            `json:"deal_at,omitempty"`
	Comment       *string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransferRequest) ToUseCaseInput(id, actorID string) usecase.UpdateTransferInput {
	input := usecase.UpdateTransferInput{
		ID:            id,
		ActorID:       actorID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		TraderID:      r.TraderID,
		Amount:        r.Amount,
		Comment:       r.Comment,
	}

	if r.DealAt != nil {
		dealAt := r.DealAt.Time
		input.DealAt = &dealAt
	}

	return input
}
