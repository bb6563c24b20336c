package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// BookResponse represents a book in API responses.
type BookResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookFromDomain converts a domain book to a response.
func BookFromDomain(b *domain.Book) *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Name      string    `json:"name"`
	SignRule  string    `json:"sign_rule"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagFromDomain converts a domain tag to a response.
func TagFromDomain(t *domain.Tag) *TagResponse {
	return &TagResponse{
		ID:        t.ID,
		BookID:    t.BookID,
		Name:      t.Name,
		SignRule:  string(t.SignRule),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TagsFromDomain converts domain tags to responses.
func TagsFromDomain(tags []*domain.Tag) []*TagResponse {
	result := make([]*TagResponse, len(tags))
	for i, t := range tags {
		result[i] = TagFromDomain(t)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string          `json:"id"`
	BookID        string          `json:"book_id"`
	Name          string          `json:"name"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		BookID:        a.BookID,
		Name:          a.Name,
		InitialAmount: a.InitialAmount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// FlowRecordResponse represents a flow record in API responses.
type FlowRecordResponse struct {
	ID        string          `json:"id"`
	BookID    string          `json:"book_id"`
	AccountID string          `json:"account_id"`
	TagID     string          `json:"tag_id"`
	TraderID  string          `json:"trader_id"`
	CreatorID string          `json:"creator_id"`
	UpdaterID string          `json:"updater_id"`
	Amount    decimal.Decimal `json:"amount"`
	DealAt    Date            `json:"deal_at"`
	Comment   string          `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FlowRecordFromDomain converts a domain flow record to a response.
func FlowRecordFromDomain(r *domain.FlowRecord) *FlowRecordResponse {
	return &FlowRecordResponse{
		ID:        r.ID,
		BookID:    r.BookID,
		AccountID: r.AccountID,
		TagID:     r.TagID,
		TraderID:  r.TraderID,
		CreatorID: r.CreatorID,
		UpdaterID: r.UpdaterID,
		Amount:    r.Amount,
		DealAt:    NewDate(r.DealAt),
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FlowRecordsFromDomain converts domain flow records to responses.
func FlowRecordsFromDomain(records []*domain.FlowRecord) []*FlowRecordResponse {
	result := make([]*FlowRecordResponse, len(records))
	for i, r := range records {
		result[i] = FlowRecordFromDomain(r)
	}
	return result
}

// TransferResponse represents a transfer record in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	BookID        string          `json:"book_id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	TraderID      string          `json:"trader_id"`
	CreatorID     string          `json:"creator_id"`
	UpdaterID     string          `json:"updater_id"`
	Amount        decimal.Decimal `json:"amount"`
	DealAt        Date            `json:"deal_at"`
	Comment       string          `json:"comment,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransferFromDomain converts a domain transfer record to a response.
func TransferFromDomain(t *domain.TransferRecord) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		BookID:        t.BookID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		TraderID:      t.TraderID,
		CreatorID:     t.CreatorID,
		UpdaterID:     t.UpdaterID,
		Amount:        t.Amount,
		DealAt:        NewDate(t.DealAt),
		Comment:       t.Comment,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// TransfersFromDomain converts domain transfer records to responses.
func TransfersFromDomain(transfers []*domain.TransferRecord) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// BalanceResponse represents a point-in-time balance in API responses.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Date      Date            `json:"date"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalancePointResponse is one step of a balance series.
type BalancePointResponse struct {
	Date    Date            `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSeriesResponse represents a balance trend in API responses.
type BalanceSeriesResponse struct {
	AccountID string                  `json:"account_id"`
	From      Date                    `json:"from"`
	To        Date                    `json:"to"`
	Opening   decimal.Decimal         `json:"opening"`
	Points    []*BalancePointResponse `json:"points"`
}

// BalanceSeriesFromUseCase converts a use case balance series to a response.
func BalanceSeriesFromUseCase(s *usecase.BalanceSeries) *BalanceSeriesResponse {
	points := make([]*BalancePointResponse, len(s.Points))
	for i, p := range s.Points {
		points[i] = &BalancePointResponse{
			Date:    NewDate(p.Date),
			Balance: p.Amount,
		}
	}

	return &BalanceSeriesResponse{
		AccountID: s.AccountID,
		From:      NewDate(s.From),
		To:        NewDate(s.To),
		Opening:   s.Opening,
		Points:    points,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
