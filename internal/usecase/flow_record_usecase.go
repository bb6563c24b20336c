package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
)

// FlowRecordUseCase handles create/update/delete of single-account movements.
// Every mutation validates domain rules, then runs the checkpoint propagation
// and the row write in one transaction.
type FlowRecordUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	propagator  *DeltaPropagator
	flowRepo    FlowRecordRepository
	accountRepo AccountRepository
	tagRepo     TagRepository
	bookRepo    BookRepository
	userRepo    UserRepository
	idGen       IDGenerator
	cache       Cache
}

// NewFlowRecordUseCase creates a new FlowRecordUseCase.
func NewFlowRecordUseCase(
	txManager TransactionManager,
	retrier Retrier,
	propagator *DeltaPropagator,
	flowRepo FlowRecordRepository,
	accountRepo AccountRepository,
	tagRepo TagRepository,
	bookRepo BookRepository,
	userRepo UserRepository,
	idGen IDGenerator,
	cache Cache,
) *FlowRecordUseCase {
	return &FlowRecordUseCase{
		txManager:   txManager,
		retrier:     retrier,
		propagator:  propagator,
		flowRepo:    flowRepo,
		accountRepo: accountRepo,
		tagRepo:     tagRepo,
		bookRepo:    bookRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// CreateFlowRecordInput represents input for creating a flow record.
type CreateFlowRecordInput struct {
	ActorID   string
	AccountID string
	TagID     string
	TraderID  string
	Amount    decimal.Decimal
	DealAt    time.Time
	Comment   string
}

// CreateFlowRecord creates a flow record and applies its delta to the
// account's checkpoint series.
func (uc *FlowRecordUseCase) CreateFlowRecord(ctx context.Context, input CreateFlowRecordInput) (*domain.FlowRecord, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := uc.validate(ctx, account, input.TagID, input.TraderID, input.ActorID, input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.FlowRecord{
		ID:        uc.idGen.Generate(),
		BookID:    account.BookID,
		AccountID: input.AccountID,
		TagID:     input.TagID,
		TraderID:  input.TraderID,
		CreatorID: input.ActorID,
		UpdaterID: input.ActorID,
		Amount:    input.Amount,
		DealAt:    domain.Day(input.DealAt),
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if err := uc.propagator.Apply(ctx, tx, record.AccountID, record.DealAt, record.Amount); err != nil {
			return err
		}

		return uc.flowRepo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	invalidateBalances(ctx, uc.cache, record.AccountID)

	return record, nil
}

// UpdateFlowRecordInput represents input for updating a flow record. Nil
// fields keep the record's stored value.
type UpdateFlowRecordInput struct {
	ID        string
	ActorID   string
	AccountID *string
	TagID     *string
	TraderID  *string
	Amount    *decimal.Decimal
	DealAt    *time.Time
	Comment   *string
}

// UpdateFlowRecord moves the record's delta from its stored account/date/
// amount to the effective new values, then persists the updated row.
func (uc *FlowRecordUseCase) UpdateFlowRecord(ctx context.Context, input UpdateFlowRecordInput) (*domain.FlowRecord, error) {
	record, err := uc.flowRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	old := Delta{AccountID: record.AccountID, Date: record.DealAt, Amount: record.Amount}

	if input.AccountID != nil {
		record.AccountID = *input.AccountID
	}
	if input.TagID != nil {
		record.TagID = *input.TagID
	}
	if input.TraderID != nil {
		record.TraderID = *input.TraderID
	}
	if input.Amount != nil {
		record.Amount = *input.Amount
	}
	if input.DealAt != nil {
		record.DealAt = domain.Day(*input.DealAt)
	}
	if input.Comment != nil {
		record.Comment = *input.Comment
	}

	account, err := uc.accountRepo.GetByID(ctx, record.AccountID)
	if err != nil {
		return nil, err
	}

	// Sign rule is re-checked against the effective amount and tag.
	if err := uc.validate(ctx, account, record.TagID, record.TraderID, input.ActorID, record.Amount); err != nil {
		return nil, err
	}

	record.BookID = account.BookID
	record.UpdaterID = input.ActorID
	record.UpdatedAt = time.Now().UTC()

	if err := record.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		newDelta := Delta{AccountID: record.AccountID, Date: record.DealAt, Amount: record.Amount}
		if err := uc.propagator.Move(ctx, tx, old, newDelta); err != nil {
			return err
		}

		return uc.flowRepo.Update(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	invalidateBalances(ctx, uc.cache, old.AccountID, record.AccountID)

	return record, nil
}

// DeleteFlowRecord reverses the record's delta and removes the row.
func (uc *FlowRecordUseCase) DeleteFlowRecord(ctx context.Context, id, actorID string) error {
	record, err := uc.flowRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.requireMember(ctx, record.BookID, actorID); err != nil {
		return err
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if err := uc.propagator.Unapply(ctx, tx, record.AccountID, record.DealAt, record.Amount); err != nil {
			return err
		}

		return uc.flowRepo.Delete(ctx, tx, record.ID)
	})
	if err != nil {
		return err
	}

	invalidateBalances(ctx, uc.cache, record.AccountID)

	return nil
}

// GetFlowRecord retrieves a flow record by ID.
func (uc *FlowRecordUseCase) GetFlowRecord(ctx context.Context, id string) (*domain.FlowRecord, error) {
	return uc.flowRepo.GetByID(ctx, id)
}

// ListFlowRecordsByAccount lists flow records for an account.
func (uc *FlowRecordUseCase) ListFlowRecordsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FlowRecord, error) {
	limit, offset = domain.ClampPagination(limit, offset)
	return uc.flowRepo.ListByAccount(ctx, accountID, limit, offset)
}

// validate enforces the cross-entity rules shared by create and update: the
// tag belongs to the account's book and allows the amount's sign, the actor
// is a book member, and the trader, when named, exists. An empty trader means
// nobody in particular.
func (uc *FlowRecordUseCase) validate(ctx context.Context, account *domain.Account, tagID, traderID, actorID string, amount decimal.Decimal) error {
	tag, err := uc.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return err
	}

	if tag.BookID != account.BookID {
		return domain.ErrCrossBookTag
	}

	if err := tag.ValidateAmount(amount); err != nil {
		return err
	}

	if err := uc.requireMember(ctx, account.BookID, actorID); err != nil {
		return err
	}

	if traderID != "" {
		if _, err := uc.userRepo.GetByID(ctx, traderID); err != nil {
			return err
		}
	}

	return nil
}

func (uc *FlowRecordUseCase) requireMember(ctx context.Context, bookID, userID string) error {
	member, err := uc.bookRepo.IsMember(ctx, bookID, userID)
	if err != nil {
		return err
	}

	if !member {
		return domain.ErrBookMembershipDenied
	}

	return nil
}
