package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
)

// TransferUseCase handles create/update/delete of two-account movements. A
// transfer debits the from side and credits the to side by the same positive
// magnitude on the same date; both propagations and the row write share one
// transaction, so a rejected side never leaves the other applied.
type TransferUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	propagator   *DeltaPropagator
	transferRepo TransferRecordRepository
	accountRepo  AccountRepository
	bookRepo     BookRepository
	userRepo     UserRepository
	idGen        IDGenerator
	cache        Cache
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	retrier Retrier,
	propagator *DeltaPropagator,
	transferRepo TransferRecordRepository,
	accountRepo AccountRepository,
	bookRepo BookRepository,
	userRepo UserRepository,
	idGen IDGenerator,
	cache Cache,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		retrier:      retrier,
		propagator:   propagator,
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		bookRepo:     bookRepo,
		userRepo:     userRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// CreateTransferInput represents input for creating a transfer record.
type CreateTransferInput struct {
	ActorID       string
	FromAccountID string
	ToAccountID   string
	TraderID      string
	Amount        decimal.Decimal
	DealAt        time.Time
	Comment       string
}

// CreateTransfer creates a transfer record and applies both sides.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.TransferRecord, error) {
	now := time.Now().UTC()
	record := &domain.TransferRecord{
		ID:            uc.idGen.Generate(),
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		TraderID:      input.TraderID,
		CreatorID:     input.ActorID,
		UpdaterID:     input.ActorID,
		Amount:        input.Amount,
		DealAt:        domain.Day(input.DealAt),
		Comment:       input.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	bookID, err := uc.validate(ctx, record, input.ActorID)
	if err != nil {
		return nil, err
	}

	record.BookID = bookID

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if err := uc.applySides(ctx, tx, record, false); err != nil {
			return err
		}

		return uc.transferRepo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	invalidateBalances(ctx, uc.cache, record.FromAccountID, record.ToAccountID)

	return record, nil
}

// UpdateTransferInput represents input for updating a transfer record. Nil
// fields keep the record's stored value.
type UpdateTransferInput struct {
	ID            string
	ActorID       string
	FromAccountID *string
	ToAccountID   *string
	TraderID      *string
	Amount        *decimal.Decimal
	DealAt        *time.Time
	Comment       *string
}

// UpdateTransfer reverses both old sides, validates the effective new state,
// applies both new sides, and persists the row, all in one transaction.
func (uc *TransferUseCase) UpdateTransfer(ctx context.Context, input UpdateTransferInput) (*domain.TransferRecord, error) {
	record, err := uc.transferRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	old := *record

	if input.FromAccountID != nil {
		record.FromAccountID = *input.FromAccountID
	}
	if input.ToAccountID != nil {
		record.ToAccountID = *input.ToAccountID
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

	if err := record.Validate(); err != nil {
		return nil, err
	}

	bookID, err := uc.validate(ctx, record, input.ActorID)
	if err != nil {
		return nil, err
	}

	record.BookID = bookID
	record.UpdaterID = input.ActorID
	record.UpdatedAt = time.Now().UTC()

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if err := uc.applySides(ctx, tx, &old, true); err != nil {
			return err
		}

		if err := uc.applySides(ctx, tx, record, false); err != nil {
			return err
		}

		return uc.transferRepo.Update(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	invalidateBalances(ctx, uc.cache, old.FromAccountID, old.ToAccountID, record.FromAccountID, record.ToAccountID)

	return record, nil
}

// DeleteTransfer reverses both sides and removes the row.
func (uc *TransferUseCase) DeleteTransfer(ctx context.Context, id, actorID string) error {
	record, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	member, err := uc.bookRepo.IsMember(ctx, record.BookID, actorID)
	if err != nil {
		return err
	}

	if !member {
		return domain.ErrBookMembershipDenied
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if err := uc.applySides(ctx, tx, record, true); err != nil {
			return err
		}

		return uc.transferRepo.Delete(ctx, tx, record.ID)
	})
	if err != nil {
		return err
	}

	invalidateBalances(ctx, uc.cache, record.FromAccountID, record.ToAccountID)

	return nil
}

// GetTransfer retrieves a transfer record by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.TransferRecord, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccount lists transfer records touching an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.TransferRecord, error) {
	limit, offset = domain.ClampPagination(limit, offset)
	return uc.transferRepo.ListByAccount(ctx, accountID, limit, offset)
}

// applySides propagates the transfer's two deltas. Accounts are touched in
// sorted ID order so two overlapping transfers cannot lock them in opposite
// orders. reverse flips the signs for unapply.
func (uc *TransferUseCase) applySides(ctx context.Context, tx Transaction, record *domain.TransferRecord, reverse bool) error {
	debit := record.Amount.Neg()
	credit := record.Amount

	if reverse {
		debit, credit = credit, debit
	}

	sides := []Delta{
		{AccountID: record.FromAccountID, Date: record.DealAt, Amount: debit},
		{AccountID: record.ToAccountID, Date: record.DealAt, Amount: credit},
	}

	if sides[0].AccountID > sides[1].AccountID {
		sides[0], sides[1] = sides[1], sides[0]
	}

	for _, side := range sides {
		if err := uc.propagator.Apply(ctx, tx, side.AccountID, side.Date, side.Amount); err != nil {
			return err
		}
	}

	return nil
}

// validate resolves both accounts, checks they share a book, and checks the
// acting user's membership and, when a trader is named, the trader's
// existence. Returns the book id.
func (uc *TransferUseCase) validate(ctx context.Context, record *domain.TransferRecord, actorID string) (string, error) {
	from, err := uc.accountRepo.GetByID(ctx, record.FromAccountID)
	if err != nil {
		return "", err
	}

	to, err := uc.accountRepo.GetByID(ctx, record.ToAccountID)
	if err != nil {
		return "", err
	}

	if from.BookID != to.BookID {
		return "", domain.ErrCrossBookAccounts
	}

	member, err := uc.bookRepo.IsMember(ctx, from.BookID, actorID)
	if err != nil {
		return "", err
	}

	if !member {
		return "", domain.ErrBookMembershipDenied
	}

	if record.TraderID != "" {
		if _, err := uc.userRepo.GetByID(ctx, record.TraderID); err != nil {
			return "", err
		}
	}

	return from.BookID, nil
}
