package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
	"github.com/tallyhq/tallybook/internal/usecase/mocks"
)

func TestBalanceUseCase_BalanceAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	accounts := mocks.NewMockAccountRepository()
	checkpoints := mocks.NewMockCheckpointRepository()

	accounts.Create(ctx, &domain.Account{ID: "acc-1", InitialAmount: dec("100.00")})
	checkpoints.Seed("acc-1",
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 1, 5), Amount: dec("130.00")},
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 1, 10), Amount: dec("100.00")},
	)

	uc := usecase.NewBalanceUseCase(accounts, checkpoints, nil)

	tests := []struct {
		name string
		day  int
		want string
	}{
		{"before any checkpoint falls back to initial", 3, "100.00"},
		{"on a checkpoint date", 5, "130.00"},
		{"between checkpoints holds the step", 7, "130.00"},
		{"after the last checkpoint", 31, "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.BalanceAt(ctx, "acc-1", date(2024, 1, tt.day))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("repeated reads do not change the answer", func(t *testing.T) {
		first, _ := uc.BalanceAt(ctx, "acc-1", date(2024, 1, 7))
		second, _ := uc.BalanceAt(ctx, "acc-1", date(2024, 1, 7))
		if !first.Equal(second) {
			t.Fatalf("reads disagree: %s != %s", first, second)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := uc.BalanceAt(ctx, "missing", date(2024, 1, 1))
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestBalanceUseCase_CurrentBalanceUsesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	accounts := mocks.NewMockAccountRepository()
	checkpoints := mocks.NewMockCheckpointRepository()
	cache := mocks.NewMockCache()

	accounts.Create(ctx, &domain.Account{ID: "acc-1", InitialAmount: dec("100.00")})
	checkpoints.Seed("acc-1",
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 1, 10), Amount: dec("70.00")},
	)

	uc := usecase.NewBalanceUseCase(accounts, checkpoints, cache)

	got, err := uc.CurrentBalance(ctx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("70.00")) {
		t.Fatalf("expected 70.00, got %s", got)
	}

	// The first read populated the cache; a mutated store now proves the
	// second read is served from it.
	if _, err := cache.Get(ctx, "balance:acc-1"); err != nil {
		t.Fatalf("balance not cached: %v", err)
	}

	checkpoints.Seed("acc-1",
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 1, 11), Amount: dec("0.01")},
	)

	got, err = uc.CurrentBalance(ctx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("70.00")) {
		t.Fatalf("expected cached 70.00, got %s", got)
	}
}

func TestBalanceUseCase_GetBalanceSeries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	accounts := mocks.NewMockAccountRepository()
	checkpoints := mocks.NewMockCheckpointRepository()

	accounts.Create(ctx, &domain.Account{ID: "acc-1", InitialAmount: dec("100.00")})
	checkpoints.Seed("acc-1",
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 1, 5), Amount: dec("130.00")},
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 1, 10), Amount: dec("100.00")},
		&domain.Checkpoint{AccountID: "acc-1", Date: date(2024, 2, 20), Amount: dec("80.00")},
	)

	uc := usecase.NewBalanceUseCase(accounts, checkpoints, nil)

	series, err := uc.GetBalanceSeries(ctx, "acc-1", date(2024, 1, 8), date(2024, 1, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Opening seeds the trend with the balance in force before the range.
	if !series.Opening.Equal(dec("130.00")) {
		t.Errorf("expected opening 130.00, got %s", series.Opening)
	}

	if len(series.Points) != 1 {
		t.Fatalf("expected 1 point in range, got %d", len(series.Points))
	}
	if !series.Points[0].Amount.Equal(dec("100.00")) {
		t.Errorf("expected point 100.00, got %s", series.Points[0].Amount)
	}
}
