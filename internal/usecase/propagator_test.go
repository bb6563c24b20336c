package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/internal/usecase"
	"github.com/tallyhq/tallybook/internal/usecase/mocks"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type propagatorEnv struct {
	propagator  *usecase.DeltaPropagator
	accounts    *mocks.MockAccountRepository
	checkpoints *mocks.MockCheckpointRepository
	balance     *usecase.BalanceUseCase
	tx          *mocks.MockTransaction
}

func newPropagatorEnv(t *testing.T, accountID, initialAmount string) *propagatorEnv {
	t.Helper()

	accounts := mocks.NewMockAccountRepository()
	checkpoints := mocks.NewMockCheckpointRepository()

	if err := accounts.Create(context.Background(), &domain.Account{
		ID:            accountID,
		BookID:        "book-1",
		Name:          "test account",
		InitialAmount: dec(initialAmount),
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	return &propagatorEnv{
		propagator:  usecase.NewDeltaPropagator(accounts, checkpoints),
		accounts:    accounts,
		checkpoints: checkpoints,
		balance:     usecase.NewBalanceUseCase(accounts, checkpoints, nil),
		tx:          &mocks.MockTransaction{},
	}
}

func (e *propagatorEnv) apply(t *testing.T, accountID string, d time.Time, amount string) {
	t.Helper()
	if err := e.propagator.Apply(context.Background(), e.tx, accountID, d, dec(amount)); err != nil {
		t.Fatalf("apply(%s, %s, %s): %v", accountID, d.Format("2006-01-02"), amount, err)
	}
}

func (e *propagatorEnv) unapply(t *testing.T, accountID string, d time.Time, amount string) {
	t.Helper()
	if err := e.propagator.Unapply(context.Background(), e.tx, accountID, d, dec(amount)); err != nil {
		t.Fatalf("unapply(%s, %s, %s): %v", accountID, d.Format("2006-01-02"), amount, err)
	}
}

func (e *propagatorEnv) balanceAt(t *testing.T, accountID string, d time.Time) decimal.Decimal {
	t.Helper()
	balance, err := e.balance.BalanceAt(context.Background(), accountID, d)
	if err != nil {
		t.Fatalf("balanceAt(%s, %s): %v", accountID, d.Format("2006-01-02"), err)
	}
	return balance
}

func assertBalance(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("expected balance %s, got %s", want, got)
	}
}

func assertSeries(t *testing.T, env *propagatorEnv, accountID string, want map[string]string) {
	t.Helper()

	series := env.checkpoints.Series(accountID)
	if len(series) != len(want) {
		t.Fatalf("expected %d checkpoints, got %d: %v", len(want), len(series), series)
	}

	for _, cp := range series {
		key := cp.Date.Format("2006-01-02")
		wantAmount, ok := want[key]
		if !ok {
			t.Fatalf("unexpected checkpoint at %s (amount %s)", key, cp.Amount)
		}
		if !cp.Amount.Equal(dec(wantAmount)) {
			t.Fatalf("checkpoint at %s: expected %s, got %s", key, wantAmount, cp.Amount)
		}
	}
}

func TestDeltaPropagator_FirstMovement(t *testing.T) {
	t.Parallel()

	// Account with initial 100.00 and no checkpoints; spend 30.00 on Jan 10.
	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")

	assertBalance(t, env.balanceAt(t, "acc-1", date(2024, 1, 9)), "100.00")
	assertBalance(t, env.balanceAt(t, "acc-1", date(2024, 1, 10)), "70.00")
	assertSeries(t, env, "acc-1", map[string]string{"2024-01-10": "70.00"})
}

func TestDeltaPropagator_BackdatedDeposit(t *testing.T) {
	t.Parallel()

	// An earlier-dated deposit shifts every later checkpoint forward.
	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")
	env.apply(t, "acc-1", date(2024, 1, 5), "30.00")

	assertSeries(t, env, "acc-1", map[string]string{
		"2024-01-05": "130.00",
		"2024-01-10": "100.00",
	})
	assertBalance(t, env.balanceAt(t, "acc-1", date(2024, 1, 7)), "130.00")
}

func TestDeltaPropagator_UnapplyCompressesSeries(t *testing.T) {
	t.Parallel()

	// Removing the deposit collapses the Jan 5 checkpoint: its value would
	// equal the predecessor (the initial amount).
	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")
	env.apply(t, "acc-1", date(2024, 1, 5), "30.00")
	env.unapply(t, "acc-1", date(2024, 1, 5), "30.00")

	assertSeries(t, env, "acc-1", map[string]string{"2024-01-10": "70.00"})
}

func TestDeltaPropagator_RejectsNegativeBalance(t *testing.T) {
	t.Parallel()

	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")

	err := env.propagator.Apply(context.Background(), env.tx, "acc-1", date(2024, 1, 10), dec("-80.00"))

	var nb *domain.NegativeBalanceError
	if !errors.As(err, &nb) {
		t.Fatalf("expected NegativeBalanceError, got %v", err)
	}
	if nb.AccountID != "acc-1" || !nb.Date.Equal(date(2024, 1, 10)) {
		t.Fatalf("error names wrong account/date: %+v", nb)
	}

	// Nothing changed.
	assertSeries(t, env, "acc-1", map[string]string{"2024-01-10": "70.00"})
}

func TestDeltaPropagator_RejectsNegativeFutureCheckpoint(t *testing.T) {
	t.Parallel()

	// The violation sits after the delta's own date: spending 50.00 on Jan 3
	// is fine on Jan 3 (balance 100) but drives Jan 10's 70.00 to 20.00 and
	// then a later spend on Jan 15 below zero.
	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")
	env.apply(t, "acc-1", date(2024, 1, 15), "-60.00")

	err := env.propagator.Apply(context.Background(), env.tx, "acc-1", date(2024, 1, 3), dec("-50.00"))

	var nb *domain.NegativeBalanceError
	if !errors.As(err, &nb) {
		t.Fatalf("expected NegativeBalanceError, got %v", err)
	}
	if !nb.Date.Equal(date(2024, 1, 15)) {
		t.Fatalf("expected violation reported at 2024-01-15, got %s", nb.Date.Format("2006-01-02"))
	}

	assertSeries(t, env, "acc-1", map[string]string{
		"2024-01-10": "70.00",
		"2024-01-15": "10.00",
	})
}

func TestDeltaPropagator_RoundTrip(t *testing.T) {
	t.Parallel()

	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")
	env.apply(t, "acc-1", date(2024, 2, 1), "45.50")

	before := env.checkpoints.Series("acc-1")

	env.apply(t, "acc-1", date(2024, 1, 20), "-12.34")
	env.unapply(t, "acc-1", date(2024, 1, 20), "-12.34")

	after := env.checkpoints.Series("acc-1")
	if len(before) != len(after) {
		t.Fatalf("series length changed: %d != %d", len(before), len(after))
	}
	for i := range before {
		if !before[i].Date.Equal(after[i].Date) || !before[i].Amount.Equal(after[i].Amount) {
			t.Fatalf("series differs at %d: %v != %v", i, before[i], after[i])
		}
	}
}

func TestDeltaPropagator_DisjointDatesCommute(t *testing.T) {
	t.Parallel()

	run := func(order []int) []*domain.Checkpoint {
		env := newPropagatorEnv(t, "acc-1", "50.00")
		deltas := [][2]string{
			{"2024-03-01", "20.00"},
			{"2024-03-15", "-10.00"},
		}
		for _, i := range order {
			d, _ := time.Parse("2006-01-02", deltas[i][0])
			env.apply(t, "acc-1", d, deltas[i][1])
		}
		return env.checkpoints.Series("acc-1")
	}

	a := run([]int{0, 1})
	b := run([]int{1, 0})

	if len(a) != len(b) {
		t.Fatalf("series lengths differ: %d != %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Date.Equal(b[i].Date) || !a[i].Amount.Equal(b[i].Amount) {
			t.Fatalf("series differ at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestDeltaPropagator_SameDayDeltasAccumulate(t *testing.T) {
	t.Parallel()

	// Two movements on one calendar date share a single checkpoint slot.
	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-20.00")

	assertSeries(t, env, "acc-1", map[string]string{"2024-01-10": "50.00"})
}

func TestDeltaPropagator_MinimalityInvariant(t *testing.T) {
	t.Parallel()

	// A delta that lands an existing checkpoint exactly on its predecessor's
	// value must remove it.
	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 5), "25.00")   // 125.00
	env.apply(t, "acc-1", date(2024, 1, 10), "-25.00") // back to 100.00

	assertSeries(t, env, "acc-1", map[string]string{
		"2024-01-05": "125.00",
		"2024-01-10": "100.00",
	})

	// Now edit the Jan 10 spend away: its checkpoint equals Jan 5's value and
	// must be compressed out.
	env.unapply(t, "acc-1", date(2024, 1, 10), "-25.00")
	assertSeries(t, env, "acc-1", map[string]string{"2024-01-05": "125.00"})

	series := env.checkpoints.Series("acc-1")
	for i := 1; i < len(series); i++ {
		if series[i].Amount.Equal(series[i-1].Amount) {
			t.Fatalf("adjacent checkpoints with equal amount at %v", series[i].Date)
		}
	}
}

func TestDeltaPropagator_AccountNotFound(t *testing.T) {
	t.Parallel()

	env := newPropagatorEnv(t, "acc-1", "100.00")

	err := env.propagator.Apply(context.Background(), env.tx, "missing", date(2024, 1, 1), dec("10.00"))
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestDeltaPropagator_MoveRelocatesDelta(t *testing.T) {
	t.Parallel()

	env := newPropagatorEnv(t, "acc-1", "100.00")
	env.apply(t, "acc-1", date(2024, 1, 10), "-30.00")

	err := env.propagator.Move(context.Background(), env.tx,
		usecase.Delta{AccountID: "acc-1", Date: date(2024, 1, 10), Amount: dec("-30.00")},
		usecase.Delta{AccountID: "acc-1", Date: date(2024, 1, 20), Amount: dec("-40.00")},
	)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	assertSeries(t, env, "acc-1", map[string]string{"2024-01-20": "60.00"})
	assertBalance(t, env.balanceAt(t, "acc-1", date(2024, 1, 15)), "100.00")
}
