package domain

import (
	"testing"
	"time"
)

func TestDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2024, 3, 15, 23, 45, 12, 999, loc) // 15:45 UTC

	got := Day(in)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Idempotent on already-truncated dates.
	if again := Day(got); !again.Equal(got) {
		t.Fatalf("expected Day to be idempotent, got %v", again)
	}
}

func TestNegativeBalanceError(t *testing.T) {
	t.Parallel()

	err := &NegativeBalanceError{AccountID: "acc-1", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}

	if !IsNegativeBalance(err) {
		t.Fatal("expected IsNegativeBalance to match")
	}

	if msg := err.Error(); msg != "balance of account acc-1 would become negative at 2024-01-10" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
