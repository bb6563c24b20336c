package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/internal/domain"
	"github.com/tallyhq/tallybook/tests/testutil"
)

func TestOverdraftRejection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestServer(t, testDB)

	user := testDB.CreateTestUser(ctx, "alice")
	book := testDB.CreateTestBook(ctx, "household", user)
	account := testDB.CreateTestAccount(ctx, book, "checking", decimal.RequireFromString("50.00"))
	expense := testDB.CreateTestTag(ctx, book, "expense", domain.SignRuleNegativeOnly)
	either := testDB.CreateTestTag(ctx, book, "adjustment", domain.SignRuleEither)

	day := func(s string) dto.Date {
		d, err := dto.ParseDate(s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}

	t.Run("spending more than the balance is rejected", func(t *testing.T) {
		code := doJSON(t, router, http.MethodPost, "/api/v1/flow-records", user.ID,
			dto.CreateFlowRecordRequest{
				AccountID: account.ID,
				TagID:     expense.ID,
				Amount:    decimal.RequireFromString("-60.00"),
				DealAt:    day("2024-01-10"),
			}, nil)
		if code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, code)
		}

		// Nothing written.
		if cps := testDB.Checkpoints(ctx, account.ID); len(cps) != 0 {
			t.Errorf("expected no checkpoints, got %v", cps)
		}
	})

	t.Run("backdated expense breaking a later day is rejected with that day", func(t *testing.T) {
		// Spend 40 on Jan 20, leaving 10.
		code := doJSON(t, router, http.MethodPost, "/api/v1/flow-records", user.ID,
			dto.CreateFlowRecordRequest{
				AccountID: account.ID,
				TagID:     expense.ID,
				Amount:    decimal.RequireFromString("-40.00"),
				DealAt:    day("2024-01-20"),
			}, nil)
		if code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, code)
		}

		// Backdating another 20 would leave Jan 20 at -10.
		body := `{"account_id":"` + account.ID + `","tag_id":"` + expense.ID +
			`","amount":"-20.00","deal_at":"2024-01-05"}`
		r := httptest.NewRequest(http.MethodPost, "/api/v1/flow-records", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("X-User-ID", user.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d: %s", http.StatusUnprocessableEntity, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "2024-01-20") {
			t.Errorf("expected rejection to name the breaking date, got %s", w.Body.String())
		}

		// The series is untouched.
		want := []string{"2024-01-20 10.00"}
		got := testDB.Checkpoints(ctx, account.ID)
		if len(got) != 1 || got[0] != want[0] {
			t.Errorf("expected checkpoints %v, got %v", want, got)
		}
	})

	t.Run("sign rule violations are rejected", func(t *testing.T) {
		code := doJSON(t, router, http.MethodPost, "/api/v1/flow-records", user.ID,
			dto.CreateFlowRecordRequest{
				AccountID: account.ID,
				TagID:     expense.ID,
				Amount:    decimal.RequireFromString("5.00"), // positive on a negative-only tag
				DealAt:    day("2024-01-25"),
			}, nil)
		if code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, code)
		}
	})

	t.Run("spending down to exactly zero is allowed", func(t *testing.T) {
		code := doJSON(t, router, http.MethodPost, "/api/v1/flow-records", user.ID,
			dto.CreateFlowRecordRequest{
				AccountID: account.ID,
				TagID:     either.ID,
				Amount:    decimal.RequireFromString("-10.00"),
				DealAt:    day("2024-01-25"),
			}, nil)
		if code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, code)
		}

		var resp dto.BalanceResponse
		code = doJSON(t, router, http.MethodGet,
			"/api/v1/accounts/"+account.ID+"/balance?date=2024-01-25", user.ID, nil, &resp)
		if code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, code)
		}
		if resp.Balance.StringFixed(2) != "0.00" {
			t.Errorf("expected balance 0.00, got %s", resp.Balance)
		}
	})
}
