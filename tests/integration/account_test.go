package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/tests/testutil"
)

func TestBookAndAccountCreation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := newTestServer(t, testDB)

	var user dto.UserResponse
	code := doJSON(t, router, http.MethodPost, "/api/v1/users", "",
		dto.CreateUserRequest{Name: "alice", Email: "alice@example.com"}, &user)
	if code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, code)
	}

	var book dto.BookResponse
	code = doJSON(t, router, http.MethodPost, "/api/v1/books", user.ID,
		dto.CreateBookRequest{Name: "household"}, &book)
	if code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, code)
	}

	t.Run("create account with initial amount", func(t *testing.T) {
		var account dto.AccountResponse
		code := doJSON(t, router, http.MethodPost, "/api/v1/books/"+book.ID+"/accounts", user.ID,
			dto.CreateAccountRequest{Name: "checking", InitialAmount: decimal.RequireFromString("100.00")}, &account)
		if code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, code)
		}

		if account.Name != "checking" {
			t.Errorf("expected name %q, got %q", "checking", account.Name)
		}
		if account.BookID != book.ID {
			t.Errorf("expected book ID %q, got %q", book.ID, account.BookID)
		}
		if !account.InitialAmount.Equal(decimal.RequireFromString("100.00")) {
			t.Errorf("expected initial amount 100.00, got %s", account.InitialAmount)
		}

		var got dto.AccountResponse
		code = doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+account.ID, user.ID, nil, &got)
		if code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, code)
		}
		if got.ID != account.ID {
			t.Errorf("expected ID %q, got %q", account.ID, got.ID)
		}
	})

	t.Run("non-member cannot create an account", func(t *testing.T) {
		stranger := testDB.CreateTestUser(ctx, "mallory")

		code := doJSON(t, router, http.MethodPost, "/api/v1/books/"+book.ID+"/accounts", stranger.ID,
			dto.CreateAccountRequest{Name: "sneaky"}, nil)
		if code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, code)
		}
	})

	t.Run("create tag and list it", func(t *testing.T) {
		var tag dto.TagResponse
		code := doJSON(t, router, http.MethodPost, "/api/v1/books/"+book.ID+"/tags", user.ID,
			dto.CreateTagRequest{Name: "groceries", SignRule: "negative_only"}, &tag)
		if code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, code)
		}

		var tags []*dto.TagResponse
		code = doJSON(t, router, http.MethodGet, "/api/v1/books/"+book.ID+"/tags", user.ID, nil, &tags)
		if code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, code)
		}
		if len(tags) != 1 || tags[0].Name != "groceries" {
			t.Errorf("expected one tag named groceries, got %+v", tags)
		}
	})

	t.Run("get non-existent account returns 404", func(t *testing.T) {
		code := doJSON(t, router, http.MethodGet, "/api/v1/accounts/no-such-id", user.ID, nil, nil)
		if code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, code)
		}
	})
}
