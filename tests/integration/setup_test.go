package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/tallyhq/tallybook/internal/adapter/http"
	"github.com/tallyhq/tallybook/internal/adapter/http/handler"
	"github.com/tallyhq/tallybook/internal/adapter/repository/postgres"
	redisrepo "github.com/tallyhq/tallybook/internal/adapter/repository/redis"
	infraredis "github.com/tallyhq/tallybook/internal/infrastructure/redis"
	"github.com/tallyhq/tallybook/internal/usecase"
	"github.com/tallyhq/tallybook/tests/testutil"
)

// newTestServer wires the full HTTP surface against the test database and a
// real redis, the same way cmd/server does. Auth runs in X-User-ID header
// mode.
func newTestServer(t *testing.T, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	ctx := context.Background()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	if err := redisClient.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	retrier := postgres.NewRetrier(zerolog.Nop())
	accountRepo := postgres.NewAccountRepository(pool)
	checkpointRepo := postgres.NewCheckpointRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	flowRepo := postgres.NewFlowRecordRepository(pool)
	transferRepo := postgres.NewTransferRecordRepository(pool)
	idGen := postgres.NewULIDGenerator()
	cache := redisrepo.NewCache(redisClient)

	propagator := usecase.NewDeltaPropagator(accountRepo, checkpointRepo)
	bookUC := usecase.NewBookUseCase(bookRepo, tagRepo, userRepo, idGen)
	accountUC := usecase.NewAccountUseCase(accountRepo, bookRepo, idGen)
	flowUC := usecase.NewFlowRecordUseCase(txManager, retrier, propagator, flowRepo, accountRepo, tagRepo, bookRepo, userRepo, idGen, cache)
	transferUC := usecase.NewTransferUseCase(txManager, retrier, propagator, transferRepo, accountRepo, bookRepo, userRepo, idGen, cache)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, checkpointRepo, cache)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		BookHandler:       handler.NewBookHandler(bookUC),
		AccountHandler:    handler.NewAccountHandler(accountUC),
		FlowRecordHandler: handler.NewFlowRecordHandler(flowUC),
		TransferHandler:   handler.NewTransferHandler(transferUC),
		BalanceHandler:    handler.NewBalanceHandler(balanceUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  redisrepo.NewIdempotencyStore(redisClient),
	})
}

// doJSON sends a request with the actor header set and decodes the response
// body into out when out is non-nil. It returns the status code.
func doJSON(t *testing.T, router http.Handler, method, path, actorID string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		r.Header.Set("X-User-ID", actorID)
	}
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if out != nil && w.Code < 300 && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
		}
	}

	return w.Code
}
