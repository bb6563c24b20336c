package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallyhq/tallybook/internal/adapter/http/handler"
	"github.com/tallyhq/tallybook/internal/adapter/http/middleware"
	"github.com/tallyhq/tallybook/internal/infrastructure/auth"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BookHandler       *handler.BookHandler
	AccountHandler    *handler.AccountHandler
	FlowRecordHandler *handler.FlowRecordHandler
	TransferHandler   *handler.TransferHandler
	BalanceHandler    *handler.BalanceHandler
	HealthHandler     *handler.HealthHandler
	AuthHandler       *handler.AuthHandler
	JWTManager        *auth.JWTManager
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.AuthHandler != nil {
		r.Post("/auth/token", cfg.AuthHandler.Token)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.Auth(cfg.JWTManager))
		} else {
			r.Use(middleware.HeaderAuth)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", cfg.BookHandler.CreateUser)
			r.Get("/{id}", cfg.BookHandler.GetUser)
		})

		// Books, members, tags, accounts
		r.Route("/books", func(r chi.Router) {
			r.Post("/", cfg.BookHandler.CreateBook)
			r.Get("/{id}", cfg.BookHandler.GetBook)
			r.Post("/{id}/members", cfg.BookHandler.AddMember)
			r.Post("/{id}/tags", cfg.BookHandler.CreateTag)
			r.Get("/{id}/tags", cfg.BookHandler.ListTags)
			r.Post("/{id}/accounts", cfg.AccountHandler.Create)
			r.Get("/{id}/accounts", cfg.AccountHandler.ListByBook)
		})

		// Accounts and their movements / balances
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/flow-records", cfg.FlowRecordHandler.ListByAccount)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
			r.Get("/{id}/balance", cfg.BalanceHandler.Current)
			r.Get("/{id}/balance/series", cfg.BalanceHandler.Series)
		})

		// Flow records
		r.Route("/flow-records", func(r chi.Router) {
			r.Post("/", cfg.FlowRecordHandler.Create)
			r.Get("/{id}", cfg.FlowRecordHandler.Get)
			r.Patch("/{id}", cfg.FlowRecordHandler.Update)
			r.Delete("/{id}", cfg.FlowRecordHandler.Delete)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Patch("/{id}", cfg.TransferHandler.Update)
			r.Delete("/{id}", cfg.TransferHandler.Delete)
		})
	})

	return r
}
