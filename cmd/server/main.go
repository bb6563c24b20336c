package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/tallyhq/tallybook/internal/adapter/http"
	"github.com/tallyhq/tallybook/internal/adapter/http/handler"
	"github.com/tallyhq/tallybook/internal/adapter/http/middleware"
	postgresRepo "github.com/tallyhq/tallybook/internal/adapter/repository/postgres"
	redisRepo "github.com/tallyhq/tallybook/internal/adapter/repository/redis"
	"github.com/tallyhq/tallybook/internal/infrastructure/auth"
	"github.com/tallyhq/tallybook/internal/infrastructure/config"
	"github.com/tallyhq/tallybook/internal/infrastructure/logger"
	"github.com/tallyhq/tallybook/internal/infrastructure/metrics"
	"github.com/tallyhq/tallybook/internal/infrastructure/postgres"
	"github.com/tallyhq/tallybook/internal/infrastructure/redis"
	"github.com/tallyhq/tallybook/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	metrics.RegisterPoolStats(pool)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log.Logger)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	checkpointRepo := postgresRepo.NewCheckpointRepository(pool)
	bookRepo := postgresRepo.NewBookRepository(pool)
	tagRepo := postgresRepo.NewTagRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	flowRepo := postgresRepo.NewFlowRecordRepository(pool)
	transferRepo := postgresRepo.NewTransferRecordRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	propagator := usecase.NewDeltaPropagator(accountRepo, checkpointRepo)
	bookUC := usecase.NewBookUseCase(bookRepo, tagRepo, userRepo, idGen)
	accountUC := usecase.NewAccountUseCase(accountRepo, bookRepo, idGen)
	flowUC := usecase.NewFlowRecordUseCase(txManager, retrier, propagator, flowRepo, accountRepo, tagRepo, bookRepo, userRepo, idGen, cache)
	transferUC := usecase.NewTransferUseCase(txManager, retrier, propagator, transferRepo, accountRepo, bookRepo, userRepo, idGen, cache)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, checkpointRepo, cache)

	// HTTP surface
	routerCfg := httpAdapter.RouterConfig{
		BookHandler:       handler.NewBookHandler(bookUC),
		AccountHandler:    handler.NewAccountHandler(accountUC),
		FlowRecordHandler: handler.NewFlowRecordHandler(flowUC),
		TransferHandler:   handler.NewTransferHandler(transferUC),
		BalanceHandler:    handler.NewBalanceHandler(balanceUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	}

	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.JWTManager = jwtManager
		routerCfg.AuthHandler = handler.NewAuthHandler(jwtManager, bookUC)
	}

	router := httpAdapter.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
