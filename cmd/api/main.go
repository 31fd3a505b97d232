package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stack-settlement/config"
	httpHandler "stack-settlement/internal/adapter/http/handler"
	"stack-settlement/internal/adapter/solana"
	memStorage "stack-settlement/internal/adapter/storage/memory"
	pgStorage "stack-settlement/internal/adapter/storage/postgres"
	redisStorage "stack-settlement/internal/adapter/storage/redis"
	"stack-settlement/internal/core/ports"
	"stack-settlement/internal/service"
	"stack-settlement/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("rpc", cfg.Solana.RPCURL).
		Str("mint", cfg.Solana.Mint).
		Msg("Starting STACK settlement service")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.Migrate {
		if err := pgStorage.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Solana ledger access
	feePayerKey, err := solana.LoadKeypair(cfg.Solana.FeePayerKeypair)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fee payer keypair")
	}
	rpc := solana.NewRPCClient(cfg.Solana.RPCURL, solana.WithTimeout(cfg.Solana.Timeout))
	chainOpts := solana.Options{
		Mint:           cfg.Solana.Mint,
		TokenProgramID: cfg.Solana.TokenProgramID,
		Decimals:       cfg.Solana.Decimals,
		Commitment:     cfg.Solana.Commitment,
		ConfirmTimeout: cfg.Solana.ConfirmTimeout,
		PollInterval:   cfg.Solana.ConfirmPollInterval,
	}
	ledger, err := solana.NewLedger(rpc, feePayerKey, chainOpts, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ledger client")
	}
	builder, err := solana.NewBuilder(rpc, feePayerKey, chainOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize transaction builder")
	}
	verifier, err := solana.NewVerifier(rpc, chainOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize burn verifier")
	}
	log.Info().Str("fee_payer", ledger.Address()).Msg("Solana client ready")

	// Initialize repositories
	purchaseRepo := pgStorage.NewPurchaseRepo(pool)
	rewardRepo := pgStorage.NewRewardRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	cache := redisStorage.NewCache(rdb)

	var snapshots ports.SnapshotStore
	switch cfg.Settlement.SnapshotBackend {
	case "redis":
		snapshots = redisStorage.NewSnapshotStore(rdb, cfg.Settlement.SnapshotTTL)
	default:
		mem := memStorage.NewSnapshotStore(cfg.Settlement.SnapshotTTL)
		go mem.RunSweeper(ctx, cfg.Settlement.SnapshotTTL)
		snapshots = mem
	}
	log.Info().Str("backend", cfg.Settlement.SnapshotBackend).Msg("Balance snapshot store ready")

	// Initialize services
	analytics := service.NewAnalyticsTracker(
		cfg.Analytics.URL,
		cfg.Analytics.WebsiteID,
		cfg.Analytics.Hostname,
		cfg.Analytics.Timeout,
		nil,
		log,
	)
	if !analytics.Enabled() {
		log.Info().Msg("Analytics disabled")
	}

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	settlementSvc := service.NewSettlementService(
		purchaseRepo,
		walletRepo,
		ledger,
		builder,
		verifier,
		snapshots,
		analytics,
		service.SettlementConfig{
			Decimals:         cfg.Solana.Decimals,
			Tolerance:        cfg.Settlement.Tolerance,
			RequireSnapshot:  cfg.Settlement.RequireSnapshot,
			VerifySignatures: cfg.Settlement.VerifySignatures,
		},
		log,
	)
	rewardSvc := service.NewRewardService(
		rewardRepo,
		walletRepo,
		ledger,
		cache,
		transactor,
		analytics,
		cfg.Reward.BalanceCacheTTL,
		cfg.Solana.Decimals,
		log,
	)
	feePayerSvc := service.NewFeePayerService(ledger, ledger, cache, cfg.FeePayer.BalanceCacheTTL, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize rate limit store
	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.RateLimit.Enabled {
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)
	solanaHealth := solana.NewHealthCheck(rpc)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		SettlementSvc:  settlementSvc,
		RewardSvc:      rewardSvc,
		FeePayerSvc:    feePayerSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth, solanaHealth},
		AuditSvc:       auditSvc,
		ServiceKey:     cfg.Internal.APIKey,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
