package commands

import (
	"fmt"

	"github.com/wonny/warehouse/internal/auth"
	"github.com/wonny/warehouse/internal/dashboard"
	"github.com/wonny/warehouse/internal/external/llm"
	"github.com/wonny/warehouse/internal/forecast"
	"github.com/wonny/warehouse/internal/stock"
	"github.com/wonny/warehouse/internal/telemetry"
	"github.com/wonny/warehouse/internal/warehouse"
	"github.com/wonny/warehouse/pkg/config"
	"github.com/wonny/warehouse/pkg/database"
	"github.com/wonny/warehouse/pkg/logger"
	"github.com/wonny/warehouse/pkg/redis"
)

// redisPrefix namespaces every key this service writes
const redisPrefix = "warehouse"

// app holds the wired services shared by every command
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	stockRepo      *stock.Repository
	predictionRepo *forecast.Repository
	reportRepo     *forecast.ReportRepository
	telemetryRepo  *telemetry.Repository

	auth         *auth.Service
	reconciler   *stock.Reconciler
	orchestrator *forecast.Orchestrator
	narrator     *forecast.Narrator
	warehouse    *warehouse.Service
	telemetry    *telemetry.Service
	dashboard    *dashboard.Service
}

// newApp loads config, connects to Postgres and Redis and wires every service
func newApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (no-op when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: db, redis: rdb}

	// 5. Repositories
	a.stockRepo = stock.NewRepository(db.Pool)
	a.predictionRepo = forecast.NewRepository(db.Pool)
	a.reportRepo = forecast.NewReportRepository(db.Pool)
	a.telemetryRepo = telemetry.NewRepository(db)
	userRepo := auth.NewRepository(db.Pool)
	floorRepo := warehouse.NewRepository(db.Pool)

	cache := redis.NewCache(rdb, redisPrefix)
	limiter := redis.NewRateLimiter(rdb, redisPrefix)

	// 6. Services
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.auth = auth.NewService(userRepo, tokens, log.Zerolog())

	thresholds := stock.Thresholds{Ideal: cfg.Stock.IdealQuantity, Critical: cfg.Stock.CriticalQuantity}
	a.reconciler = stock.NewReconciler(a.stockRepo, a.stockRepo, thresholds, log.Zerolog()).WithCache(cache)

	chain := forecast.NewChain(llm.NewProviders(cfg, log), log.Zerolog())
	a.orchestrator = forecast.NewOrchestrator(
		a.stockRepo, a.stockRepo, a.predictionRepo, chain,
		forecast.Options{RecentWindow: cfg.Forecast.RecentWindow, FallbackLimit: cfg.Forecast.FallbackLimit},
		log.Zerolog(),
	)

	a.warehouse = warehouse.NewService(floorRepo, log.Zerolog())
	a.narrator = forecast.NewNarrator(floorRepo, a.reportRepo, chain, log.Zerolog())

	a.telemetry = telemetry.NewService(a.telemetryRepo, log.Zerolog()).
		WithRateLimit(limiter, cfg.Telemetry.RateLimit, cfg.Telemetry.RateWindow)

	a.dashboard = dashboard.NewService(dashboard.Deps{
		Accounts:    a.auth,
		Floor:       a.warehouse,
		Products:    a.stockRepo,
		Robots:      a.telemetryRepo,
		Predictions: a.predictionRepo,
		Reports:     a.reportRepo,
		Cache:       cache,
	}, log.Zerolog())

	log.WithFields(map[string]interface{}{
		"env":       cfg.Env,
		"redis":     rdb.Enabled(),
		"providers": chain.Configured(),
	}).Debug("Application wired")

	return a, nil
}

// Close releases Redis and the database pool
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Redis close failed")
	}
	a.db.Close()
}
