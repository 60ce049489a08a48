package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	docs "trade_monitor/docs"
	"trade_monitor/internal/config"
	"trade_monitor/internal/infra/db"
	applogger "trade_monitor/internal/infra/logger"
	"trade_monitor/internal/infra/repository"
	httptransport "trade_monitor/internal/transport/http"
	"trade_monitor/internal/usecase"
)

// @title Trade Monitor API
// @version 1.0
// @description Signed MT5 deal ingestion, trade ledger, daily metrics and performance analytics.
// @BasePath /api/v1

func main() {
	rootCtx := context.Background()

	applogger.Init("info")
	logger := applogger.Logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	applogger.Init(cfg.Logging.Level)
	logger = applogger.Logger
	logger.Info().Str("level", cfg.Logging.Level).Msg("logger initialized")

	docs.SwaggerInfo.Title = "Trade Monitor API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Description = "Signed MT5 deal ingestion, trade ledger, daily metrics and performance analytics."
	docs.SwaggerInfo.BasePath = "/api/v1"

	logger.Info().Str("dsn", maskDSN(cfg.Database.DSN)).Msg("connecting to database")
	gormDB, err := db.Connect(rootCtx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("underlying sql db")
	}
	defer sqlDB.Close()
	logger.Info().Msg("database connected")

	if err := db.ApplyMigrations(rootCtx, gormDB); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	logger.Info().Msg("migrations applied")

	userRepo, err := repository.NewGormUserRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init user repository")
	}
	accountRepo, err := repository.NewGormAccountRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init account repository")
	}
	tradeRepo, err := repository.NewGormTradeRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init trade repository")
	}
	metricRepo, err := repository.NewGormMetricRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init metric repository")
	}
	txManager, err := repository.NewGormTxManager(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init tx manager")
	}

	authService, err := usecase.NewAuthService(userRepo, cfg.Auth.SessionTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init auth service")
	}
	accountService, err := usecase.NewAccountService(accountRepo, tradeRepo, txManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("init account service")
	}
	metricsService, err := usecase.NewMetricsService(accountRepo, tradeRepo, metricRepo, cfg.App.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("init metrics service")
	}
	analyticsService, err := usecase.NewAnalyticsService(accountRepo, tradeRepo, cfg.App.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("init analytics service")
	}
	ingestService, err := usecase.NewIngestService(accountRepo, tradeRepo, metricsService, txManager, cfg.Ingest.FreshnessWindow)
	if err != nil {
		logger.Fatal().Err(err).Msg("init ingest service")
	}

	logger.Info().Msg("all services initialized")

	router := httptransport.New(authService, accountService, analyticsService, metricsService, ingestService)

	logger.Info().Dur("interval", cfg.Scheduler.RecomputeInterval).Msg("initializing scheduler")
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal().Err(err).Msg("init scheduler")
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown error")
		}
	}()

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Scheduler.RecomputeInterval),
		gocron.NewTask(func(ctx context.Context) {
			accountIDs, err := accountRepo.ListAccountIDs(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("scheduled recompute: list accounts")
				return
			}
			for _, accountID := range accountIDs {
				if err := metricsService.Recompute(ctx, accountID); err != nil {
					logger.Error().Err(err).Int64("account_id", accountID).Msg("scheduled recompute error")
				}
			}
			logger.Info().Int("accounts", len(accountIDs)).Msg("scheduled metrics recompute completed")
		}),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("schedule job")
	}
	scheduler.Start()
	logger.Info().Msg("scheduler started")

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		serverErr <- router.App().Listen(addr)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("fiber server error")
		}
	case sig := <-signalCh:
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.App().ShutdownWithContext(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
		logger.Info().Msg("server shutdown complete")
	}
}

func maskDSN(dsn string) string {
	if len(dsn) > 20 {
		return dsn[:10] + "***" + dsn[len(dsn)-10:]
	}
	return "***"
}
