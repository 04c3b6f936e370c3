package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sar-ops/rosterd/internal/app"
	"github.com/sar-ops/rosterd/internal/config"
	"github.com/sar-ops/rosterd/internal/db"
	"github.com/sar-ops/rosterd/internal/jobs"
	"github.com/sar-ops/rosterd/internal/logging"
	"github.com/sar-ops/rosterd/internal/observability"
	"github.com/sar-ops/rosterd/internal/qual"
)

const release = "rosterd@dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Closer()

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		logger.Base.Warn("sentry init failed", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Base.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		logger.Base.Fatal("db migrate", zap.Error(err))
	}
	if err := db.SeedBootstrapAdmin(ctx, database, cfg.BootstrapEmail, cfg.BootstrapPass); err != nil {
		logger.Base.Fatal("seed admin", zap.Error(err))
	}

	qualSvc := qual.NewService(db.NewQualStore(database), nil)

	runner := jobs.New(ctx)
	jobs.StartCertExpiryWatch(runner, database, logger)

	a := app.New(database, logger, cfg, qualSvc)
	srv := app.Start(ctx, cfg.HTTPAddr, a.Router())
	logger.Base.Info("listening", zap.String("addr", cfg.HTTPAddr))

	<-ctx.Done()
	logger.Base.Info("shutting down")
	srv.Wait()
}
