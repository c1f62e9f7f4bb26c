package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/scheduler"
	"folio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	logger.SetLevel(level)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer closeStore()

	if err := database.Seed(ctx, store, time.Now()); err != nil {
		logger.Fatalf("seed: %v", err)
	}

	svc := service.NewPortfolio(store, logger)

	sched, err := scheduler.New(logger)
	if err != nil {
		logger.Fatalf("scheduler: %v", err)
	}
	if err := sched.NewIntervalJob("valuation-snapshot", svc.SnapshotValuation, cfg.SnapshotInterval, false); err != nil {
		logger.Fatalf("scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	rg := gin.New()
	rg.Use(gin.Recovery(), handlers.RequestLogger(logger))
	handlers.NewHandler(svc, logger).Register(rg)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: rg}
	go func() {
		logger.Infof("server starting on :%s (storage=%s)", cfg.Port, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
}

// openStorage builds the configured store, wrapped in the Redis quote cache
// when REDIS_ADDR is set. The returned func releases its connections.
func openStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (database.Storage, func(), error) {
	var (
		store   database.Storage
		closers []func() error
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg.Postgres.URL, cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		if err := database.Migrate(db, cfg.Postgres.MigrationDir, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		store = database.New(db, logger)
	default:
		store = database.NewMemStore(logger)
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		closers = append(closers, client.Close)
		store = cache.NewQuoteCache(store, client, cfg.Redis.QuoteTTL, logger)
		logger.Infof("quote cache enabled at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.QuoteTTL)
	}

	return store, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warnf("close storage: %v", err)
			}
		}
	}, nil
}
