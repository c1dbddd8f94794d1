package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/base-creator-connect/backend/internal/config"
	"github.com/base-creator-connect/backend/internal/db"
	"github.com/base-creator-connect/backend/internal/events"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/base-creator-connect/backend/internal/services"
	"go.uber.org/zap"
)

// Tips whose goal update failed are retried once they are this old, so a
// submission still in flight is left alone.
const (
	goalRetryAge   = time.Minute
	goalRetryBatch = 100
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	goalRepo := repositories.NewGoalRepo(pool)
	tipRepo := repositories.NewTipRepo(pool)
	authRepo := repositories.NewAuthRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	goalService := services.NewGoalService(goalRepo, tipRepo, auditRepo, publisher, log)

	log.Info("worker started", zap.Duration("goal_reconcile_interval", cfg.GoalReconcileInterval))

	// Run jobs on tickers
	goalTicker := time.NewTicker(cfg.GoalReconcileInterval)
	nonceTicker := time.NewTicker(10 * time.Minute)
	defer goalTicker.Stop()
	defer nonceTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-goalTicker.C:
			runGoalReconcile(ctx, goalService, log)
		case <-nonceTicker.C:
			runNoncePurge(ctx, authRepo, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runGoalReconcile(ctx context.Context, goalService *services.GoalService, log *zap.Logger) {
	n, err := goalService.Reconcile(ctx, goalRetryAge, goalRetryBatch)
	if err != nil {
		log.Error("goal reconcile failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("goal contributions reconciled", zap.Int("count", n))
	}
}

func runNoncePurge(ctx context.Context, authRepo *repositories.AuthRepo, log *zap.Logger) {
	n, err := authRepo.PurgeExpired(ctx)
	if err != nil {
		log.Error("failed to purge login nonces", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("expired login nonces purged", zap.Int64("count", n))
	}
}
