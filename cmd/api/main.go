package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/base-creator-connect/backend/internal/chain"
	"github.com/base-creator-connect/backend/internal/config"
	"github.com/base-creator-connect/backend/internal/db"
	"github.com/base-creator-connect/backend/internal/events"
	"github.com/base-creator-connect/backend/internal/flow"
	"github.com/base-creator-connect/backend/internal/framehub"
	apphttp "github.com/base-creator-connect/backend/internal/http"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/http/handlers"
	"github.com/base-creator-connect/backend/internal/middleware"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/base-creator-connect/backend/internal/services"
	"github.com/base-creator-connect/backend/internal/thankyou"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, os.DirFS("migrations"), log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Chain
	ethClient, err := chain.Dial(ctx, cfg.ChainRPCURL)
	if err != nil {
		log.Fatal("failed to connect to chain rpc", zap.Error(err))
	}
	defer ethClient.Close()
	verifier := chain.NewVerifier(ethClient, cfg.ChainID, cfg.TxConfirmTimeout, cfg.TxPollInterval, log)
	transfers := services.ReportedTransfers(verifier)

	// Repositories
	creatorRepo := repositories.NewCreatorRepo(pool)
	tierRepo := repositories.NewTierRepo(pool)
	goalRepo := repositories.NewGoalRepo(pool)
	tipRepo := repositories.NewTipRepo(pool)
	fanRepo := repositories.NewFanRepo(pool)
	authRepo := repositories.NewAuthRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Thank-you notes
	var gen thankyou.Completer
	if cfg.LLMAPIKey != "" {
		gen = thankyou.NewClient(thankyou.ClientConfig{
			BaseURL:       cfg.LLMBaseURL,
			APIKey:        cfg.LLMAPIKey,
			Model:         cfg.LLMModel,
			Timeout:       cfg.LLMTimeout,
			RatePerSecond: cfg.LLMRatePerSecond,
		}, log)
	}
	noteCache, err := thankyou.NewCache(cfg.ThankYouCacheSize, cfg.ThankYouCacheTTL, time.Now)
	if err != nil {
		log.Fatal("failed to create thank-you cache", zap.Error(err))
	}
	notes := thankyou.NewService(gen, noteCache, log)

	// Services
	authService := services.NewAuthService(authRepo, creatorRepo, auditRepo, cfg, log)
	creatorService := services.NewCreatorService(creatorRepo, tierRepo, goalRepo, auditRepo, log)
	tierService := services.NewTierService(tierRepo, auditRepo, log)
	goalService := services.NewGoalService(goalRepo, tipRepo, auditRepo, publisher, log)
	guard := services.NewRedisGuard(rdb)
	tipService := services.NewTipService(tipRepo, tierRepo, fanRepo, goalService, guard, publisher, cfg.TipCurrency, cfg.SubmitGuardTTL, log)
	submitter := services.NewFlowSubmitter(creatorRepo, tipService, notes, transfers, log)

	// Tip flows
	frame := flow.NewFrame(
		flow.NewMachine(flow.VariantFrame, submitter, log),
		cfg.DefaultTipAmounts, cfg.TipCurrency, cfg.APPBaseURL, cfg.ExplorerTxURL, cfg.FrameImageURL,
	)
	sessions := flow.NewWidgetSessions(
		flow.NewMachine(flow.VariantWidget, submitter, log),
		cfg.DefaultTipAmounts, cfg.TipCurrency, cfg.WidgetSessionTTL, cfg.WidgetMaxSessions, time.Now,
	)
	go sessions.Run(ctx, time.Minute)

	validator := framehub.NewValidator(cfg.FrameHubURL, 5*time.Second, log)

	// Handlers
	wsHub := handlers.NewWSHub(subscriber, log)
	h := apphttp.Handlers{
		Auth:     handlers.NewAuthHandler(authService, log),
		Creator:  handlers.NewCreatorHandler(creatorService, tierService, tipService, log),
		Tier:     handlers.NewTierHandler(tierService, goalService, log),
		Tip:      handlers.NewTipHandler(tipService, creatorService, fanRepo, notes, transfers, cfg, log),
		ThankYou: handlers.NewThankYouHandler(notes, cfg.TipCurrency),
		Meta:     handlers.NewMetaHandler(cfg),
		Frame:    handlers.NewFrameHandler(frame, creatorService, validator, cfg.ChainID, log),
		Widget:   handlers.NewWidgetHandler(sessions, creatorService, cfg.APPBaseURL, cfg.FrameImageURL, log),
		WSHub:    wsHub,
	}

	// Start WS hub
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe to tip events", zap.Error(err))
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			requestID, _ := c.Locals(middleware.CtxRequestID).(string)
			return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: requestID})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, db.NewChecker(pool, rdb), h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
