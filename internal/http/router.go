package http

import (
	"time"

	"github.com/base-creator-connect/backend/internal/config"
	"github.com/base-creator-connect/backend/internal/db"
	"github.com/base-creator-connect/backend/internal/http/handlers"
	"github.com/base-creator-connect/backend/internal/metrics"
	"github.com/base-creator-connect/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Creator  *handlers.CreatorHandler
	Tier     *handlers.TierHandler
	Tip      *handlers.TipHandler
	ThankYou *handlers.ThankYouHandler
	Meta     *handlers.MetaHandler
	Frame    *handlers.FrameHandler
	Widget   *handlers.WidgetHandler
	WSHub    *handlers.WSHub
}

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	health *db.Checker,
	h Handlers,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(middleware.MetricsMiddleware())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		status := health.Check(c.Context())
		for _, s := range status {
			if s != "ok" {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "checks": status})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "checks": status})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	limiter := middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, log)

	// Frames and widget embeds live outside the versioned API
	app.Get("/api/frame", h.Frame.Open)
	app.Post("/api/frame", limiter, h.Frame.Action)
	app.Post("/api/frame/tx", limiter, h.Frame.Transaction)

	app.Get("/api/widget/sessions/:id", h.Widget.GetSession)
	app.Post("/api/widget/sessions/:id/events", limiter, h.Widget.Dispatch)
	app.Get("/api/widget/:creatorId", h.Widget.Embed)
	app.Post("/api/widget/:creatorId/sessions", limiter, h.Widget.StartSession)

	api := app.Group("/api/v1")

	// Meta
	api.Get("/meta/tip-amounts", h.Meta.GetTipAmounts)
	api.Get("/meta/thank-you-styles", h.Meta.GetThankYouStyles)

	// Rate-limited public endpoints
	api.Use(limiter)

	// Auth
	api.Post("/auth/nonce", h.Auth.Nonce)
	api.Post("/auth/wallet", h.Auth.WalletLogin)

	// Creators
	api.Get("/creators/by-wallet/:address", h.Creator.GetByWallet)
	api.Get("/creators/:id", h.Creator.GetCreator)
	api.Get("/creators/:id/tips", h.Creator.ListTips)
	api.Get("/creators/:id/stats", h.Creator.Stats)
	api.Get("/creators/:id/tiers/resolve", h.Creator.ResolveTier)

	// Tips and fans
	api.Post("/tips", h.Tip.SubmitTip)
	api.Get("/tips/:hash", h.Tip.GetTip)
	api.Get("/fans/:address/tips", h.Tip.ListFanTips)
	api.Post("/fans", h.Tip.UpsertFan)

	// Text generation
	api.Post("/thank-you", h.ThankYou.Generate)
	api.Post("/reactions/suggest", h.ThankYou.SuggestReaction)

	// Protected endpoints
	protected := api.Group("/me", middleware.AuthMiddleware(cfg, log))

	protected.Get("", h.Creator.GetMe)
	protected.Put("", h.Creator.UpdateMe)
	protected.Get("/tips", h.Creator.MyTips)

	protected.Post("/tiers", h.Tier.CreateTier)
	protected.Put("/tiers/:id", h.Tier.UpdateTier)
	protected.Get("/tiers", h.Tier.ListTiers)

	protected.Post("/goals", h.Tier.CreateGoal)
	protected.Put("/goals/:id", h.Tier.UpdateGoal)
	protected.Get("/goals", h.Tier.ListGoals)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws/creators/:id", websocket.New(h.WSHub.HandleWS))
}
