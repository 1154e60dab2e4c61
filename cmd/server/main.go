package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shoppulse/backend/internal/application/alert"
	syncapp "github.com/shoppulse/backend/internal/application/sync"
	"github.com/shoppulse/backend/internal/application/webhook"
	"github.com/shoppulse/backend/internal/domain/integration"
	"github.com/shoppulse/backend/internal/infrastructure/config"
	"github.com/shoppulse/backend/internal/infrastructure/logger"
	"github.com/shoppulse/backend/internal/infrastructure/notify"
	"github.com/shoppulse/backend/internal/infrastructure/persistence"
	"github.com/shoppulse/backend/internal/infrastructure/scheduler"
	"github.com/shoppulse/backend/internal/infrastructure/tiktok"
	"github.com/shoppulse/backend/internal/interfaces/http/handler"
	"github.com/shoppulse/backend/internal/interfaces/http/middleware"
	"github.com/shoppulse/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopPulse Sync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	shopRepo := persistence.NewGormShopCredentialRepository(db.DB)
	syncRecordRepo := persistence.NewGormSyncRecordRepository(db.DB)
	trackingRepo := persistence.NewGormTrackingStateRepository(db.DB)
	notifyChannelRepo := persistence.NewGormNotifyChannelRepository(db.DB)

	// Initialize marketplace API client
	platformClient := tiktok.NewClient(log, tiktok.WithTimeout(cfg.TikTok.RequestTimeout))

	// Sync pipeline: resolve credentials, fetch pages, upsert batches
	appCreds := syncapp.AppCredentials{
		AppKey:     cfg.TikTok.AppKey,
		AppSecret:  cfg.TikTok.AppSecret,
		APIBaseURL: cfg.TikTok.APIBaseURL,
	}
	resolver := syncapp.NewCredentialResolver(shopRepo, appCreds, log)
	fetcher := syncapp.NewPaginatedFetcher(platformClient, log)
	upserter := syncapp.NewBatchUpserter(syncRecordRepo, cfg.TikTok.BatchSize, log)
	syncService := syncapp.NewService(
		shopRepo, trackingRepo, resolver, fetcher, upserter, log,
		syncapp.WithLookback(cfg.TikTok.SyncLookback),
		syncapp.WithPageSize(cfg.TikTok.PageSize),
	)

	// Webhook receiver: verify against the raw body, then route by domain
	webhookHandlers := map[integration.EventDomain]webhook.DomainHandler{
		integration.EventDomainOrder:   webhook.NewOrderHandler(shopRepo, trackingRepo, resolver, platformClient, log),
		integration.EventDomainProduct: webhook.NewProductHandler(log),
	}
	webhookService := webhook.NewService(cfg.Webhook.Secret, tiktok.VerifyWebhookSignature, webhookHandlers, log)

	// Stale-shipment alert scanner with Telegram dispatch
	notifier := notify.NewTelegramNotifier(cfg.Notify.TelegramBotToken, log,
		notify.WithSendTimeout(cfg.Notify.SendTimeout))
	scanner := alert.NewScanner(notifyChannelRepo, trackingRepo, notifier, log)

	// Periodic jobs (if enabled)
	if cfg.Scheduler.Enabled {
		cronScheduler := scheduler.NewCronScheduler(scheduler.Config{
			SyncSchedule:  cfg.Scheduler.SyncCronSchedule,
			AlertSchedule: cfg.Scheduler.AlertCronSchedule,
		}, syncService, scanner, log)
		if err := cronScheduler.Start(); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer cronScheduler.Stop()
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// HTTP handlers
	webhookHandler := handler.NewWebhookHandler(webhookService, log)
	syncHandler := handler.NewSyncHandler(syncService, log)
	alertHandler := handler.NewAlertHandler(scanner, log)
	systemHandler := handler.NewSystemHandler(db)

	// Webhooks are registered directly: the platform calls them unauthenticated
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(webhookHandler)
	r.Register(systemHandler)

	// Manual trigger endpoints share the bearer guard
	triggers := router.NewDomainGroup("")
	triggers.Use(middleware.TriggerAuth(cfg.Scheduler.TriggerToken))
	triggers.POST("/sync/run", syncHandler.RunAll)
	triggers.POST("/sync/shops/:shop_id/run", syncHandler.RunShop)
	triggers.POST("/alerts/scan", alertHandler.RunScan)
	r.Register(triggers)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
