package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/rentquote/backend/docs"
	"github.com/rentquote/backend/internal/bootstrap"
	"github.com/rentquote/backend/internal/infrastructure/config"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"github.com/rentquote/backend/internal/infrastructure/telemetry"
	"github.com/rentquote/backend/internal/interfaces/http/handler"
	"github.com/rentquote/backend/internal/interfaces/http/middleware"
	"github.com/rentquote/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http/handler,../../internal/application -o ../../docs --parseInternal

//	@title			RentQuote Backend API
//	@version		1.0
//	@description	Quotation, property management and rent billing API

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	ctx := context.Background()

	// Export logs to the collector alongside the regular output
	logs, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logs.Bridge(log)
	defer func() {
		_ = log.Sync()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := logs.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down log export", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	log.Info("Starting RentQuote Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", telemetry.Version),
	)

	app, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{
		Migrate:  cfg.Database.AutoMigrate,
		Outbound: true,
	})
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Close(shutdownCtx); err != nil {
			log.Error("Error releasing resources", zap.Error(err))
		}
	}()

	if cfg.Profiling.SpanProfiles && profiler.Enabled() {
		app.Tracer.EnableSpanProfiles()
	}

	// Background jobs
	if cfg.Scheduler.Enabled {
		pool, trigger, err := app.NewJobScheduler()
		if err != nil {
			log.Fatal("Failed to register scheduled jobs", zap.Error(err))
		}
		if err := pool.Start(ctx); err != nil {
			log.Fatal("Failed to start job scheduler", zap.Error(err))
		}
		trigger.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := trigger.Stop(stopCtx); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
			if err := pool.Stop(stopCtx); err != nil {
				log.Error("Error stopping job scheduler", zap.Error(err))
			}
		}()
		log.Info("Job scheduler started",
			zap.Any("jobs", trigger.Jobs()),
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	s := app.Services
	handlers := router.Handlers{
		Auth:            handler.NewAuthHandler(app.JWT, app.Blacklist),
		Category:        handler.NewCategoryHandler(s.Category),
		Product:         handler.NewProductHandler(s.Product),
		Customer:        handler.NewCustomerHandler(s.Customer),
		Quotation:       handler.NewQuotationHandler(s.Quotation),
		Terms:           handler.NewTermsHandler(s.Terms),
		SupportContract: handler.NewSupportContractHandler(s.Contract),
		Property:        handler.NewPropertyHandler(s.Property),
		Unit:            handler.NewUnitHandler(s.Unit),
		Tenant:          handler.NewTenantHandler(s.Tenant),
		Lease:           handler.NewLeaseHandler(s.Lease),
		Ledger:          handler.NewLedgerHandler(s.Ledger),
		InvoiceTemplate: handler.NewInvoiceTemplateHandler(s.Template),
		RentInvoice:     handler.NewRentInvoiceHandler(s.RentInvoice),
		Payment:         handler.NewPaymentHandler(s.Payment),
		Number:          handler.NewNumberHandler(s.Number),
		Notification:    handler.NewNotificationHandler(s.Notification),
		Report:          handler.NewReportHandler(s.Dashboard),
		Audit:           handler.NewAuditHandler(s.Audit),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Start the request span so logs carry the trace ID
	// 4. Logger - Log requests
	// 5. Metrics - Count and time requests
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, app.Tracer.Enabled()))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Metrics.Enabled {
		engine.Use(app.Metrics.GinMiddleware(cfg.Metrics.Path, "/health"))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	checks := map[string]handler.HealthCheck{"database": app.DB.Ping}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	engine.GET("/health", handler.NewHealthHandler(telemetry.Version, checks).Health)

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(app.Metrics.Handler()))
	}

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(true, cfg.Swagger.AllowedIPs),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Public API routes (token refresh)
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.PublicGroups(handlers)...).
		Setup()

	// Authenticated API routes
	if cfg.HTTP.AllowAccountHeader {
		log.Warn("X-Account-ID header authentication is enabled; do not use in production")
	}
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.Auth(middleware.AuthConfig{
			JWTService:         app.JWT,
			Blacklist:          app.Blacklist,
			AllowAccountHeader: cfg.HTTP.AllowAccountHeader,
			Logger:             log,
		}), middleware.SpanAttributes()).
		Register(router.APIGroups(handlers, log)...).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
