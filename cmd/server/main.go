package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/dripnest/storefront/internal/application/billing"
	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
	identityapp "github.com/dripnest/storefront/internal/application/identity"
	reportapp "github.com/dripnest/storefront/internal/application/report"
	tradeapp "github.com/dripnest/storefront/internal/application/trade"
	"github.com/dripnest/storefront/internal/infrastructure/auth"
	stripegw "github.com/dripnest/storefront/internal/infrastructure/billing"
	"github.com/dripnest/storefront/internal/infrastructure/cache"
	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/dripnest/storefront/internal/infrastructure/event"
	"github.com/dripnest/storefront/internal/infrastructure/logger"
	"github.com/dripnest/storefront/internal/infrastructure/persistence"
	"github.com/dripnest/storefront/internal/infrastructure/storage"
	"github.com/dripnest/storefront/internal/infrastructure/telemetry"
	"github.com/dripnest/storefront/internal/interfaces/http/handler"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/dripnest/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/dripnest/storefront/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

//	@title			DripNest Storefront API
//	@version		1.0
//	@description	REST API of the DripNest clothing store: catalog, orders, payments, accounts and the admin dashboard.

//	@contact.name	DripNest Engineering
//	@contact.url	https://github.com/dripnest/storefront

//	@license.name	MIT

//	@host		localhost:5000
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Prices and totals are plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry comes first so the logs bridge, DB spans and HTTP spans see the providers
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		bridged, err := logger.New(logCfg, loggerProvider.Core())
		if err != nil {
			log.Fatal("Failed to attach OTEL log core", zap.Error(err))
		}
		log = bridged
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting DripNest API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
		profiler = nil
	}
	if profiler != nil && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if profiler != nil {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Database: the server starts degraded when every attempt fails and the
	// health monitor brings it back once postgres answers
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog, log)
	if err != nil {
		log.Fatal("Failed to configure database", zap.Error(err))
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracing("postgres", log).Register(db.DB); err != nil {
			log.Warn("Failed to register DB tracing", zap.Error(err))
		}
	}
	if err := db.Connect(ctx); err != nil {
		log.Error("Database unavailable, starting in degraded mode", zap.Error(err))
	}
	db.StartHealthMonitor()
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	stores, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).CreateStores(ctx)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	images := newImageStorage(ctx, cfg, log)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("storefront"), log)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics, businessMetrics.EventTypes()...)

	if cfg.AMQP.URL != "" {
		forwarder, err := event.DialAMQPForwarder(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, order events stay in-process", zap.Error(err))
		} else {
			eventBus.Subscribe(forwarder, forwarder.EventTypes()...)
			defer func() {
				if err := forwarder.Close(); err != nil {
					log.Error("Error closing AMQP forwarder", zap.Error(err))
				}
			}()
			log.Info("Forwarding order events to RabbitMQ", zap.String("exchange", cfg.AMQP.Exchange))
		}
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)

	productOpts := []catalogapp.ProductServiceOption{
		catalogapp.WithProductCache(stores.Products),
		catalogapp.WithLogger(log),
	}
	if images != nil {
		productOpts = append(productOpts, catalogapp.WithImageStorage(images))
	}
	productService := catalogapp.NewProductService(productRepo, productOpts...)

	orderService := tradeapp.NewOrderService(orderRepo, productRepo, log)
	orderService.SetEventPublisher(eventBus)

	paymentService := billingapp.NewPaymentService(
		stripegw.NewStripeGateway(cfg.Stripe, log),
		orderRepo,
		billingapp.WithIdempotencyStore(stores.Idempotency),
		billingapp.WithPaymentRecorder(businessMetrics),
		billingapp.WithLogger(log),
	)
	paymentService.SetEventPublisher(eventBus)

	authService := identityapp.NewAuthService(userRepo, jwtService, stores.TokenBlacklist, log)
	authService.SetEventPublisher(eventBus)

	userService := identityapp.NewUserService(userRepo, productRepo, stores.TokenBlacklist, cfg.JWT.RefreshTokenExpiration, log)
	userService.SetEventPublisher(eventBus)

	reportService := reportapp.NewReportService(orderRepo, productRepo, userRepo, reportapp.WithLogger(log))

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// request id, recovery, tracing, metrics, profiling labels, request log,
	// security headers, CORS, body limit. Rate limit and the DB gate wrap /api only.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAnnotator())
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meterProvider.Meter("storefront.http"), log))
	}
	if profiler != nil && profiler.IsEnabled() {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	if cfg.CORS.ClientURL != "" {
		corsConfig.ClientURL = cfg.CORS.ClientURL
	}
	if len(cfg.CORS.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORS.AllowMethods
	}
	if len(cfg.CORS.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORS.AllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	apiMiddleware := []gin.HandlerFunc{}
	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimitConfig(stores.RateLimit)
		rl.Requests = cfg.RateLimit.Requests
		rl.Window = cfg.RateLimit.Window
		if len(cfg.RateLimit.SkipUserAgents) > 0 {
			rl.SkipUserAgents = cfg.RateLimit.SkipUserAgents
		}
		rl.Logger = log
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(rl))
	}
	apiMiddleware = append(apiMiddleware, middleware.DBCheck(db))

	authenticate := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: stores.TokenBlacklist,
		Logger:         log,
	})
	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(db),
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService, userService),
		Order:   handler.NewOrderHandler(orderService),
		Payment: handler.NewPaymentHandler(paymentService),
		User:    handler.NewUserHandler(userService),
		Admin:   handler.NewAdminHandler(reportService, userService),
	}
	router.NewRouter(engine, router.WithMiddleware(apiMiddleware...)).
		Register(router.StorefrontRoutes(handlers, authenticate)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// newImageStorage returns S3 when storage is configured, placeholder URLs
// outside production, and nil (uploads answer 503) otherwise
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) catalogapp.ImageStorage {
	if !cfg.Storage.Enabled {
		if cfg.App.IsProduction() {
			log.Info("Object storage disabled, image uploads unavailable")
			return nil
		}
		log.Info("Object storage disabled, using placeholder image URLs")
		return storage.NewStubImageStorage()
	}

	s3, err := storage.NewS3ImageStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		log.Error("Failed to initialize S3 storage, image uploads unavailable", zap.Error(err))
		return nil
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify image bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	log.Info("S3 image storage ready", zap.String("bucket", s3.Bucket()))
	return s3
}
