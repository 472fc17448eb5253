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
	"go.uber.org/zap"

	applifecycle "github.com/propertyhub/backend/internal/application/lifecycle"
	apponboarding "github.com/propertyhub/backend/internal/application/onboarding"
	"github.com/propertyhub/backend/internal/infrastructure/auth"
	"github.com/propertyhub/backend/internal/infrastructure/cache"
	"github.com/propertyhub/backend/internal/infrastructure/config"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"github.com/propertyhub/backend/internal/infrastructure/persistence"
	"github.com/propertyhub/backend/internal/infrastructure/scheduler"
	"github.com/propertyhub/backend/internal/infrastructure/storage"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"github.com/propertyhub/backend/internal/interfaces/http/handler"
	"github.com/propertyhub/backend/internal/interfaces/http/middleware"
	"github.com/propertyhub/backend/internal/interfaces/http/router"
)

//	@title			PropertyHub Backend API
//	@version		1.0
//	@description	Tenant lifecycle and move-in onboarding API for property managers

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const meterName = "github.com/propertyhub/backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Disabled signals keep the global no-op providers
	otel, err := telemetry.Setup(ctx, telemetry.ConfigFrom(cfg.Telemetry), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, otel.LogCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to attach OTLP log bridge", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PropertyHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	meter := otel.Meter(meterName)

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if plugin, err := telemetry.NewDBTracingPlugin(dbTracing, meter, log); err != nil {
		log.Warn("Failed to create database tracing", zap.Error(err))
	} else if err := plugin.Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}
	lifecycleMetrics, err := telemetry.NewLifecycleMetrics(meter)
	if err != nil {
		log.Warn("Failed to create lifecycle metrics", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	presetRepo := persistence.NewGormPresetRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	lifecycleStore := persistence.NewGormLifecycleStore(db.DB)

	// Deletion reports go to the audit table and, when configured, to object storage
	auditors := []applifecycle.AuditRecorder{persistence.NewGormDeletionAuditRepository(db.DB)}
	if cfg.Storage.Enabled {
		archive, err := storage.NewS3ReportArchive(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize report archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn("Report archive bucket check failed", zap.Error(err))
		}
		auditors = append(auditors, archive)
		log.Info("Deletion reports archived to object storage", zap.String("bucket", archive.Bucket()))
	}

	// Services
	lifecycleService := applifecycle.NewService(lifecycleStore, tenantRepo, log,
		applifecycle.WithAuditRecorders(auditors...),
		applifecycle.WithMetrics(lifecycleMetrics),
	)
	presetService := apponboarding.NewPresetService(presetRepo, log,
		apponboarding.WithDefaultLinkExpiry(cfg.Onboarding.DefaultLinkExpiryDays),
		apponboarding.WithPresetMetrics(lifecycleMetrics),
	)
	sessionService := apponboarding.NewSessionService(sessionRepo, presetRepo, leaseRepo,
		apponboarding.NewLogNotifier(log), log,
		apponboarding.WithPortalBaseURL(cfg.Onboarding.PortalBaseURL),
		apponboarding.WithSessionMetrics(lifecycleMetrics),
		apponboarding.WithTenantAccounts(tenantRepo),
		apponboarding.WithMoveInInvoices(persistence.NewGormInvoiceRepository(db.DB)),
	)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server spans enriched with request attributes
	// 5. Metrics - Request counters and latency
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, otel.TracingEnabled()))
	engine.Use(middleware.SpanEnricher())
	if httpMetrics, err := middleware.HTTPMetrics(meter); err != nil {
		log.Warn("Failed to create HTTP metrics", zap.Error(err))
	} else {
		engine.Use(httpMetrics)
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	accessLimiter := middleware.NewRateLimiter(cfg.HTTP.AccessRateLimit, cfg.HTTP.AccessRatePeriod)
	defer accessLimiter.Close()

	router.Mount(engine,
		router.Handlers{
			Tenants:  handler.NewTenantHandler(lifecycleService),
			Presets:  handler.NewPresetHandler(presetService),
			Sessions: handler.NewSessionHandler(sessionService),
			Access:   handler.NewAccessHandler(sessionService),
			System:   handler.NewSystemHandler(cfg.App.Name, version, cfg.App.Env, db),
		},
		router.Guards{
			Auth:        middleware.JWTAuthMiddleware(jwtService, log),
			Admin:       middleware.RequireRole(auth.RoleAdmin),
			Idempotency: middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, log),
			AccessLimit: middleware.RateLimit(accessLimiter),
		},
	)

	jobs := scheduler.New(log)
	if err := scheduler.RegisterSessionExpiry(jobs, cfg.Scheduler, sessionService, log); err != nil {
		log.Fatal("Failed to register session expiry job", zap.Error(err))
	}
	if err := jobs.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := otel.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
