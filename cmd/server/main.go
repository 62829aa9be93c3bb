package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	reportapp "github.com/supplychain/backend/internal/application/report"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/cache"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/hostmetrics"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"github.com/supplychain/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// shutdownGrace bounds the drain when no shutdown timeout is configured
const shutdownGrace = 30 * time.Second

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("Invalid configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	deployment := telemetry.Deployment(version, cfg.App.Env)
	logExport, err := telemetry.NewLoggerProvider(context.Background(), cfg.Telemetry, deployment...)
	if err != nil {
		panic("Failed to initialize log export: " + err.Error())
	}
	log = logExport.Mirror(log, logger.ParseLevel(cfg.Log.Level))
	defer shutdownTelemetry(log, "log export", logExport.Shutdown)

	log.Info("Starting supply chain backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracer, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log, deployment...)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTelemetry(log, "tracer", tracer.Shutdown)

	meters, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log, deployment...)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer shutdownTelemetry(log, "meter provider", meters.Shutdown)
	var httpMeter metric.Meter
	if meters.IsEnabled() {
		httpMeter = meters.Meter("supplychain/http")
	}

	// The recorder needs repositories, which need the database, which
	// needs the GORM logger. Slow statements seen before the recorder
	// exists are only logged.
	var slowQueries atomic.Pointer[appmonitoring.Recorder]
	gormOpts := []logger.GormLoggerOption{
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
		logger.WithIgnoreRecordNotFoundError(true),
	}
	if cfg.Monitoring.RecordSlowSQL {
		gormOpts = append(gormOpts, logger.WithSlowQueryHook(func(ctx context.Context, sql string, elapsed time.Duration, rows int64) {
			if r := slowQueries.Load(); r != nil {
				r.RecordSlowQuery(ctx, sql, elapsed, rows)
			}
		}))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), gormOpts...)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:           cfg.Database.DBName,
		IncludeVariables: !cfg.App.IsProduction(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if meters.IsEnabled() {
		if _, err := telemetry.RegisterPoolMetrics(meters.Meter("supplychain/db"), db, log); err != nil {
			log.Warn("Connection pool metrics disabled", zap.Error(err))
		}
	}

	repos := router.Repositories{
		Inventory:  persistence.NewInventoryRepositories(db.DB),
		Partner:    persistence.NewPartnerRepositories(db.DB),
		Order:      persistence.NewOrderRepositories(db.DB),
		Warehouse:  persistence.NewWarehouseRepositories(db.DB),
		Logistics:  persistence.NewLogisticsRepositories(db.DB),
		Tracking:   persistence.NewTrackingRepositories(db.DB),
		Finance:    persistence.NewFinanceRepositories(db.DB),
		Analytics:  persistence.NewAnalyticsRepositories(db.DB),
		Monitoring: persistence.NewMonitoringRepositories(db.DB),
	}

	recorder := appmonitoring.NewRecorder(repos.Monitoring, log)
	slowQueries.Store(recorder)

	redisClient := cache.NewClient(cfg.Redis)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("Error closing redis client", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Monitoring.ProbeTimeout)
	if err := cache.Ping(pingCtx, redisClient); err != nil {
		// the health check reports redis as critical until it comes back
		log.Warn("Redis unreachable at startup", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	}
	cancelPing()

	healthOpts := []appmonitoring.HealthOption{
		appmonitoring.WithProbeTimeout(cfg.Monitoring.ProbeTimeout),
		appmonitoring.WithHealthLogger(log),
	}
	if cfg.Monitoring.HostMetrics {
		healthOpts = append(healthOpts, appmonitoring.WithHostSampler(hostmetrics.NewSampler(cfg.Monitoring.DiskPath, hostmetrics.DefaultCPUInterval)))
	}
	if cfg.Monitoring.RecordHealth {
		healthOpts = append(healthOpts, appmonitoring.WithHealthRecords(repos.Monitoring.SystemHealth))
	}
	health := appmonitoring.NewHealthService(db, cache.NewRedisProbe(redisClient, cfg.App.Name), healthOpts...)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		defer limiter.Stop()
	}

	engine := router.NewEngine(router.Dependencies{
		Config:       cfg,
		Logger:       log,
		Version:      version,
		Meter:        httpMeter,
		Verifier:     auth.NewJWTService(cfg.JWT),
		Recorder:     recorder,
		RateLimiter:  limiter,
		Repositories: repos,
		References:   persistence.NewGormReferenceChecker(db.DB),
		Analytics:    reportapp.NewReportService(persistence.NewGormAnalyticsRepository(db.DB)),
		Health:       health,
		Summaries:    appmonitoring.NewSummaryService(persistence.NewGormMonitoringRepository(db.DB)),
	})

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	grace := cfg.HTTP.ShutdownTimeout
	if grace <= 0 {
		grace = shutdownGrace
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	recorder.Wait()

	log.Info("Server exited gracefully")
}

func shutdownTelemetry(log *zap.Logger, what string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Warn("Error shutting down "+what, zap.Error(err))
	}
}
