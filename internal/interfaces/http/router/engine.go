package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	reportapp "github.com/supplychain/backend/internal/application/report"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/handler"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Liveness paths, served without authentication
const (
	HealthPath    = "/health"
	APIHealthPath = "/api/v1/health"
)

// EventRecorder persists rate-limit blocks and rejected tokens
type EventRecorder interface {
	RecordRateLimit(ctx context.Context, hit appmonitoring.RateLimitHit)
	RecordAuthFailure(ctx context.Context, f appmonitoring.AuthFailure)
}

// Dependencies are the collaborators the HTTP surface is built from
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Version  string
	// Meter enables request metrics when set.
	Meter    metric.Meter
	Verifier middleware.TokenVerifier
	// Recorder is optional.
	Recorder EventRecorder
	// RateLimiter is required when rate limiting is enabled.
	RateLimiter  *middleware.RateLimiter
	Repositories Repositories
	References   shared.ReferenceChecker
	Analytics    *reportapp.ReportService
	Health       *appmonitoring.HealthService
	Summaries    *appmonitoring.SummaryService
}

// NewEngine assembles the middleware chain and mounts every route
func NewEngine(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	engine.HandleMethodNotAllowed = true

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log, middleware.PanicResponse))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TraceAttributes())
	if deps.Meter != nil {
		engine.Use(middleware.HTTPMetrics(deps.Meter, log))
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.RateLimit.Enabled && deps.RateLimiter != nil {
		var recorder middleware.RateLimitRecorder
		if deps.Recorder != nil {
			recorder = deps.Recorder
		}
		engine.Use(middleware.RateLimit(deps.RateLimiter, recorder))
	}

	engine.NoRoute(notFound)
	engine.NoMethod(methodNotAllowed)

	groups := domainGroups(deps)
	index := make(map[string]string, len(groups))
	r := NewRouter(engine)
	for _, g := range groups {
		index[g.Name()] = r.BasePath() + g.Prefix() + "/"
		r.Register(g)
	}

	system := handler.NewSystemHandler(cfg.App.Name, deps.Version, index)
	engine.GET(HealthPath, system.Health)

	var authRecorder middleware.AuthFailureRecorder
	if deps.Recorder != nil {
		authRecorder = deps.Recorder
	}
	r.Use(middleware.JWTAuth(middleware.JWTConfig{
		Verifier:            deps.Verifier,
		SkipPaths:           append([]string{HealthPath, APIHealthPath}, cfg.Auth.SkipPaths...),
		AllowHeaderIdentity: cfg.Auth.AllowHeaderIdentity,
		Recorder:            authRecorder,
		Logger:              log,
	}))

	api := r.Setup()
	api.GET("/health", system.Health)
	api.GET("/", system.Index)

	return engine
}

func domainGroups(deps Dependencies) []*DomainGroup {
	repos := deps.Repositories
	refs := deps.References
	analyticsDays := deps.Config.Monitoring.AnalyticsDays
	summaryDays := deps.Config.Monitoring.DefaultWindow

	return []*DomainGroup{
		inventoryRoutes(repos.Inventory, refs),
		orderRoutes(repos.Order, refs),
		warehouseRoutes(repos.Warehouse, refs),
		logisticsRoutes(repos.Logistics, refs),
		trackingRoutes(repos.Tracking, refs),
		partnerRoutes(repos.Partner, refs),
		financeRoutes(repos.Finance, refs),
		analyticsRoutes(repos.Analytics, refs, handler.NewAnalyticsHandler(deps.Analytics, analyticsDays)),
		optimizationRoutes(repos.Monitoring, refs, handler.NewMonitoringHandler(deps.Health, deps.Summaries, summaryDays)),
	}
}

func notFound(c *gin.Context) {
	var h handler.BaseHandler
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Not found.")
}

func methodNotAllowed(c *gin.Context) {
	var h handler.BaseHandler
	h.Error(c, http.StatusMethodNotAllowed, dto.ErrCodeBadRequest, "Method \""+c.Request.Method+"\" not allowed.")
}
