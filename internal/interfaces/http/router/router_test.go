package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	reportapp "github.com/supplychain/backend/internal/application/report"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"github.com/supplychain/backend/tests/testutil"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var seen []string
	r.Use(func(c *gin.Context) {
		seen = append(seen, c.Request.URL.Path)
		c.Next()
	})
	r.Register(NewDomainGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"/api/v1/test/ping"}, seen)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("inventory", "/inventory")
		assert.Equal(t, "inventory", g.Name())
		assert.Equal(t, "/inventory", g.Prefix())
	})

	t.Run("mounts resources under the prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			Resource("/items", func(rg *gin.RouterGroup, path string) {
				rg.GET(path, func(c *gin.Context) { c.String(http.StatusOK, "list") })
				rg.DELETE(path+"/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
			})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/test/items/1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("lists views and resources", func(t *testing.T) {
		g := NewDomainGroup("analytics", "/analytics").
			GET("/dashboard-summary", func(*gin.Context) {}).
			Resource("/kpi-metrics", func(*gin.RouterGroup, string) {})

		assert.Equal(t, []string{"/dashboard-summary", "/kpi-metrics"}, g.Paths())
	})
}

type recordedEvents struct {
	mu        sync.Mutex
	rateHits  []appmonitoring.RateLimitHit
	authFails []appmonitoring.AuthFailure
}

func (r *recordedEvents) RecordRateLimit(_ context.Context, hit appmonitoring.RateLimitHit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateHits = append(r.rateHits, hit)
}

func (r *recordedEvents) RecordAuthFailure(_ context.Context, f appmonitoring.AuthFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authFails = append(r.authFails, f)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testServer struct {
	engine   *gin.Engine
	db       *gorm.DB
	events   *recordedEvents
	limiter  *middleware.RateLimiter
	userID   uuid.UUID
	bearer   string
	otherID  uuid.UUID
	otherTok string
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "supply-chain", Env: "test"},
		HTTP: config.HTTPConfig{MaxBodySize: 1 << 20},
		JWT:  config.JWTConfig{Secret: testSecret},
		RateLimit: config.RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		Monitoring: config.MonitoringConfig{
			ProbeTimeout:  time.Second,
			DefaultWindow: 7,
			AnalyticsDays: 30,
		},
	}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	db := testutil.NewSQLiteDB(t, persistence.Models()...)
	events := &recordedEvents{}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	t.Cleanup(limiter.Stop)

	engine := NewEngine(Dependencies{
		Config:      cfg,
		Version:     "test",
		Verifier:    auth.NewJWTService(cfg.JWT),
		Recorder:    events,
		RateLimiter: limiter,
		Repositories: Repositories{
			Inventory:  persistence.NewInventoryRepositories(db),
			Partner:    persistence.NewPartnerRepositories(db),
			Order:      persistence.NewOrderRepositories(db),
			Warehouse:  persistence.NewWarehouseRepositories(db),
			Logistics:  persistence.NewLogisticsRepositories(db),
			Tracking:   persistence.NewTrackingRepositories(db),
			Finance:    persistence.NewFinanceRepositories(db),
			Analytics:  persistence.NewAnalyticsRepositories(db),
			Monitoring: persistence.NewMonitoringRepositories(db),
		},
		References: persistence.NewGormReferenceChecker(db),
		Analytics:  reportapp.NewReportService(persistence.NewGormAnalyticsRepository(db)),
		Health:     appmonitoring.NewHealthService(pinger{}, nil),
		Summaries:  appmonitoring.NewSummaryService(persistence.NewGormMonitoringRepository(db)),
	})

	s := &testServer{
		engine:  engine,
		db:      db,
		events:  events,
		limiter: limiter,
		userID:  testutil.TestUserID(),
		otherID: testutil.OtherUserID(),
	}
	s.bearer = signToken(t, s.userID, time.Hour)
	s.otherTok = signToken(t, s.otherID, time.Hour)
	return s
}

func signToken(t *testing.T, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID.String(),
		Username: "planner",
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = token
	}
	return testutil.Do(t, s.engine, testutil.Request{Method: method, Path: path, Body: body, Headers: headers})
}

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestEngine_Liveness(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{HealthPath, APIHealthPath} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)

		body := testutil.DecodeData[map[string]any](t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "test", body["version"])
	}
}

func TestEngine_Authentication(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("missing credentials", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/inventory/categories", "", nil)

		env := testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("invalid token is recorded", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/inventory/categories", "Bearer not-a-token", nil)

		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)
		s.events.mu.Lock()
		defer s.events.mu.Unlock()
		require.Len(t, s.events.authFails, 1)
		assert.Equal(t, "/api/v1/inventory/categories", s.events.authFails[0].Endpoint)
	})

	t.Run("expired token", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/inventory/categories", signToken(t, s.userID, -time.Hour), nil)

		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenExpired)
	})

	t.Run("header identity when allowed", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) { c.Auth.AllowHeaderIdentity = true })
		w := testutil.Do(t, s.engine, testutil.Request{
			Path:    "/api/v1/inventory/categories",
			Headers: map[string]string{middleware.UserIDHeader: s.userID.String()},
		})

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestEngine_ResourceLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	const base = "/api/v1/inventory/categories"

	w := s.do(t, http.MethodPost, base, s.bearer, map[string]any{"name": "Electronics", "description": "Devices"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testutil.DecodeData[record](t, w)
	require.NotEmpty(t, created.ID)

	w = s.do(t, http.MethodPost, base, s.bearer, map[string]any{"name": "Electronics"})
	env := testutil.AssertError(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)
	assert.Equal(t, []string{"name"}, env.DetailFields())

	w = s.do(t, http.MethodPost, base, s.bearer, map[string]any{})
	env = testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Contains(t, env.DetailFields(), "name")

	w = s.do(t, http.MethodPatch, base+"/"+created.ID, s.bearer, map[string]any{"description": "Gadgets"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := testutil.DecodeData[map[string]any](t, w)
	assert.Equal(t, "Electronics", patched["name"])
	assert.Equal(t, "Gadgets", patched["description"])

	w = s.do(t, http.MethodGet, base+"?search=elec", s.bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.DecodeEnvelope(t, w)
	require.NotNil(t, list.Meta)
	assert.EqualValues(t, 1, list.Meta.Total)
	assert.Equal(t, dto.DefaultPageSize, list.Meta.PageSize)

	w = s.do(t, http.MethodDelete, base+"/"+created.ID, s.bearer, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, base+"/"+created.ID, s.bearer, nil)
	testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestEngine_OwnerScopedResource(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/analytics/dashboard-widgets", s.bearer, map[string]any{
		"name":        "Stock value",
		"widget_type": "METRIC",
		"category":    "INVENTORY",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	widget := testutil.DecodeData[record](t, w)

	w = s.do(t, http.MethodPost, "/api/v1/analytics/user-dashboards", s.bearer, map[string]any{"widget_id": widget.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placement := testutil.DecodeData[map[string]any](t, w)
	assert.Equal(t, s.userID.String(), placement["user_id"])
	assert.EqualValues(t, 4, placement["width"])

	id := placement["id"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/analytics/user-dashboards/"+id, s.otherTok, nil)
	testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = s.do(t, http.MethodGet, "/api/v1/analytics/user-dashboards", s.otherTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, testutil.DecodeEnvelope(t, w).Meta.Total)

	w = s.do(t, http.MethodGet, "/api/v1/analytics/user-dashboards", s.bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, testutil.DecodeEnvelope(t, w).Meta.Total)
}

func TestEngine_RateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.RateLimit.Enabled = true
		c.RateLimit.Requests = 2
	})

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodGet, HealthPath, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(t, http.MethodGet, HealthPath, "", nil)
	testutil.AssertError(t, w, http.StatusTooManyRequests, dto.ErrCodeRateLimited)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	s.events.mu.Lock()
	defer s.events.mu.Unlock()
	require.Len(t, s.events.rateHits, 1)
	assert.Equal(t, 3, s.events.rateHits[0].Count)
	assert.Equal(t, 2, s.events.rateHits[0].Threshold)
}

func TestEngine_Views(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("health check always answers 200", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/optimization/monitoring/health-check", s.bearer, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		report := testutil.DecodeData[map[string]any](t, w)
		assert.Equal(t, "CRITICAL", report["overall_status"])
	})

	t.Run("dashboard summary", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard-summary", s.bearer, nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("invalid days", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/optimization/monitoring/security-summary?days=week", s.bearer, nil)

		env := testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		assert.Equal(t, []string{"days"}, env.DetailFields())
	})

	t.Run("index lists every domain", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/", s.bearer, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		index := testutil.DecodeData[map[string]string](t, w)
		assert.Len(t, index, 9)
		assert.Equal(t, "/api/v1/tracking/", index["tracking"])
	})
}

func TestEngine_UnknownRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/nowhere", s.bearer, nil)
	testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = s.do(t, http.MethodPost, "/api/v1/inventory/categories/"+uuid.NewString(), s.bearer, map[string]any{})
	testutil.AssertError(t, w, http.StatusMethodNotAllowed, dto.ErrCodeBadRequest)
}
