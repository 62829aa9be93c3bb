package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	reportapp "github.com/supplychain/backend/internal/application/report"
	"github.com/supplychain/backend/internal/domain/report"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/cache"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/router"
	"github.com/supplychain/backend/tests/testutil"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const apiSecret = "integration-secret"

type apiServer struct {
	engine   *gin.Engine
	db       *TestDB
	recorder *appmonitoring.Recorder
	bearer   string
}

// startRedis runs a throwaway Redis and returns its connection settings
func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: port.Int()}
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()

	testDB := NewSharedTestDB(t)
	t.Cleanup(testDB.CleanTables)

	cfg := &config.Config{
		App:  config.AppConfig{Name: "supply-chain", Env: "test"},
		HTTP: config.HTTPConfig{MaxBodySize: 1 << 20},
		JWT:  config.JWTConfig{Secret: apiSecret},
		Monitoring: config.MonitoringConfig{
			ProbeTimeout:  2 * time.Second,
			DefaultWindow: 7,
			AnalyticsDays: 30,
		},
	}

	repos := router.Repositories{
		Inventory:  persistence.NewInventoryRepositories(testDB.DB),
		Partner:    persistence.NewPartnerRepositories(testDB.DB),
		Order:      persistence.NewOrderRepositories(testDB.DB),
		Warehouse:  persistence.NewWarehouseRepositories(testDB.DB),
		Logistics:  persistence.NewLogisticsRepositories(testDB.DB),
		Tracking:   persistence.NewTrackingRepositories(testDB.DB),
		Finance:    persistence.NewFinanceRepositories(testDB.DB),
		Analytics:  persistence.NewAnalyticsRepositories(testDB.DB),
		Monitoring: persistence.NewMonitoringRepositories(testDB.DB),
	}
	recorder := appmonitoring.NewRecorder(repos.Monitoring, zap.NewNop())

	redisClient := cache.NewClient(startRedis(t))
	t.Cleanup(func() {
		_ = redisClient.Close()
	})

	health := appmonitoring.NewHealthService(
		&persistence.Database{DB: testDB.DB},
		cache.NewRedisProbe(redisClient, "integration:"),
		appmonitoring.WithProbeTimeout(cfg.Monitoring.ProbeTimeout),
		appmonitoring.WithHealthRecords(repos.Monitoring.SystemHealth),
	)

	engine := router.NewEngine(router.Dependencies{
		Config:       cfg,
		Version:      "integration",
		Verifier:     auth.NewJWTService(cfg.JWT),
		Recorder:     recorder,
		Repositories: repos,
		References:   persistence.NewGormReferenceChecker(testDB.DB),
		Analytics:    reportapp.NewReportService(persistence.NewGormAnalyticsRepository(testDB.DB)),
		Health:       health,
		Summaries:    appmonitoring.NewSummaryService(persistence.NewGormMonitoringRepository(testDB.DB)),
	})

	return &apiServer{
		engine:   engine,
		db:       testDB,
		recorder: recorder,
		bearer:   signToken(t, uuid.New()),
	}
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID:   userID.String(),
		Username: "dispatcher",
	})
	signed, err := token.SignedString([]byte(apiSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (s *apiServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = token
	}
	return testutil.Do(t, s.engine, testutil.Request{Method: method, Path: path, Body: body, Headers: headers})
}

// create posts body and returns the id of the created record
func (s *apiServer) create(t *testing.T, path string, body any) string {
	t.Helper()

	w := s.do(t, http.MethodPost, path, s.bearer, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testutil.DecodeData[map[string]any](t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestInventoryFlow_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newAPIServer(t)

	categoryID := s.create(t, "/api/v1/inventory/categories", map[string]any{"name": "Pallets"})
	productID := s.create(t, "/api/v1/inventory/products", map[string]any{
		"sku":         "PAL-EU",
		"name":        "Euro pallet",
		"category_id": categoryID,
		"unit_price":  "12.50",
	})
	warehouseID := s.create(t, "/api/v1/inventory/warehouses", map[string]any{
		"name":        "Harbour",
		"address":     "3 Quay Street",
		"city":        "Antwerp",
		"state":       "Antwerp",
		"country":     "BE",
		"postal_code": "2000",
		"capacity":    5000,
	})
	s.create(t, "/api/v1/inventory/inventory", map[string]any{
		"product_id":   productID,
		"warehouse_id": warehouseID,
		"quantity":     8,
	})

	t.Run("duplicate stock level", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/inventory/inventory", s.bearer, map[string]any{
			"product_id":   productID,
			"warehouse_id": warehouseID,
			"quantity":     1,
		})

		env := testutil.AssertError(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)
		assert.ElementsMatch(t, []string{"product_id", "warehouse_id"}, env.DetailFields())
	})

	t.Run("dashboard summary values stock", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard-summary", s.bearer, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		summary := testutil.DecodeData[report.DashboardSummary](t, w)
		assert.EqualValues(t, 1, summary.Inventory.TotalProducts)
		assert.EqualValues(t, 1, summary.Inventory.LowStockProducts)
		assert.True(t, summary.Inventory.TotalInventoryValue.Equal(decimal.NewFromInt(100)),
			"got %s", summary.Inventory.TotalInventoryValue)
	})

	t.Run("inventory analytics flags low stock", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/analytics/inventory-analytics?days=14", s.bearer, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		view := testutil.DecodeData[report.InventoryAnalytics](t, w)
		assert.Equal(t, 14, view.Period.Days)
		require.Len(t, view.TopProducts, 1)
		assert.Equal(t, "Pallets", view.TopProducts[0].Category)
		assert.EqualValues(t, 8, view.TopProducts[0].TotalQuantity)
		require.Len(t, view.LowStockAlerts, 1)
		assert.Equal(t, "Harbour", view.LowStockAlerts[0].Warehouse)
	})

	t.Run("deleting the category removes dependent stock", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/v1/inventory/categories/"+categoryID, s.bearer, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, "/api/v1/inventory/inventory", s.bearer, nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.EqualValues(t, 0, env.Meta.Total)
	})
}

func TestMonitoringRecording_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := newAPIServer(t)
	ctx := context.Background()

	t.Run("rejected token becomes a security event", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/inventory/products", "Bearer forged", nil)
		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
		s.recorder.Wait()

		w = s.do(t, http.MethodGet, "/api/v1/optimization/monitoring/security-summary?days=1", s.bearer, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		view := testutil.DecodeData[report.SecuritySummary](t, w)
		require.Len(t, view.EventsByType, 1)
		assert.Equal(t, "AUTH_FAILURE", view.EventsByType[0].EventType)
		assert.EqualValues(t, 1, view.EventsByType[0].Count)
		assert.Empty(t, view.RecentCriticalEvents)
	})

	t.Run("slow statements feed the performance summary", func(t *testing.T) {
		s.recorder.RecordSlowQuery(ctx, `SELECT * FROM "products" WHERE sku = $1`, 250*time.Millisecond, 3)
		s.recorder.RecordSlowQuery(ctx, `INSERT INTO "database_performance" ("id") VALUES ($1)`, time.Second, 1)
		s.recorder.Wait()

		w := s.do(t, http.MethodGet, "/api/v1/optimization/monitoring/performance-summary", s.bearer, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		view := testutil.DecodeData[report.PerformanceSummary](t, w)
		assert.EqualValues(t, 1, view.Database.SlowQueryCount)
		assert.True(t, view.Database.AverageExecutionTime.Equal(decimal.NewFromInt(250)),
			"got %s", view.Database.AverageExecutionTime)
	})

	t.Run("health check probes real dependencies and records them", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/optimization/monitoring/health-check", s.bearer, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := testutil.DecodeData[appmonitoring.HealthReport](t, w)
		assert.EqualValues(t, "HEALTHY", got.Components[appmonitoring.KeyDatabase].Status)
		assert.EqualValues(t, "HEALTHY", got.Components[appmonitoring.KeyRedis].Status)

		var rows int64
		require.NoError(t, s.db.DB.Table("system_health").Count(&rows).Error)
		assert.GreaterOrEqual(t, rows, int64(2))
	})
}
