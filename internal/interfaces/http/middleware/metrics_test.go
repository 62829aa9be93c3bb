package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	router := gin.New()
	router.Use(HTTPMetrics(provider.Meter("test"), zap.NewNop()))
	router.GET("/api/v1/inventory/products/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/inventory/products/a", "/api/v1/inventory/products/b", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	metrics := collectMetrics(t, reader)

	t.Run("requests are counted per route pattern", func(t *testing.T) {
		m, ok := metrics[MetricRequests]
		require.True(t, ok)
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)

		counts := map[string]int64{}
		for _, dp := range sum.DataPoints {
			route, _ := dp.Attributes.Value("http.route")
			class, _ := dp.Attributes.Value("http.response.status_class")
			counts[route.AsString()+" "+class.AsString()] += dp.Value
		}
		assert.Equal(t, map[string]int64{
			"/api/v1/inventory/products/:id 2xx": 2,
			"unmatched 4xx":                      1,
		}, counts)
	})

	t.Run("latency is recorded", func(t *testing.T) {
		m, ok := metrics[MetricDuration]
		require.True(t, ok)
		hist, ok := m.Data.(metricdata.Histogram[float64])
		require.True(t, ok)

		var total uint64
		for _, dp := range hist.DataPoints {
			total += dp.Count
		}
		assert.EqualValues(t, 3, total)
	})

	t.Run("no requests left in flight", func(t *testing.T) {
		m, ok := metrics[MetricActiveRequests]
		require.True(t, ok)
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		for _, dp := range sum.DataPoints {
			assert.Zero(t, dp.Value)
		}
	})
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTPMetrics(nil, nil))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(http.StatusCreated))
	assert.Equal(t, "4xx", statusClass(http.StatusTooManyRequests))
	assert.Equal(t, "5xx", statusClass(http.StatusInternalServerError))
}
