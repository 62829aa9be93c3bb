package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Instrument names recorded by HTTPMetrics
const (
	MetricRequests       = "http.server.requests"
	MetricDuration       = "http.server.request.duration"
	MetricActiveRequests = "http.server.active_requests"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// label cardinality bounded
const unmatchedRoute = "unmatched"

type httpInstruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requests, err := meter.Int64Counter(MetricRequests,
		metric.WithDescription("Completed HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(telemetry.HTTPDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter(MetricActiveRequests,
		metric.WithDescription("HTTP requests in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return &httpInstruments{requests: requests, duration: duration, active: active}, nil
}

// HTTPMetrics counts requests and records their latency per route
// pattern, method and status class. A nil meter disables it.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	inst, err := newHTTPInstruments(meter)
	if err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		inst.active.Add(ctx, 1)

		c.Next()

		inst.active.Add(ctx, -1)
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
		attrs = append(attrs, attribute.String("http.response.status_class", statusClass(c.Writer.Status())))
		inst.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
