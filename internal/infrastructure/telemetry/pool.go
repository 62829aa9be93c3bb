package telemetry

import (
	"context"
	"fmt"

	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Pool instrument names
const (
	MetricPoolConnections    = "db_pool_connections"
	MetricPoolConnectionsMax = "db_pool_connections_max"
	MetricPoolWaits          = "db_pool_wait_total"
)

// PoolStatsSource reports connection pool state. *persistence.Database
// satisfies it.
type PoolStatsSource interface {
	Stats() (persistence.ConnectionStats, error)
}

var (
	poolStateInUse = metric.WithAttributes(attribute.String("state", "in_use"))
	poolStateIdle  = metric.WithAttributes(attribute.String("state", "idle"))
)

// RegisterPoolMetrics observes the connection pool on every collection
// cycle. The returned registration is released on Unregister.
func RegisterPoolMetrics(meter metric.Meter, source PoolStatsSource, logger *zap.Logger) (metric.Registration, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connections, err := meter.Int64ObservableGauge(MetricPoolConnections,
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	maxOpen, err := meter.Int64ObservableGauge(MetricPoolConnectionsMax,
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter(MetricPoolWaits,
		metric.WithDescription("Connections waited for since startup"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats, err := source.Stats()
		if err != nil {
			logger.Debug("pool stats unavailable", zap.Error(err))
			return nil
		}
		o.ObserveInt64(connections, int64(stats.InUse), poolStateInUse)
		o.ObserveInt64(connections, int64(stats.Idle), poolStateIdle)
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, connections, maxOpen, waits)
	if err != nil {
		return nil, fmt.Errorf("failed to register pool callback: %w", err)
	}
	return reg, nil
}
