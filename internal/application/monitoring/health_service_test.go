package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/tests/testutil"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type blockingPinger struct{}

func (blockingPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type fakeCache struct {
	readBack string
	err      error
	keys     []string
}

func (c *fakeCache) RoundTrip(_ context.Context, key, value string, ttl time.Duration) (string, error) {
	c.keys = append(c.keys, key)
	if c.err != nil {
		return "", c.err
	}
	if c.readBack != "" {
		return c.readBack, nil
	}
	return value, nil
}

type fakeSampler struct {
	usage HostUsage
	err   error
}

func (s fakeSampler) Sample(context.Context) (HostUsage, error) { return s.usage, s.err }

var healthNow = time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)

func newHealthService(db DatabasePinger, cache CacheProbe, opts ...HealthOption) *HealthService {
	s := NewHealthService(db, cache, opts...)
	s.now = func() time.Time { return healthNow }
	return s
}

func TestHealthService_Check(t *testing.T) {
	ctx := context.Background()
	calm := fakeSampler{usage: HostUsage{CPU: 12.345, Memory: 40, Disk: 55.5}}

	t.Run("everything healthy", func(t *testing.T) {
		cache := &fakeCache{}
		report := newHealthService(fakePinger{}, cache, WithHostSampler(calm)).Check(ctx)

		assert.Equal(t, monitoring.StatusHealthy, report.OverallStatus)
		assert.Equal(t, healthNow, report.Timestamp)
		require.Len(t, report.Components, 3)
		assert.NotNil(t, report.Components[KeyDatabase].ResponseTime)
		assert.Equal(t, []string{SentinelKey}, cache.keys)

		system := report.Components[KeySystem]
		require.NotNil(t, system.CPUUsage)
		assert.Equal(t, 12.35, *system.CPUUsage)
		assert.Equal(t, 55.5, *system.DiskUsage)
	})

	t.Run("unreachable cache is critical while the database stays healthy", func(t *testing.T) {
		cache := &fakeCache{err: errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")}
		report := newHealthService(fakePinger{}, cache, WithHostSampler(calm)).Check(ctx)

		assert.Equal(t, monitoring.StatusCritical, report.OverallStatus)
		assert.Equal(t, monitoring.StatusHealthy, report.Components[KeyDatabase].Status)
		assert.Equal(t, monitoring.StatusCritical, report.Components[KeyRedis].Status)
		assert.Contains(t, report.Components[KeyRedis].Message, "connection refused")
	})

	t.Run("database failure is critical", func(t *testing.T) {
		report := newHealthService(fakePinger{err: errors.New("connection reset")}, &fakeCache{}, WithHostSampler(calm)).Check(ctx)

		db := report.Components[KeyDatabase]
		assert.Equal(t, monitoring.StatusCritical, db.Status)
		assert.Nil(t, db.ResponseTime)
		assert.Equal(t, "connection reset", db.Message)
		assert.Equal(t, monitoring.StatusCritical, report.OverallStatus)
	})

	t.Run("sentinel mismatch is a warning", func(t *testing.T) {
		report := newHealthService(fakePinger{}, &fakeCache{readBack: "stale"}, WithHostSampler(calm)).Check(ctx)

		assert.Equal(t, monitoring.StatusWarning, report.Components[KeyRedis].Status)
		assert.Equal(t, monitoring.StatusWarning, report.OverallStatus)
	})

	t.Run("missing sampler is a warning", func(t *testing.T) {
		report := newHealthService(fakePinger{}, &fakeCache{}).Check(ctx)

		system := report.Components[KeySystem]
		assert.Equal(t, monitoring.StatusWarning, system.Status)
		assert.Equal(t, "Host metrics collector not available", system.Message)
		assert.Nil(t, system.CPUUsage)
	})

	t.Run("hung database is cut off by the check timeout", func(t *testing.T) {
		svc := newHealthService(blockingPinger{}, &fakeCache{}, WithHostSampler(calm), WithProbeTimeout(20*time.Millisecond))

		start := time.Now()
		report := svc.Check(ctx)

		assert.Less(t, time.Since(start), 2*time.Second)
		db := report.Components[KeyDatabase]
		assert.Equal(t, monitoring.StatusCritical, db.Status)
		assert.Contains(t, db.Message, context.DeadlineExceeded.Error())
	})

	t.Run("unconfigured dependencies are critical", func(t *testing.T) {
		report := newHealthService(nil, nil, WithHostSampler(calm)).Check(ctx)

		assert.Equal(t, monitoring.StatusCritical, report.Components[KeyDatabase].Status)
		assert.Equal(t, monitoring.StatusCritical, report.Components[KeyRedis].Status)
	})
}

func TestHealthService_UsageThresholds(t *testing.T) {
	tests := []struct {
		name  string
		usage HostUsage
		want  monitoring.Status
	}{
		{"below warning", HostUsage{CPU: 79.99, Memory: 10, Disk: 10}, monitoring.StatusHealthy},
		{"memory at warning", HostUsage{CPU: 10, Memory: 85, Disk: 10}, monitoring.StatusWarning},
		{"disk at critical", HostUsage{CPU: 10, Memory: 85, Disk: 96}, monitoring.StatusCritical},
		{"sampler error", HostUsage{}, monitoring.StatusWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := fakeSampler{usage: tt.usage}
			if tt.name == "sampler error" {
				sampler.err = errors.New("no such file or directory")
			}
			report := newHealthService(fakePinger{}, &fakeCache{}, WithHostSampler(sampler)).Check(context.Background())
			assert.Equal(t, tt.want, report.Components[KeySystem].Status)
			assert.Equal(t, tt.want, report.OverallStatus)
		})
	}
}

func TestHealthService_RecordsComponents(t *testing.T) {
	db := testutil.NewSQLiteDB(t, persistence.Models()...)
	repo := persistence.NewMonitoringRepositories(db).SystemHealth
	sampler := fakeSampler{usage: HostUsage{CPU: 20, Memory: 30, Disk: 40}}

	svc := newHealthService(fakePinger{}, &fakeCache{err: errors.New("refused")},
		WithHostSampler(sampler), WithHealthRecords(repo))
	svc.Check(context.Background())

	rows, total, err := repo.FindAll(context.Background(), shared.DefaultFilter(), shared.Unscoped())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	byComponent := make(map[monitoring.Component]monitoring.SystemHealth, len(rows))
	for _, row := range rows {
		byComponent[row.Component] = row
	}

	assert.Equal(t, monitoring.StatusHealthy, byComponent[monitoring.ComponentDatabase].Status)
	assert.NotNil(t, byComponent[monitoring.ComponentDatabase].ResponseTime)

	redis := byComponent[monitoring.ComponentRedis]
	assert.Equal(t, monitoring.StatusCritical, redis.Status)
	assert.Equal(t, "refused", redis.ErrorMessage)

	var usage map[string]float64
	require.NoError(t, json.Unmarshal(byComponent[monitoring.ComponentAPI].Metadata, &usage))
	assert.Equal(t, 30.0, usage["memory_usage"])
}
