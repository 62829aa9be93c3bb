// Package monitoring runs the health check, the performance and security
// summaries and the automatic observation recorder.
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Sentinel written to the cache by the health check
const (
	SentinelKey   = "health_check"
	SentinelValue = "ok"
	SentinelTTL   = 10 * time.Second
)

// DefaultProbeTimeout bounds each probe when no timeout is configured
const DefaultProbeTimeout = 5 * time.Second

// DatabasePinger runs a trivial round-trip query
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// CacheProbe writes a value with a TTL and reads it back
type CacheProbe interface {
	RoundTrip(ctx context.Context, key, value string, ttl time.Duration) (string, error)
}

// HostUsage is host resource utilization in percent
type HostUsage struct {
	CPU    float64
	Memory float64
	Disk   float64
}

// HostSampler samples host resource utilization
type HostSampler interface {
	Sample(ctx context.Context) (HostUsage, error)
}

// ComponentHealth is the verdict for one component
type ComponentHealth struct {
	Status       monitoring.Status `json:"status"`
	ResponseTime *float64          `json:"response_time,omitempty"`
	CPUUsage     *float64          `json:"cpu_usage,omitempty"`
	MemoryUsage  *float64          `json:"memory_usage,omitempty"`
	DiskUsage    *float64          `json:"disk_usage,omitempty"`
	Message      string            `json:"message,omitempty"`
	LastCheck    time.Time         `json:"last_check"`
}

// HealthReport is the result of one health check
type HealthReport struct {
	Timestamp     time.Time                  `json:"timestamp"`
	OverallStatus monitoring.Status          `json:"overall_status"`
	Components    map[string]ComponentHealth `json:"components"`
}

// Component keys of a HealthReport
const (
	KeyDatabase = "database"
	KeyRedis    = "redis"
	KeySystem   = "system"
)

// HealthService probes the database, the cache and the host
type HealthService struct {
	db      DatabasePinger
	cache   CacheProbe
	host    HostSampler
	records shared.Repository[monitoring.SystemHealth]
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// HealthOption configures a HealthService
type HealthOption func(*HealthService)

// WithHostSampler enables the system component
func WithHostSampler(host HostSampler) HealthOption {
	return func(s *HealthService) {
		s.host = host
	}
}

// WithHealthRecords appends every component result to repo
func WithHealthRecords(repo shared.Repository[monitoring.SystemHealth]) HealthOption {
	return func(s *HealthService) {
		s.records = repo
	}
}

// WithProbeTimeout bounds each probe
func WithProbeTimeout(d time.Duration) HealthOption {
	return func(s *HealthService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHealthLogger sets the logger for record failures
func WithHealthLogger(logger *zap.Logger) HealthOption {
	return func(s *HealthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHealthService creates a HealthService
func NewHealthService(db DatabasePinger, cache CacheProbe, opts ...HealthOption) *HealthService {
	s := &HealthService{
		db:      db,
		cache:   cache,
		timeout: DefaultProbeTimeout,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check probes every component. Dependency failures become component
// statuses; Check itself does not fail.
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Timestamp:  s.now(),
		Components: make(map[string]ComponentHealth, 3),
	}

	report.Components[KeyDatabase] = s.checkDatabase(ctx)
	report.Components[KeyRedis] = s.checkCache(ctx)
	report.Components[KeySystem] = s.checkSystem(ctx)

	statuses := make([]monitoring.Status, 0, len(report.Components))
	for _, c := range report.Components {
		statuses = append(statuses, c.Status)
	}
	report.OverallStatus = monitoring.Worst(statuses...)

	s.record(ctx, report)
	return report
}

func (s *HealthService) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if s.db == nil {
		return ComponentHealth{Status: monitoring.StatusCritical, Message: "Database not configured", LastCheck: s.now()}
	}
	if err := s.db.Ping(ctx); err != nil {
		return ComponentHealth{Status: monitoring.StatusCritical, Message: err.Error(), LastCheck: s.now()}
	}
	elapsed := millis(time.Since(start))
	return ComponentHealth{Status: monitoring.StatusHealthy, ResponseTime: &elapsed, LastCheck: s.now()}
}

func (s *HealthService) checkCache(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.cache == nil {
		return ComponentHealth{Status: monitoring.StatusCritical, Message: "Cache not configured", LastCheck: s.now()}
	}
	start := time.Now()
	got, err := s.cache.RoundTrip(ctx, SentinelKey, SentinelValue, SentinelTTL)
	if err != nil {
		return ComponentHealth{Status: monitoring.StatusCritical, Message: err.Error(), LastCheck: s.now()}
	}
	elapsed := millis(time.Since(start))
	if got != SentinelValue {
		return ComponentHealth{
			Status:       monitoring.StatusWarning,
			ResponseTime: &elapsed,
			Message:      "Sentinel read back a different value",
			LastCheck:    s.now(),
		}
	}
	return ComponentHealth{Status: monitoring.StatusHealthy, ResponseTime: &elapsed, LastCheck: s.now()}
}

func (s *HealthService) checkSystem(ctx context.Context) ComponentHealth {
	if s.host == nil {
		return ComponentHealth{
			Status:    monitoring.StatusWarning,
			Message:   "Host metrics collector not available",
			LastCheck: s.now(),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	usage, err := s.host.Sample(ctx)
	if err != nil {
		return ComponentHealth{Status: monitoring.StatusWarning, Message: err.Error(), LastCheck: s.now()}
	}
	cpu, mem, disk := round2(usage.CPU), round2(usage.Memory), round2(usage.Disk)
	return ComponentHealth{
		Status:      monitoring.UsageStatus(usage.CPU, usage.Memory, usage.Disk),
		CPUUsage:    &cpu,
		MemoryUsage: &mem,
		DiskUsage:   &disk,
		LastCheck:   s.now(),
	}
}

var recordedComponents = map[string]monitoring.Component{
	KeyDatabase: monitoring.ComponentDatabase,
	KeyRedis:    monitoring.ComponentRedis,
	KeySystem:   monitoring.ComponentAPI,
}

// record appends one SystemHealth row per component. Failures are logged
// and never change the report.
func (s *HealthService) record(ctx context.Context, report *HealthReport) {
	if s.records == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for _, key := range []string{KeyDatabase, KeyRedis, KeySystem} {
		c := report.Components[key]
		row := &monitoring.SystemHealth{
			BaseEntity:   shared.NewBaseEntity(),
			Component:    recordedComponents[key],
			Status:       c.Status,
			ErrorMessage: c.Message,
			LastCheck:    c.LastCheck,
		}
		if c.ResponseTime != nil {
			rt := decimal.NewFromFloat(*c.ResponseTime)
			row.ResponseTime = &rt
		}
		if c.CPUUsage != nil {
			row.Metadata, _ = json.Marshal(map[string]float64{
				"cpu_usage":    *c.CPUUsage,
				"memory_usage": *c.MemoryUsage,
				"disk_usage":   *c.DiskUsage,
			})
		}
		if err := s.records.Create(ctx, row); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("Failed to record system health", zap.Error(err))
	}
}

func millis(d time.Duration) float64 {
	return round2(float64(d.Microseconds()) / 1000)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
