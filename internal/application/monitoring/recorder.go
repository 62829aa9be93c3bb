package monitoring

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/monitoring"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RateLimitHit describes a request the rate limiter rejected
type RateLimitHit struct {
	IPAddress string
	UserID    *uuid.UUID
	Endpoint  string
	Count     int
	Threshold int
	Period    time.Duration
}

// AuthFailure describes a rejected bearer token
type AuthFailure struct {
	IPAddress string
	UserAgent string
	Endpoint  string
	Reason    string
}

// MaxPendingWrites caps the background writes a Recorder runs at once.
// Observations arriving while every slot is busy are dropped.
const MaxPendingWrites = 64

// Recorder appends observation rows on behalf of the running service.
// Writes happen in the background and never fail the caller.
type Recorder struct {
	rateLimits shared.Repository[monitoring.RateLimitLog]
	events     shared.Repository[monitoring.SecurityEvent]
	queries    shared.Repository[monitoring.DatabasePerformance]
	logger     *zap.Logger
	now        func() time.Time
	slots      chan struct{}
	wg         sync.WaitGroup
}

// NewRecorder creates a Recorder over the monitoring repositories
func NewRecorder(repos monitoring.Repositories, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		rateLimits: repos.RateLimitLogs,
		events:     repos.SecurityEvents,
		queries:    repos.DatabasePerformance,
		logger:     logger,
		now:        time.Now,
		slots:      make(chan struct{}, MaxPendingWrites),
	}
}

// RecordRateLimit appends a blocked IP_RATE_LIMIT row
func (r *Recorder) RecordRateLimit(ctx context.Context, hit RateLimitHit) {
	row := &monitoring.RateLimitLog{
		BaseEntity:     shared.NewBaseEntity(),
		Observed:       monitoring.Observed{Timestamp: r.now()},
		LimitType:      monitoring.LimitIP,
		UserID:         hit.UserID,
		IPAddress:      hit.IPAddress,
		Endpoint:       truncate(hit.Endpoint, 255),
		RequestCount:   max(hit.Count, 1),
		LimitThreshold: hit.Threshold,
		PeriodSeconds:  int(hit.Period / time.Second),
		Blocked:        true,
	}
	r.write(ctx, "rate_limit", func(ctx context.Context) error {
		return r.rateLimits.Create(ctx, row)
	})
}

// RecordAuthFailure appends a MEDIUM AUTH_FAILURE security event
func (r *Recorder) RecordAuthFailure(ctx context.Context, f AuthFailure) {
	description := "Authentication failed"
	if f.Reason != "" {
		description += ": " + f.Reason
	}
	row := &monitoring.SecurityEvent{
		BaseEntity:  shared.NewBaseEntity(),
		Observed:    monitoring.Observed{Timestamp: r.now()},
		EventType:   monitoring.EventAuthFailure,
		Severity:    monitoring.SeverityMedium,
		IPAddress:   f.IPAddress,
		UserAgent:   f.UserAgent,
		Endpoint:    truncate(f.Endpoint, 255),
		Description: description,
	}
	r.write(ctx, "auth_failure", func(ctx context.Context) error {
		return r.events.Create(ctx, row)
	})
}

// RecordSlowQuery appends a slow DatabasePerformance row for sql. It
// matches logger.SlowQueryFunc. Statements against the database_performance
// table are skipped so recording cannot feed itself.
func (r *Recorder) RecordSlowQuery(ctx context.Context, sql string, elapsed time.Duration, rows int64) {
	table := TableOf(sql)
	if table == "database_performance" {
		return
	}
	row := &monitoring.DatabasePerformance{
		BaseEntity:    shared.NewBaseEntity(),
		Observed:      monitoring.Observed{Timestamp: r.now()},
		QueryType:     QueryTypeOf(sql),
		ExecutionTime: decimal.NewFromInt(elapsed.Microseconds()).Div(decimal.NewFromInt(1000)).Round(4),
		RowsAffected:  max(rows, 0),
		Table:         truncate(table, 100),
		QueryHash:     HashQuery(sql),
		SlowQuery:     true,
	}
	r.write(ctx, "slow_query", func(ctx context.Context) error {
		return r.queries.Create(ctx, row)
	})
}

// Wait blocks until every pending write has finished
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) write(ctx context.Context, kind string, fn func(context.Context) error) {
	select {
	case r.slots <- struct{}{}:
	default:
		r.logger.Warn("Dropped observation, too many pending writes", zap.String("kind", kind))
		return
	}

	ctx = context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer func() {
			<-r.slots
			r.wg.Done()
		}()
		if err := fn(ctx); err != nil {
			r.logger.Warn("Failed to record observation", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

var (
	tableAfter  = regexp.MustCompile(`(?i)\b(?:FROM|INTO|UPDATE|JOIN)\s+["` + "`" + `]?([A-Za-z_][A-Za-z0-9_]*)`)
	leadingVerb = regexp.MustCompile(`^\s*([A-Za-z]+)`)
)

// QueryTypeOf classifies sql by its leading verb
func QueryTypeOf(sql string) monitoring.QueryType {
	m := leadingVerb.FindStringSubmatch(sql)
	if m == nil {
		return monitoring.QueryComplex
	}
	switch t := monitoring.QueryType(strings.ToUpper(m[1])); t {
	case monitoring.QuerySelect, monitoring.QueryInsert, monitoring.QueryUpdate, monitoring.QueryDelete:
		return t
	default:
		return monitoring.QueryComplex
	}
}

// TableOf returns the first table sql reads or writes, or "" when none is
// recognizable
func TableOf(sql string) string {
	m := tableAfter.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// HashQuery returns the hex SHA-256 of sql
func HashQuery(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(sum[:])
}

// truncate keeps the first n characters of s
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
