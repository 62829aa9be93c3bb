// Package monitoring holds the observation logs written by the running
// service and the curated optimization recommendations.
package monitoring

import (
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Observed carries the server-set time of an observation
type Observed struct {
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// StampCreate implements shared.CreateStamper
func (o *Observed) StampCreate(now time.Time) {
	o.Timestamp = now
}

func validIP(r *shared.Rules, field, ip string, required bool) *shared.Rules {
	if ip == "" {
		return r.Check(!required, field, "This field is required")
	}
	return r.Check(net.ParseIP(ip) != nil, field, "Enter a valid IPv4 or IPv6 address")
}

// MetricType is the measured quantity of a performance sample
type MetricType string

const (
	MetricResponseTime    MetricType = "RESPONSE_TIME"
	MetricThroughput      MetricType = "THROUGHPUT"
	MetricErrorRate       MetricType = "ERROR_RATE"
	MetricMemoryUsage     MetricType = "MEMORY_USAGE"
	MetricCPUUsage        MetricType = "CPU_USAGE"
	MetricDatabaseQueries MetricType = "DATABASE_QUERIES"
	MetricCacheHitRate    MetricType = "CACHE_HIT_RATE"
)

// PerformanceMetric is one sampled performance value
type PerformanceMetric struct {
	shared.BaseEntity
	MetricType MetricType      `gorm:"type:varchar(20);not null;index:idx_performance_metrics_type_time,priority:1" json:"metric_type" binding:"required,oneof=RESPONSE_TIME THROUGHPUT ERROR_RATE MEMORY_USAGE CPU_USAGE DATABASE_QUERIES CACHE_HIT_RATE"`
	Value      decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"value"`
	Unit       string          `gorm:"type:varchar(20);not null" json:"unit" binding:"required,max=20"`
	Endpoint   string          `gorm:"type:varchar(255);index:idx_performance_metrics_endpoint_time,priority:1" json:"endpoint" binding:"max=255"`
	Timestamp  time.Time       `gorm:"not null;index:idx_performance_metrics_type_time,priority:2;index:idx_performance_metrics_endpoint_time,priority:2" json:"timestamp"`
	Metadata   datatypes.JSON  `json:"metadata"`
}

// TableName returns the table name for GORM
func (PerformanceMetric) TableName() string {
	return "performance_metrics"
}

// StampCreate implements shared.CreateStamper
func (m *PerformanceMetric) StampCreate(now time.Time) {
	m.Timestamp = now
}

// Inherit implements shared.Inheritor
func (m *PerformanceMetric) Inherit(prev *PerformanceMetric) {
	m.Timestamp = prev.Timestamp
}

// Validate implements shared.Validatable
func (m *PerformanceMetric) Validate() error {
	return shared.NewRules().JSON("metadata", m.Metadata, false).Err()
}

// EventType is the kind of security event
type EventType string

const (
	EventLogin            EventType = "LOGIN"
	EventLogout           EventType = "LOGOUT"
	EventAuthFailure      EventType = "AUTH_FAILURE"
	EventPermissionDenied EventType = "PERMISSION_DENIED"
	EventAPIAccess        EventType = "API_ACCESS"
	EventDataAccess       EventType = "DATA_ACCESS"
	EventConfigChange     EventType = "CONFIG_CHANGE"
	EventSecurityAlert    EventType = "SECURITY_ALERT"
)

// Severity ranks a security event or recommendation
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// SecurityEvent is an audit record of security-relevant activity
type SecurityEvent struct {
	shared.BaseEntity
	Observed
	EventType   EventType      `gorm:"type:varchar(30);not null;index" json:"event_type" binding:"required,oneof=LOGIN LOGOUT AUTH_FAILURE PERMISSION_DENIED API_ACCESS DATA_ACCESS CONFIG_CHANGE SECURITY_ALERT"`
	Severity    Severity       `gorm:"type:varchar(10);not null;index" json:"severity" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	UserID      *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
	Endpoint    string         `gorm:"type:varchar(255)" json:"endpoint" binding:"max=255"`
	Description string         `gorm:"type:text;not null" json:"description" binding:"required"`
	Metadata    datatypes.JSON `json:"metadata"`
}

// TableName returns the table name for GORM
func (SecurityEvent) TableName() string {
	return "security_events"
}

// Normalize implements shared.Normalizer
func (e *SecurityEvent) Normalize() {
	if e.Severity == "" {
		e.Severity = SeverityLow
	}
}

// Inherit implements shared.Inheritor
func (e *SecurityEvent) Inherit(prev *SecurityEvent) {
	e.Timestamp = prev.Timestamp
}

// Validate implements shared.Validatable
func (e *SecurityEvent) Validate() error {
	r := validIP(shared.NewRules(), "ip_address", e.IPAddress, false)
	return r.JSON("metadata", e.Metadata, false).Err()
}

// CacheType is the cache layer being measured
type CacheType string

const (
	CacheRedis    CacheType = "REDIS"
	CacheMemory   CacheType = "MEMORY"
	CacheDatabase CacheType = "DATABASE"
	CacheCDN      CacheType = "CDN"
)

// HitRate is hits/total as a percentage. ok is false when total is zero,
// in which case callers keep their existing rate.
func HitRate(hits, total int64) (rate decimal.Decimal, ok bool) {
	if total <= 0 {
		return decimal.Zero, false
	}
	return shared.Percent(hits, total), true
}

// CachePerformance is a cache effectiveness sample
type CachePerformance struct {
	shared.BaseEntity
	Observed
	CacheType           CacheType       `gorm:"type:varchar(20);not null;index" json:"cache_type" binding:"required,oneof=REDIS MEMORY DATABASE CDN"`
	HitCount            int64           `gorm:"not null;default:0" json:"hit_count" binding:"gte=0"`
	MissCount           int64           `gorm:"not null;default:0" json:"miss_count" binding:"gte=0"`
	TotalRequests       int64           `gorm:"not null;default:0" json:"total_requests" binding:"gte=0"`
	HitRate             decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hit_rate"`
	AverageResponseTime decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"average_response_time"`
}

// TableName returns the table name for GORM
func (CachePerformance) TableName() string {
	return "cache_performance"
}

// StampCreate implements shared.CreateStamper. hit_rate is never taken
// from the caller; without requests it starts at zero.
func (c *CachePerformance) StampCreate(now time.Time) {
	c.Timestamp = now
	c.HitRate = decimal.Zero
}

// Normalize implements shared.Normalizer
func (c *CachePerformance) Normalize() {
	if rate, ok := HitRate(c.HitCount, c.TotalRequests); ok {
		c.HitRate = rate
	}
}

// Inherit implements shared.Inheritor. Without requests the stored
// hit_rate is kept whatever the caller sent.
func (c *CachePerformance) Inherit(prev *CachePerformance) {
	c.Timestamp = prev.Timestamp
	c.HitRate = prev.HitRate
}

// Validate implements shared.Validatable
func (c *CachePerformance) Validate() error {
	return shared.NewRules().
		Between("hit_rate", c.HitRate, 0, 100).
		NonNegative("average_response_time", c.AverageResponseTime).
		Err()
}

// QueryType is the SQL verb family of a statement
type QueryType string

const (
	QuerySelect  QueryType = "SELECT"
	QueryInsert  QueryType = "INSERT"
	QueryUpdate  QueryType = "UPDATE"
	QueryDelete  QueryType = "DELETE"
	QueryComplex QueryType = "COMPLEX"
)

// DatabasePerformance is a measured database statement. ExecutionTime is
// in milliseconds.
type DatabasePerformance struct {
	shared.BaseEntity
	Observed
	QueryType     QueryType       `gorm:"type:varchar(20);not null;index" json:"query_type" binding:"required,oneof=SELECT INSERT UPDATE DELETE COMPLEX"`
	ExecutionTime decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"execution_time"`
	RowsAffected  int64           `gorm:"not null;default:0" json:"rows_affected" binding:"gte=0"`
	Table         string          `gorm:"column:table_name;type:varchar(100)" json:"table_name" binding:"max=100"`
	QueryHash     string          `gorm:"type:varchar(64);index" json:"query_hash" binding:"max=64"`
	SlowQuery     bool            `gorm:"not null;default:false;index" json:"slow_query"`
}

// TableName returns the table name for GORM
func (DatabasePerformance) TableName() string {
	return "database_performance"
}

// Inherit implements shared.Inheritor
func (d *DatabasePerformance) Inherit(prev *DatabasePerformance) {
	d.Timestamp = prev.Timestamp
}

// Validate implements shared.Validatable
func (d *DatabasePerformance) Validate() error {
	return shared.NewRules().NonNegative("execution_time", d.ExecutionTime).Err()
}

// LimitType is the scope a rate limit applies to
type LimitType string

const (
	LimitAPI      LimitType = "API_RATE_LIMIT"
	LimitUser     LimitType = "USER_RATE_LIMIT"
	LimitIP       LimitType = "IP_RATE_LIMIT"
	LimitEndpoint LimitType = "ENDPOINT_LIMIT"
)

// RateLimitLog records rate limiter activity for a client
type RateLimitLog struct {
	shared.BaseEntity
	Observed
	LimitType      LimitType  `gorm:"type:varchar(20);not null;index" json:"limit_type" binding:"required,oneof=API_RATE_LIMIT USER_RATE_LIMIT IP_RATE_LIMIT ENDPOINT_LIMIT"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	IPAddress      string     `gorm:"type:varchar(45);not null;index" json:"ip_address"`
	Endpoint       string     `gorm:"type:varchar(255)" json:"endpoint" binding:"max=255"`
	RequestCount   int        `gorm:"not null" json:"request_count" binding:"required,min=1"`
	LimitThreshold int        `gorm:"not null" json:"limit_threshold" binding:"gte=0"`
	PeriodSeconds  int        `gorm:"not null" json:"period_seconds" binding:"gte=0"`
	Blocked        bool       `gorm:"not null;default:false;index" json:"blocked"`
}

// TableName returns the table name for GORM
func (RateLimitLog) TableName() string {
	return "rate_limit_logs"
}

// Inherit implements shared.Inheritor
func (l *RateLimitLog) Inherit(prev *RateLimitLog) {
	l.Timestamp = prev.Timestamp
}

// Validate implements shared.Validatable
func (l *RateLimitLog) Validate() error {
	return validIP(shared.NewRules(), "ip_address", l.IPAddress, true).Err()
}
