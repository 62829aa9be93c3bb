package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development signing secret; it is rejected in production.
const DefaultJWTSecret = "change-me-in-production"

// Config holds all application configuration
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Auth       AuthConfig
	Log        LogConfig
	Telemetry  TelemetryConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Monitoring MonitoringConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
	TrustedProxies  []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	AutoMigrate     bool
	SlowThreshold   time.Duration
	LogLevel        string // silent, error, warn, info
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port of the Redis server
func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// JWTConfig holds bearer token verification settings
type JWTConfig struct {
	Secret string
	Issuer string
}

// AuthConfig holds identity resolution settings
type AuthConfig struct {
	// AllowHeaderIdentity accepts X-User-ID when no token is present.
	AllowHeaderIdentity bool
	SkipPaths           []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool // mirror zap output to the collector
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// MonitoringConfig holds health check settings
type MonitoringConfig struct {
	ProbeTimeout  time.Duration
	RecordHealth  bool
	RecordSlowSQL bool
	HostMetrics   bool
	DiskPath      string
	DefaultWindow int // days
	AnalyticsDays int // days
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SCM_ prefix (e.g., SCM_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SCM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:  v.GetInt("http.max_header_bytes"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
			LogLevel:        v.GetString("database.log_level"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Auth: AuthConfig{
			AllowHeaderIdentity: v.GetBool("auth.allow_header_identity"),
			SkipPaths:           v.GetStringSlice("auth.skip_paths"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("ratelimit.enabled"),
			Requests: v.GetInt("ratelimit.requests"),
			Window:   v.GetDuration("ratelimit.window"),
		},
		CORS: CORSConfig{
			AllowOrigins:     v.GetStringSlice("cors.allow_origins"),
			AllowMethods:     v.GetStringSlice("cors.allow_methods"),
			AllowHeaders:     v.GetStringSlice("cors.allow_headers"),
			AllowCredentials: v.GetBool("cors.allow_credentials"),
			MaxAge:           v.GetDuration("cors.max_age"),
		},
		Monitoring: MonitoringConfig{
			ProbeTimeout:  v.GetDuration("monitoring.probe_timeout"),
			RecordHealth:  v.GetBool("monitoring.record_health"),
			RecordSlowSQL: v.GetBool("monitoring.record_slow_sql"),
			HostMetrics:   v.GetBool("monitoring.host_metrics"),
			DiskPath:      v.GetString("monitoring.disk_path"),
			DefaultWindow: v.GetInt("monitoring.default_window"),
			AnalyticsDays: v.GetInt("monitoring.analytics_days"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers built-in defaults so env vars and file values
// override them key by key
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"app.name": "supplychain-backend",
		"app.env":  "development",
		"app.port": "8080",

		"http.read_timeout":     15 * time.Second,
		"http.write_timeout":    15 * time.Second,
		"http.idle_timeout":     60 * time.Second,
		"http.shutdown_timeout": 30 * time.Second,
		"http.max_header_bytes": 1 << 20,
		"http.max_body_size":    10 << 20,

		"database.driver":             "postgres",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.dbname":             "supplychain",
		"database.sslmode":            "disable",
		"database.path":               "supplychain.db",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  60,
		"database.conn_max_idle_time": 30,
		"database.slow_threshold":     200 * time.Millisecond,
		"database.log_level":          "warn",

		"redis.host": "localhost",
		"redis.port": 6379,

		"jwt.secret": DefaultJWTSecret,
		"jwt.issuer": "supplychain-identity",

		"auth.skip_paths": []string{"/health", "/api/v1/health"},

		"log.level":  "info",
		"log.format": "console",
		"log.output": "stdout",

		"telemetry.collector_endpoint": "localhost:4317",
		"telemetry.sampling_ratio":     1.0,
		"telemetry.service_name":       "supplychain-backend",
		"telemetry.metrics_interval":   time.Minute,

		"ratelimit.enabled":  true,
		"ratelimit.requests": 100,
		"ratelimit.window":   time.Minute,

		"cors.allow_methods": []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		"cors.allow_headers": []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-User-ID"},
		"cors.max_age":       12 * time.Hour,

		"monitoring.probe_timeout":   3 * time.Second,
		"monitoring.record_health":   true,
		"monitoring.record_slow_sql": true,
		"monitoring.host_metrics":    true,
		"monitoring.disk_path":       "/",
		"monitoring.default_window":  7,
		"monitoring.analytics_days":  30,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("ratelimit.requests and ratelimit.window must be positive when rate limiting is enabled")
	}
	if c.Monitoring.DefaultWindow <= 0 || c.Monitoring.AnalyticsDays <= 0 {
		return fmt.Errorf("monitoring.default_window and monitoring.analytics_days must be positive")
	}

	if c.App.IsProduction() {
		if c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret {
			return fmt.Errorf("jwt.secret must be set in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Auth.AllowHeaderIdentity {
			return fmt.Errorf("auth.allow_header_identity must be false in production")
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.CORS.AllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors.allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.MetricsEnabled && c.Telemetry.MetricsInterval <= 0 {
		return fmt.Errorf("telemetry.metrics_interval must be positive when metrics are enabled")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
