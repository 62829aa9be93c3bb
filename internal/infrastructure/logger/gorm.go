package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold applies when no threshold is configured
const DefaultSlowThreshold = 200 * time.Millisecond

// SlowQueryFunc observes statements that exceeded the slow threshold
type SlowQueryFunc func(ctx context.Context, sql string, elapsed time.Duration, rows int64)

// GormLogger writes GORM statements and messages to zap. Slow statements
// are also handed to an optional hook so they can be persisted.
type GormLogger struct {
	logger         *zap.Logger
	logLevel       gormlogger.LogLevel
	slowThreshold  time.Duration
	ignoreNotFound bool
	onSlow         SlowQueryFunc
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is slow.
// Zero disables slow detection.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// WithIgnoreRecordNotFoundError drops gorm.ErrRecordNotFound from error logs
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) {
		l.ignoreNotFound = ignore
	}
}

// WithSlowQueryHook registers fn to run for every slow statement,
// independent of the log level.
func WithSlowQueryHook(fn SlowQueryFunc) GormLoggerOption {
	return func(l *GormLogger) {
		l.onSlow = fn
	}
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:         zapLogger.Named("gorm"),
		logLevel:       level,
		slowThreshold:  DefaultSlowThreshold,
		ignoreNotFound: true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []any) {
	if l.logLevel < min {
		return
	}
	if ce := l.logger.Check(level, fmt.Sprintf(msg, data...)); ce != nil {
		ce.Write(contextFields(ctx)...)
	}
}

// statementKind is how a traced statement is reported
type statementKind int

const (
	statementOK statementKind = iota
	statementSlow
	statementFailed
)

func (l *GormLogger) classify(elapsed time.Duration, err error) statementKind {
	switch {
	case err != nil:
		return statementFailed
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		return statementSlow
	default:
		return statementOK
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	kind := l.classify(elapsed, err)
	hook := kind == statementSlow && l.onSlow != nil

	if l.logLevel <= gormlogger.Silent && !hook {
		return
	}

	sql, rows := fc()
	if hook {
		l.onSlow(ctx, sql, elapsed, rows)
	}

	fields := append(contextFields(ctx),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	)

	switch kind {
	case statementFailed:
		if l.logLevel < gormlogger.Error || (l.ignoreNotFound && errors.Is(err, gormlogger.ErrRecordNotFound)) {
			return
		}
		l.logger.Error("sql failed", append(fields, zap.Error(err))...)
	case statementSlow:
		if l.logLevel >= gormlogger.Warn {
			l.logger.Warn("slow sql", append(fields, zap.Duration("threshold", l.slowThreshold))...)
		}
	default:
		if l.logLevel >= gormlogger.Info {
			l.logger.Debug("sql", fields...)
		}
	}
}

func contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if userID := GetUserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return fields
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// MapGormLogLevel maps a configured level name to a GORM log level,
// falling back to warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	if l, ok := gormLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return gormlogger.Warn
}
