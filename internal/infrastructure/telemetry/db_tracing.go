package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures database spans
type DBTracingConfig struct {
	Enabled bool
	// DBName is reported as the db.name span attribute.
	DBName string
	// IncludeVariables puts bound values into db.statement. Development only.
	IncludeVariables bool
}

// RegisterDBTracing installs the otelgorm plugin and a callback that
// annotates each statement span with its table and row count
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	// Annotations register first so they run before otelgorm ends the span.
	cb := db.Callback()
	registrations := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
	}{
		{"scm:annotate_create", cb.Create().After("gorm:create").Register},
		{"scm:annotate_query", cb.Query().After("gorm:query").Register},
		{"scm:annotate_update", cb.Update().After("gorm:update").Register},
		{"scm:annotate_delete", cb.Delete().After("gorm:delete").Register},
		{"scm:annotate_row", cb.Row().After("gorm:row").Register},
		{"scm:annotate_raw", cb.Raw().After("gorm:raw").Register},
	}
	for _, r := range registrations {
		if err := r.register(r.name, annotateSpan); err != nil {
			return err
		}
	}
	return db.Use(otelgorm.NewPlugin(opts...))
}

// annotateSpan adds table and rows to the active span and marks statement
// failures other than a missing record
func annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
