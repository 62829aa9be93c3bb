package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func openTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func recordingSpan(t *testing.T) (context.Context, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "statement")
	t.Cleanup(func() { span.End() })
	return ctx, recorder
}

func attrs(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openTracedDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
	assert.Nil(t, db.Callback().Create().Get("scm:annotate_create"))
}

func TestRegisterDBTracing_Enabled(t *testing.T) {
	db := openTracedDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "supplychain"}, zap.NewNop()))
	assert.NotNil(t, db.Callback().Create().Get("scm:annotate_create"))
	assert.NotNil(t, db.Callback().Raw().Get("scm:annotate_raw"))

	assert.NoError(t, db.Create(&tracedRow{Name: "traced"}).Error)
}

func TestAnnotateSpan(t *testing.T) {
	db := openTracedDB(t)

	t.Run("table and rows", func(t *testing.T) {
		ctx, recorder := recordingSpan(t)
		stmt := db.WithContext(ctx).Session(&gorm.Session{})
		stmt.Statement.Table = "products"
		stmt.Statement.RowsAffected = 3

		annotateSpan(stmt)
		spans := recorder.Started()
		require.Len(t, spans, 1)
		spans[0].End()

		got := attrs(recorder.Ended()[0].Attributes())
		assert.Equal(t, "products", got["db.sql.table"].AsString())
		assert.Equal(t, int64(3), got["db.rows_affected"].AsInt64())
		assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
	})

	t.Run("statement error marks the span", func(t *testing.T) {
		ctx, recorder := recordingSpan(t)
		stmt := db.WithContext(ctx).Session(&gorm.Session{})
		stmt.Error = errors.New("deadlock detected")

		annotateSpan(stmt)
		recorder.Started()[0].End()

		ended := recorder.Ended()[0]
		assert.Equal(t, codes.Error, ended.Status().Code)
		assert.Equal(t, "deadlock detected", ended.Status().Description)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		ctx, recorder := recordingSpan(t)
		stmt := db.WithContext(ctx).Session(&gorm.Session{})
		stmt.Error = gorm.ErrRecordNotFound

		annotateSpan(stmt)
		recorder.Started()[0].End()

		assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
	})
}
