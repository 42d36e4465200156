package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks spans of queries slower than this
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing registers otelgorm spans plus slow query and error annotations
type DBTracing struct {
	dbName        string
	slowThreshold time.Duration
	logger        *zap.Logger
	extraOptions  []otelgorm.Option
}

// DBTracingOption configures DBTracing
type DBTracingOption func(*DBTracing)

// WithSlowQueryThreshold overrides DefaultSlowQueryThreshold
func WithSlowQueryThreshold(d time.Duration) DBTracingOption {
	return func(t *DBTracing) {
		if d > 0 {
			t.slowThreshold = d
		}
	}
}

// WithTracerProvider points otelgorm at a specific provider instead of the global one
func WithTracerProvider(tp trace.TracerProvider) DBTracingOption {
	return func(t *DBTracing) {
		t.extraOptions = append(t.extraOptions, otelgorm.WithTracerProvider(tp))
	}
}

// NewDBTracing creates a tracing registrar for the named database system
func NewDBTracing(dbName string, logger *zap.Logger, opts ...DBTracingOption) *DBTracing {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &DBTracing{dbName: dbName, slowThreshold: DefaultSlowQueryThreshold, logger: logger}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register installs the otelgorm plugin and timing callbacks on db. The
// annotating callbacks run before otelgorm ends the span.
// Query variables are never attached to spans.
func (t *DBTracing) Register(db *gorm.DB) error {
	opts := append([]otelgorm.Option{
		otelgorm.WithDBName(t.dbName),
		otelgorm.WithoutQueryVariables(),
	}, t.extraOptions...)

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("storefront:before_create", markQueryStart) },
		func() error { return cb.Query().Before("gorm:query").Register("storefront:before_query", markQueryStart) },
		func() error { return cb.Update().Before("gorm:update").Register("storefront:before_update", markQueryStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("storefront:before_delete", markQueryStart) },
		func() error { return cb.Row().Before("gorm:row").Register("storefront:before_row", markQueryStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("storefront:before_raw", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Before("otel:after:create").Register("storefront:after_create", t.annotate) },
		func() error { return cb.Query().After("gorm:query").Before("otel:after:query").Register("storefront:after_query", t.annotate) },
		func() error { return cb.Update().After("gorm:update").Before("otel:after:update").Register("storefront:after_update", t.annotate) },
		func() error { return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("storefront:after_delete", t.annotate) },
		func() error { return cb.Row().After("gorm:row").Before("otel:after:row").Register("storefront:after_row", t.annotate) },
		func() error { return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("storefront:after_raw", t.annotate) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	t.logger.Info("Database tracing enabled",
		zap.String("db_system", t.dbName),
		zap.Duration("slow_query_threshold", t.slowThreshold))
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (t *DBTracing) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > t.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		t.logger.Warn("Slow query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed))
	}
}
