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

// DBTracing registers otelgorm on a GORM connection and annotates its
// spans with row counts, table names and slow-query markers
type DBTracing struct {
	dbName     string
	logFullSQL bool
	slow       time.Duration
	logger     *zap.Logger
}

// NewDBTracing creates the GORM tracing hooks. logFullSQL puts bound
// variables into span statements and belongs in development only.
func NewDBTracing(dbName string, logFullSQL bool, slow time.Duration, logger *zap.Logger) *DBTracing {
	if slow <= 0 {
		slow = DefaultSlowQueryThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracing{dbName: dbName, logFullSQL: logFullSQL, slow: slow, logger: logger}
}

// Register installs the plugin and callbacks
func (t *DBTracing) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(t.dbName)}
	if !t.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	type register func(name string, fn func(*gorm.DB)) error
	cb := db.Callback()
	hooks := []struct {
		name          string
		before, after register
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("rq_trace:before_"+h.name, markQueryStart); err != nil {
			return err
		}
		if err := h.after("rq_trace:after_"+h.name, t.annotate); err != nil {
			return err
		}
	}

	t.logger.Info("Database tracing enabled",
		zap.String("db", t.dbName),
		zap.Bool("log_full_sql", t.logFullSQL),
		zap.Duration("slow_query_threshold", t.slow))
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

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > t.slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
