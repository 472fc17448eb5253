package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures database spans and slow statement accounting
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // bound variables in db.statement; never in production
	SlowQueryThresh time.Duration
	DBSystem        string
}

func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{SlowQueryThresh: 200 * time.Millisecond, DBSystem: "postgresql"}
}

// AttrTable labels slow statements by table
var AttrTable = attribute.Key("db.sql.table")

type statementStartKey struct{}

// DBTracingPlugin installs otelgorm and counts statements slower than the
// threshold per table and operation. Slow statements are logged by the
// GORM logger, not here.
type DBTracingPlugin struct {
	config DBTracingConfig
	slow   *Counter
	logger *zap.Logger
}

// NewDBTracingPlugin fills in defaults for a zero threshold or system. A
// nil meter leaves slow statements uncounted.
func NewDBTracingPlugin(cfg DBTracingConfig, meter metric.Meter, logger *zap.Logger) (*DBTracingPlugin, error) {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	p := &DBTracingPlugin{config: cfg, logger: logger}
	if meter != nil {
		slow, err := NewCounter(meter, "db.client.slow_statements", "Statements slower than the configured threshold", "{statement}")
		if err != nil {
			return nil, err
		}
		p.slow = slow
	}
	return p, nil
}

// Register is a no-op when tracing is disabled
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("prophub:start_create", markStatementStart),
		cb.Query().Before("gorm:query").Register("prophub:start_query", markStatementStart),
		cb.Update().Before("gorm:update").Register("prophub:start_update", markStatementStart),
		cb.Delete().Before("gorm:delete").Register("prophub:start_delete", markStatementStart),
		cb.Raw().Before("gorm:raw").Register("prophub:start_raw", markStatementStart),
		cb.Create().After("gorm:create").Register("prophub:slow_create", p.observe("create")),
		cb.Query().After("gorm:query").Register("prophub:slow_query", p.observe("query")),
		cb.Update().After("gorm:update").Register("prophub:slow_update", p.observe("update")),
		cb.Delete().After("gorm:delete").Register("prophub:slow_delete", p.observe("delete")),
		cb.Raw().After("gorm:raw").Register("prophub:slow_raw", p.observe("raw")),
	); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markStatementStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, statementStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(statementStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if elapsed < p.config.SlowQueryThresh {
			return
		}

		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
		if p.slow != nil {
			p.slow.Inc(ctx, AttrOperation.String(op), AttrTable.String(db.Statement.Table))
		}
	}
}
