package database

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// QueryLoggerConfig configures query tracing behavior.
type QueryLoggerConfig struct {
	// SlowQueryThreshold is the duration above which queries are logged
	// at WARN level.
	SlowQueryThreshold time.Duration

	// VerySlowQueryThreshold is the duration above which queries are
	// logged at ERROR level.
	VerySlowQueryThreshold time.Duration

	// LogAllQueries logs every query at DEBUG level. The conversation
	// log issues few, small queries, so this is safe in development.
	LogAllQueries bool
}

// DefaultQueryLoggerConfig returns sensible defaults for query tracing.
func DefaultQueryLoggerConfig() *QueryLoggerConfig {
	return &QueryLoggerConfig{
		SlowQueryThreshold:     100 * time.Millisecond,
		VerySlowQueryThreshold: 500 * time.Millisecond,
		LogAllQueries:          false,
	}
}

// QueryStats aggregates query timings since startup.
type QueryStats struct {
	totalQueries    int64
	slowQueries     int64
	verySlowQueries int64
	failedQueries   int64

	mu              sync.RWMutex
	totalDuration   time.Duration
	slowestQuery    string
	slowestDuration time.Duration
}

// QueryStatsSnapshot is a point-in-time copy of the query statistics.
type QueryStatsSnapshot struct {
	Total           int64
	Slow            int64
	VerySlow        int64
	Failed          int64
	AvgDuration     time.Duration
	SlowestQuery    string
	SlowestDuration time.Duration
}

// Snapshot returns a copy of the current statistics.
func (qs *QueryStats) Snapshot() QueryStatsSnapshot {
	snap := QueryStatsSnapshot{
		Total:    atomic.LoadInt64(&qs.totalQueries),
		Slow:     atomic.LoadInt64(&qs.slowQueries),
		VerySlow: atomic.LoadInt64(&qs.verySlowQueries),
		Failed:   atomic.LoadInt64(&qs.failedQueries),
	}

	qs.mu.RLock()
	if snap.Total > 0 {
		snap.AvgDuration = qs.totalDuration / time.Duration(snap.Total)
	}
	snap.SlowestQuery = qs.slowestQuery
	snap.SlowestDuration = qs.slowestDuration
	qs.mu.RUnlock()

	return snap
}

// QueryLogger implements pgx query tracing for the conversation log.
// Every query is timed; slow and failed queries are logged, and an
// optional hook feeds the per-operation metrics.
type QueryLogger struct {
	config  *QueryLoggerConfig
	logger  *zap.Logger
	stats   *QueryStats
	onQuery func(operation string, duration time.Duration, err error)
}

// NewQueryLogger creates a new query logger. A nil config uses defaults.
func NewQueryLogger(cfg *QueryLoggerConfig, logger *zap.Logger) *QueryLogger {
	if cfg == nil {
		cfg = DefaultQueryLoggerConfig()
	}
	return &QueryLogger{
		config: cfg,
		logger: logger.Named("query"),
		stats:  &QueryStats{},
	}
}

// SetOnQuery registers a callback invoked after every query, used to
// feed the metrics collector.
func (ql *QueryLogger) SetOnQuery(fn func(operation string, duration time.Duration, err error)) {
	ql.onQuery = fn
}

// Stats returns the query statistics.
func (ql *QueryLogger) Stats() *QueryStats {
	return ql.stats
}

// queryTraceData stores timing data across trace calls.
type queryTraceData struct {
	startTime time.Time
	sql       string
}

// ctxKey is the context key type for storing trace data.
type ctxKey struct{}

// TraceQueryStart implements pgx.QueryTracer.
func (ql *QueryLogger) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, ctxKey{}, &queryTraceData{
		startTime: time.Now(),
		sql:       data.SQL,
	})
}

// TraceQueryEnd implements pgx.QueryTracer.
func (ql *QueryLogger) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	traceData, ok := ctx.Value(ctxKey{}).(*queryTraceData)
	if !ok {
		return
	}

	duration := time.Since(traceData.startTime)
	atomic.AddInt64(&ql.stats.totalQueries, 1)

	ql.stats.mu.Lock()
	ql.stats.totalDuration += duration
	if duration > ql.stats.slowestDuration {
		ql.stats.slowestDuration = duration
		ql.stats.slowestQuery = truncateSQL(traceData.sql, 200)
	}
	ql.stats.mu.Unlock()

	if ql.onQuery != nil {
		ql.onQuery(operationOf(traceData.sql), duration, data.Err)
	}

	if data.Err != nil {
		atomic.AddInt64(&ql.stats.failedQueries, 1)
		ql.logger.Error("query failed",
			zap.String("sql", truncateSQL(traceData.sql, 500)),
			zap.Duration("duration", duration),
			zap.Error(data.Err),
		)
		return
	}

	switch {
	case duration >= ql.config.VerySlowQueryThreshold:
		atomic.AddInt64(&ql.stats.verySlowQueries, 1)
		atomic.AddInt64(&ql.stats.slowQueries, 1)
		ql.logger.Error("very slow query",
			zap.String("sql", truncateSQL(traceData.sql, 500)),
			zap.Duration("duration", duration),
			zap.Duration("threshold", ql.config.VerySlowQueryThreshold),
			zap.String("command_tag", data.CommandTag.String()),
		)
	case duration >= ql.config.SlowQueryThreshold:
		atomic.AddInt64(&ql.stats.slowQueries, 1)
		ql.logger.Warn("slow query",
			zap.String("sql", truncateSQL(traceData.sql, 500)),
			zap.Duration("duration", duration),
			zap.Duration("threshold", ql.config.SlowQueryThreshold),
			zap.String("command_tag", data.CommandTag.String()),
		)
	case ql.config.LogAllQueries:
		ql.logger.Debug("query executed",
			zap.String("sql", truncateSQL(traceData.sql, 200)),
			zap.Duration("duration", duration),
			zap.String("command_tag", data.CommandTag.String()),
		)
	}
}

// operationOf returns the leading SQL verb, lowercased, for metric
// labels ("insert", "select", ...).
func operationOf(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// truncateSQL truncates SQL to a maximum length for logging.
func truncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}
	return sql[:maxLen-3] + "..."
}

// LogStats logs current query statistics.
func (ql *QueryLogger) LogStats() {
	snap := ql.stats.Snapshot()
	ql.logger.Info("query statistics",
		zap.Int64("total_queries", snap.Total),
		zap.Int64("slow_queries", snap.Slow),
		zap.Int64("very_slow_queries", snap.VerySlow),
		zap.Int64("failed_queries", snap.Failed),
		zap.Duration("avg_duration", snap.AvgDuration),
		zap.String("slowest_query", snap.SlowestQuery),
		zap.Duration("slowest_duration", snap.SlowestDuration),
	)
}

// ResetStats resets the query statistics.
func (ql *QueryLogger) ResetStats() {
	atomic.StoreInt64(&ql.stats.totalQueries, 0)
	atomic.StoreInt64(&ql.stats.slowQueries, 0)
	atomic.StoreInt64(&ql.stats.verySlowQueries, 0)
	atomic.StoreInt64(&ql.stats.failedQueries, 0)

	ql.stats.mu.Lock()
	ql.stats.totalDuration = 0
	ql.stats.slowestQuery = ""
	ql.stats.slowestDuration = 0
	ql.stats.mu.Unlock()
}
