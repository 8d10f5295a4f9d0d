// Package database manages the PostgreSQL pool backing the durable
// conversation log, with query tracing and transactional writes.
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/config"
	apperrors "github.com/infinitydev4/reenove-sub000/internal/errors"
)

// DB bundles the pool with the transaction manager and query tracer
// built on top of it.
type DB struct {
	Pool        *pgxpool.Pool
	TxManager   *TxManager
	QueryLogger *QueryLogger
	logger      *zap.Logger
}

// New creates a new database connection pool.
func New(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, apperrors.Wrap(err, "database.New", apperrors.CodeConfig, "invalid database configuration")
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MaxConnLifetime = cfg.ConnectionMaxLifetime
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	queryLogger := NewQueryLogger(nil, logger)
	poolConfig.ConnConfig.Tracer = queryLogger

	// Create connection pool
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperrors.DatabaseError("database.New", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.DatabaseError("database.Ping", err)
	}

	logger.Info("database connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Int("max_connections", cfg.MaxConnections),
	)

	db := &DB{
		Pool:        pool,
		QueryLogger: queryLogger,
		logger:      logger,
	}
	db.TxManager = NewTxManager(pool, logger)

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		db.logger.Info("database connection closed")
	}
}

// Ping checks database connectivity. Health endpoints call this.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Stats returns current pool statistics.
func (db *DB) Stats() *pgxpool.Stat {
	return db.Pool.Stat()
}
