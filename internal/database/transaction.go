package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "github.com/infinitydev4/reenove-sub000/internal/errors"
)

// TxManager runs conversation log writes transactionally. A turn can
// append several entries (user message, photo analysis, reply) that
// must land together or not at all.
type TxManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) *TxManager {
	return &TxManager{
		pool:   pool,
		logger: logger,
	}
}

// TxFunc runs within a transaction. A returned error rolls the
// transaction back; nil commits it.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// WithTransaction executes fn within a transaction.
func (tm *TxManager) WithTransaction(ctx context.Context, fn TxFunc) error {
	return tm.withOptions(ctx, pgx.TxOptions{}, fn)
}

// WithReadOnlyTransaction executes fn within a read-only transaction,
// giving consistent reads across multiple queries.
func (tm *TxManager) WithReadOnlyTransaction(ctx context.Context, fn TxFunc) error {
	return tm.withOptions(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (tm *TxManager) withOptions(ctx context.Context, opts pgx.TxOptions, fn TxFunc) error {
	tx, err := tm.pool.BeginTx(ctx, opts)
	if err != nil {
		return apperrors.DatabaseError("tx.Begin", err)
	}

	// No-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Error("failed to rollback transaction", zap.Error(err))
		}
	}()

	if err := fn(ctx, tx); err != nil {
		tm.logger.Debug("transaction rolling back", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.DatabaseError("tx.Commit", err)
	}

	return nil
}

// txContextKey is the context key for transactions.
type txContextKey struct{}

// ContextWithTx adds a transaction to the context so nested log calls
// join it instead of opening their own.
func ContextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext retrieves the transaction from the context, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// Querier is the query surface shared by pgx.Tx and *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...interface{}) pgx.Row
}

// GetQuerier returns the transaction from context if present, otherwise
// the pool.
func (tm *TxManager) GetQuerier(ctx context.Context) Querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return tm.pool
}
