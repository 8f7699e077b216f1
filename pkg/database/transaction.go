package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTransaction:
//     Begin transaction from pool
//     Rollback if fn returns an error or panics
//     Commit otherwise
//
// TxManager builds on it so services can group repository calls without
// passing pgx.Tx around: the open tx rides on the context and repositories
// pick it up through Conn.

// Querier is what repositories need. Satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFunc is executed inside a transaction
type TxFunc func(pgx.Tx) error

// WithTransaction wraps fn in a transaction
// Auto rollback on error or panic, auto commit on success
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TxManager runs a unit of work atomically
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// ContextWithTx stores tx on ctx
func ContextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the tx opened by WithinTx, if any
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// Conn returns the transaction on ctx, falling back to the pool
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return pool
}

type poolTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager backed by pool
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &poolTxManager{pool: pool}
}

// WithinTx joins an outer transaction when one is already on ctx
func (m *poolTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}
	return WithTransaction(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ContextWithTx(ctx, tx))
	})
}

// NoopTxManager runs fn directly. Used by tests that mock repositories.
type NoopTxManager struct {
	Calls int
}

func (m *NoopTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}
