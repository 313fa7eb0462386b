// Package dbmetrics wraps *sql.DB so that every query is timed and the active
// transaction travels through context.Context.
package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const defaultPoolStatsInterval = 15 * time.Second

// DBExecutor is the query surface shared by *sql.DB, *sql.Tx and the wrappers below
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor is a DBExecutor bound to an open transaction
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// Observer receives query timings and pool statistics. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveDBQuery(operation string, duration time.Duration)
	SetDBPoolStats(open, inUse, idle int, waitCount int64)
}

// DB is an instrumented *sql.DB. A nil observer disables instrumentation.
type DB struct {
	db       *sql.DB
	observer Observer
}

// Wrap instruments db. observer may be nil.
func Wrap(db *sql.DB, observer Observer) *DB {
	return &DB{db: db, observer: observer}
}

// WrapWithDefault instruments db and starts the pool statistics collector until stop is closed
func WrapWithDefault(db *sql.DB, observer Observer, stop <-chan struct{}) *DB {
	wrapped := Wrap(db, observer)
	if observer != nil {
		go wrapped.collectPoolStats(defaultPoolStatsInterval, stop)
	}
	return wrapped
}

// ExecContext implements DBExecutor
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe(query, time.Now())
	return d.db.ExecContext(ctx, query, args...)
}

// QueryContext implements DBExecutor
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe(query, time.Now())
	return d.db.QueryContext(ctx, query, args...)
}

// QueryRowContext implements DBExecutor
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe(query, time.Now())
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx opens an instrumented transaction
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, observer: d.observer}, nil
}

func (d *DB) observe(query string, start time.Time) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveDBQuery(operationOf(query), time.Since(start))
}

func (d *DB) collectPoolStats(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s := d.db.Stats()
			d.observer.SetDBPoolStats(s.OpenConnections, s.InUse, s.Idle, s.WaitCount)
		}
	}
}

// Tx is an instrumented *sql.Tx
type Tx struct {
	tx       *sql.Tx
	observer Observer
}

// ExecContext implements DBExecutor
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer t.observe(query, time.Now())
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext implements DBExecutor
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer t.observe(query, time.Now())
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext implements DBExecutor
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer t.observe(query, time.Now())
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (t *Tx) observe(query string, start time.Time) {
	if t.observer == nil {
		return
	}
	t.observer.ObserveDBQuery(operationOf(query), time.Since(start))
}

// operationOf returns the leading SQL keyword in lower case ("select", "insert", ...)
func operationOf(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
