package database

import (
	"context"
	"database/sql"
)

// Rows is the cursor returned by Query. *sql.Rows satisfies it as is.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Executor runs statements against a connection or a transaction.
// Exec reports the number of affected rows.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Tx is an open transaction.
type Tx interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a handle to one database. Driver packages provide the
// implementations and register them with Register.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

// SQLQuerier is the part of *sql.DB and *sql.Tx an Executor needs.
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// NewSQLExecutor adapts a database/sql handle to Executor.
func NewSQLExecutor(q SQLQuerier) Executor {
	return sqlExecutor{q: q}
}

type sqlExecutor struct {
	q SQLQuerier
}

func (e sqlExecutor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := e.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e sqlExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := e.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
