// Package query implements the Query Executor component: parameterized
// command execution against a relational backend, hiding dialect
// differences behind a configuration object (spec.md §2, §6).
package query

import (
	"context"
	"database/sql"
)

// Executor is the minimal backing-store contract consumed by every other
// component (spec.md §6). *sql.DB and *sql.Tx both satisfy it already, so
// components written against Executor don't need to know whether they are
// running inside the Request Dispatcher's transaction or (in tests)
// directly against the pool.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Tx)(nil)
)
