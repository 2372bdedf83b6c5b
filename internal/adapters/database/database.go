// Package database implements the domain repositories on PostgreSQL using
// the goqu query builder. Each adapter runs against a runner, which is either
// the pooled *sql.DB or a *sql.Tx handed out by the unit of work, so the same
// adapter code serves both transactional and standalone access.
package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

var dialect = goqu.Dialect("postgres")

// runner is the subset of database/sql shared by *sql.DB and *sql.Tx
type runner interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
