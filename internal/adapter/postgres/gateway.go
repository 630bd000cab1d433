package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emslab/labadmin/internal/config"
)

// Gateway executes parameterized statements against the store. It is the only
// path repositories take to the database: every call binds its arguments
// through the driver (statement text never contains caller-supplied values),
// routes through an in-flight transaction when one is carried by the context,
// and releases its connection on every exit path via the pool.
//
// Three operation shapes are provided: Query (rows), Exec (affected-row
// count), and Scalar (exactly one value). Exec and Scalar bound themselves
// with the configured query timeout when the caller's context carries no
// deadline; Query leaves the deadline to the caller because the returned rows
// outlive the call.
type Gateway struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewGateway creates a Gateway over pool using cfg.QueryTimeout.
func NewGateway(pool *pgxpool.Pool, cfg config.DatabaseConfig) *Gateway {
	return &Gateway{pool: pool, timeout: cfg.QueryTimeout}
}

// Query executes a read statement and returns its rows. The caller must close
// them. Satisfies scany's pgxscan.Querier, so repositories can scan directly
// off the gateway.
func (g *Gateway) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := QuerierFromCtx(ctx, g.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// QueryRow executes a statement expected to return at most one row.
func (g *Gateway) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return QuerierFromCtx(ctx, g.pool).QueryRow(ctx, sql, args...)
}

// Exec executes a mutating statement and returns the number of rows affected.
func (g *Gateway) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	tag, err := QuerierFromCtx(ctx, g.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Scalar executes a statement expected to yield exactly one value and scans it
// into dest.
func (g *Gateway) Scalar(ctx context.Context, dest any, sql string, args ...any) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	if err := QuerierFromCtx(ctx, g.pool).QueryRow(ctx, sql, args...).Scan(dest); err != nil {
		return fmt.Errorf("scalar: %w", err)
	}
	return nil
}

// bound applies the configured timeout unless the context already has a deadline.
func (g *Gateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}
