package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leporo/sqlf"
)

// NewPool creates and pings a new pgx connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// querier is implemented by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// queryAll runs q and calls each after every row is scanned into q's destinations.
func queryAll(ctx context.Context, db querier, q *sqlf.Stmt, each func()) error {
	defer q.Close()
	rows, err := db.Query(ctx, q.String(), q.Args()...)
	if err != nil {
		return err
	}
	defer rows.Close()

	dest := q.Dest()
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		each()
	}
	return rows.Err()
}

// queryOne scans a single row into q's destinations. pgx.ErrNoRows is returned as is.
func queryOne(ctx context.Context, db querier, q *sqlf.Stmt) error {
	defer q.Close()
	return db.QueryRow(ctx, q.String(), q.Args()...).Scan(q.Dest()...)
}

// execOne runs q and reports an error when no row was affected.
func execOne(ctx context.Context, db querier, q *sqlf.Stmt, what string) error {
	defer q.Close()
	ct, err := db.Exec(ctx, q.String(), q.Args()...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s: no rows affected", what)
	}
	return nil
}
