package generator

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConnSource adapts a pgx connection pool to the ConnSource interface.
// Each batch checks out one dedicated connection and returns it to the pool
// when done, so batches never share connection state.
type PgxConnSource struct {
	pool *pgxpool.Pool
}

func NewPgxConnSource(pool *pgxpool.Pool) *PgxConnSource {
	return &PgxConnSource{pool: pool}
}

func (s *PgxConnSource) Acquire(ctx context.Context) (Conn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: conn}, nil
}

type pgxConn struct {
	conn *pgxpool.Conn
}

func (c *pgxConn) RunQuery(ctx context.Context, sql string, simple bool, args ...interface{}) (int, error) {
	if simple {
		// exercise the simple query protocol alongside the default
		// extended one
		args = append([]interface{}{pgx.QueryExecModeSimpleProtocol}, args...)
	}

	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	rowCount := 0
	for rows.Next() {
		rowCount++
	}
	return rowCount, rows.Err()
}

func (c *pgxConn) Release() {
	c.conn.Release()
}
