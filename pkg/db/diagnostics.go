package db

import (
	"time"

	"github.com/pglab/traffic-sandbox/pkg/types"
	"github.com/pkg/errors"
)

// RunSlowQuery issues a deliberately slow statement and reports how long the
// round trip took. Used to give the monitoring agent a query worth explaining.
func (dbService *TrafficSandboxDBService) RunSlowQuery() (time.Duration, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	start := time.Now()
	var ignored string
	err := dbService.Pool.QueryRow(ctx,
		"SELECT pg_sleep(0.5)::text || count(*)::text FROM orders",
	).Scan(&ignored)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return time.Since(start), nil
}

// FetchRestrictedRecords queries a table the service role intentionally has
// no grant on. In a correctly provisioned sandbox this fails with a
// permission error, which is the point.
func (dbService *TrafficSandboxDBService) FetchRestrictedRecords() ([]types.RestrictedRecord, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	rows, err := dbService.Pool.Query(ctx, "SELECT id, secret FROM restricted_data")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	records := make([]types.RestrictedRecord, 0)
	for rows.Next() {
		var r types.RestrictedRecord
		if err := rows.Scan(&r.ID, &r.Secret); err != nil {
			return nil, errors.WithStack(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}
