package db

import (
	"github.com/jackc/pgx/v5"
	"github.com/pglab/traffic-sandbox/pkg/types"
	"github.com/pkg/errors"
)

func (dbService *TrafficSandboxDBService) FetchAllProducts() ([]types.Product, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	rows, err := dbService.Pool.Query(ctx,
		"SELECT id, name, category, price_cents FROM products ORDER BY id")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	products := make([]types.Product, 0)
	for rows.Next() {
		var p types.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents); err != nil {
			return nil, errors.WithStack(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return products, nil
}

func (dbService *TrafficSandboxDBService) FetchRecentOrders(limit int) ([]types.Order, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	rows, err := dbService.Pool.Query(ctx,
		`SELECT id, user_id, status, total_cents, created_at
		 FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// LockOrderByID reads one order row while taking a row lock in the same
// statement. The lock is released immediately when the implicit transaction
// ends; the statement exists to exercise lock-aware explain collection.
func (dbService *TrafficSandboxDBService) LockOrderByID(id int64) (types.Order, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var o types.Order
	err := dbService.Pool.QueryRow(ctx,
		`SELECT id, user_id, status, total_cents, created_at
		 FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, ErrNotFound
		}
		return o, errors.WithStack(err)
	}
	return o, nil
}

func scanOrders(rows pgx.Rows) ([]types.Order, error) {
	orders := make([]types.Order, 0)
	for rows.Next() {
		var o types.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, errors.WithStack(err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return orders, nil
}
