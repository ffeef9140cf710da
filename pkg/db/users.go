package db

import (
	"github.com/jackc/pgx/v5"
	"github.com/pglab/traffic-sandbox/pkg/types"
	"github.com/pkg/errors"
)

func (dbService *TrafficSandboxDBService) FetchAllUsers() ([]types.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	rows, err := dbService.Pool.Query(ctx, "SELECT id, name, email FROM users ORDER BY id")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, errors.WithStack(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return users, nil
}

func (dbService *TrafficSandboxDBService) FindUserByID(id int64) (types.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var u types.User
	err := dbService.Pool.QueryRow(ctx,
		"SELECT id, name, email FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, ErrNotFound
		}
		return u, errors.WithStack(err)
	}
	return u, nil
}

func (dbService *TrafficSandboxDBService) FetchOrdersForUser(userID int64) ([]types.Order, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	rows, err := dbService.Pool.Query(ctx,
		`SELECT id, user_id, status, total_cents, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	return scanOrders(rows)
}
