package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createStore = `
INSERT INTO stores (name, address)
VALUES ($1, $2)
RETURNING id, name, address, created_at
`

type CreateStoreParams struct {
	Name    string
	Address pgtype.Text
}

func (q *Queries) CreateStore(ctx context.Context, arg CreateStoreParams) (Store, error) {
	row := q.db.QueryRow(ctx, createStore, arg.Name, arg.Address)
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt)
	return s, err
}

const getStore = `
SELECT id, name, address, created_at FROM stores WHERE id = $1
`

func (q *Queries) GetStore(ctx context.Context, id uuid.UUID) (Store, error) {
	row := q.db.QueryRow(ctx, getStore, id)
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt)
	return s, err
}

const listStores = `
SELECT id, name, address, created_at FROM stores ORDER BY name
`

func (q *Queries) ListStores(ctx context.Context) ([]Store, error) {
	rows, err := q.db.Query(ctx, listStores)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
