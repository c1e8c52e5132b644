package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createCustomer = `
INSERT INTO customers (store_id, name, phone)
VALUES ($1, $2, $3)
RETURNING id, store_id, name, phone, created_at
`

type CreateCustomerParams struct {
	StoreID uuid.UUID
	Name    string
	Phone   pgtype.Text
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer, arg.StoreID, arg.Name, arg.Phone)
	var c Customer
	err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.CreatedAt)
	return c, err
}

const getCustomer = `
SELECT id, store_id, name, phone, created_at
FROM customers
WHERE id = $1 AND store_id = $2
`

type GetCustomerParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) GetCustomer(ctx context.Context, arg GetCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomer, arg.ID, arg.StoreID)
	var c Customer
	err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.CreatedAt)
	return c, err
}

const listCustomersByStore = `
SELECT id, store_id, name, phone, created_at
FROM customers
WHERE store_id = $1
ORDER BY name
`

func (q *Queries) ListCustomersByStore(ctx context.Context, storeID uuid.UUID) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomersByStore, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const createReceivable = `
INSERT INTO receivables (customer_id, store_id, amount, paid, description, status)
VALUES ($1, $2, $3, 0, $4, $5)
RETURNING id, customer_id, store_id, amount, paid, description, status, created_at, updated_at
`

type CreateReceivableParams struct {
	CustomerID  uuid.UUID
	StoreID     uuid.UUID
	Amount      pgtype.Numeric
	Description string
	Status      string
}

func (q *Queries) CreateReceivable(ctx context.Context, arg CreateReceivableParams) (Receivable, error) {
	row := q.db.QueryRow(ctx, createReceivable,
		arg.CustomerID, arg.StoreID, arg.Amount, arg.Description, arg.Status)
	var r Receivable
	err := scanReceivable(row, &r)
	return r, err
}

const getReceivable = `
SELECT id, customer_id, store_id, amount, paid, description, status, created_at, updated_at
FROM receivables
WHERE id = $1 AND store_id = $2
`

type GetReceivableParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) GetReceivable(ctx context.Context, arg GetReceivableParams) (Receivable, error) {
	row := q.db.QueryRow(ctx, getReceivable, arg.ID, arg.StoreID)
	var r Receivable
	err := scanReceivable(row, &r)
	return r, err
}

const listReceivablesByStore = `
SELECT id, customer_id, store_id, amount, paid, description, status, created_at, updated_at
FROM receivables
WHERE store_id = $1
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC
`

type ListReceivablesByStoreParams struct {
	StoreID uuid.UUID
	Status  pgtype.Text
}

func (q *Queries) ListReceivablesByStore(ctx context.Context, arg ListReceivablesByStoreParams) ([]Receivable, error) {
	rows, err := q.db.Query(ctx, listReceivablesByStore, arg.StoreID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Receivable
	for rows.Next() {
		var r Receivable
		if err := scanReceivable(rows, &r); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const addReceivablePayment = `
UPDATE receivables
SET paid = paid + $3,
    status = CASE WHEN paid + $3 >= amount THEN 'paid' ELSE 'outstanding' END,
    updated_at = now()
WHERE id = $1 AND store_id = $2 AND status = 'outstanding'
RETURNING id, customer_id, store_id, amount, paid, description, status, created_at, updated_at
`

type AddReceivablePaymentParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
	Amount  pgtype.Numeric
}

func (q *Queries) AddReceivablePayment(ctx context.Context, arg AddReceivablePaymentParams) (Receivable, error) {
	row := q.db.QueryRow(ctx, addReceivablePayment, arg.ID, arg.StoreID, arg.Amount)
	var r Receivable
	err := scanReceivable(row, &r)
	return r, err
}

func scanReceivable(row scanner, r *Receivable) error {
	return row.Scan(&r.ID, &r.CustomerID, &r.StoreID, &r.Amount, &r.Paid, &r.Description, &r.Status, &r.CreatedAt, &r.UpdatedAt)
}
