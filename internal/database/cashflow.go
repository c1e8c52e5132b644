package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createCashflow = `
INSERT INTO cashflow (store_id, setoran_id, category, amount, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, store_id, setoran_id, category, amount, description, created_at
`

type CreateCashflowParams struct {
	StoreID     uuid.UUID
	SetoranID   pgtype.UUID
	Category    string
	Amount      pgtype.Numeric
	Description string
}

func (q *Queries) CreateCashflow(ctx context.Context, arg CreateCashflowParams) (Cashflow, error) {
	row := q.db.QueryRow(ctx, createCashflow,
		arg.StoreID, arg.SetoranID, arg.Category, arg.Amount, arg.Description)
	var c Cashflow
	err := row.Scan(&c.ID, &c.StoreID, &c.SetoranID, &c.Category, &c.Amount, &c.Description, &c.CreatedAt)
	return c, err
}

const listCashflow = `
SELECT id, store_id, setoran_id, category, amount, description, created_at
FROM cashflow
WHERE ($1::uuid IS NULL OR store_id = $1)
  AND ($2::text IS NULL OR category = $2)
  AND ($3::timestamptz IS NULL OR created_at >= $3)
  AND ($4::timestamptz IS NULL OR created_at < $4)
ORDER BY created_at DESC
LIMIT $5 OFFSET $6
`

type ListCashflowParams struct {
	StoreID   pgtype.UUID
	Category  pgtype.Text
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Limit     int32
	Offset    int32
}

func (q *Queries) ListCashflow(ctx context.Context, arg ListCashflowParams) ([]Cashflow, error) {
	rows, err := q.db.Query(ctx, listCashflow,
		arg.StoreID, arg.Category, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Cashflow
	for rows.Next() {
		var c Cashflow
		if err := rows.Scan(&c.ID, &c.StoreID, &c.SetoranID, &c.Category, &c.Amount, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const sumCashflowByStore = `
SELECT
	COALESCE(SUM(amount) FILTER (WHERE category = 'Income'), 0),
	COALESCE(SUM(amount) FILTER (WHERE category = 'Expense'), 0)
FROM cashflow
WHERE store_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
`

type SumCashflowByStoreRow struct {
	TotalIncome  pgtype.Numeric
	TotalExpense pgtype.Numeric
}

func (q *Queries) SumCashflowByStore(ctx context.Context, storeID uuid.UUID, start, end pgtype.Timestamptz) (SumCashflowByStoreRow, error) {
	row := q.db.QueryRow(ctx, sumCashflowByStore, storeID, start, end)
	var r SumCashflowByStoreRow
	err := row.Scan(&r.TotalIncome, &r.TotalExpense)
	return r, err
}
