package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createSales = `
INSERT INTO sales (store_id, setoran_id, date, total_sales, transactions, avg_ticket)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, store_id, setoran_id, date, total_sales, transactions, avg_ticket, created_at
`

type CreateSalesParams struct {
	StoreID      uuid.UUID
	SetoranID    pgtype.UUID
	Date         pgtype.Date
	TotalSales   pgtype.Numeric
	Transactions int32
	AvgTicket    pgtype.Numeric
}

func (q *Queries) CreateSales(ctx context.Context, arg CreateSalesParams) (Sales, error) {
	row := q.db.QueryRow(ctx, createSales,
		arg.StoreID, arg.SetoranID, arg.Date, arg.TotalSales, arg.Transactions, arg.AvgTicket)
	var s Sales
	err := row.Scan(&s.ID, &s.StoreID, &s.SetoranID, &s.Date, &s.TotalSales, &s.Transactions, &s.AvgTicket, &s.CreatedAt)
	return s, err
}

const listSales = `
SELECT id, store_id, setoran_id, date, total_sales, transactions, avg_ticket, created_at
FROM sales
WHERE ($1::uuid IS NULL OR store_id = $1)
  AND ($2::date IS NULL OR date >= $2)
  AND ($3::date IS NULL OR date <= $3)
ORDER BY date DESC, created_at DESC
LIMIT $4 OFFSET $5
`

type ListSalesParams struct {
	StoreID   pgtype.UUID
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
	Offset    int32
}

func (q *Queries) ListSales(ctx context.Context, arg ListSalesParams) ([]Sales, error) {
	rows, err := q.db.Query(ctx, listSales,
		arg.StoreID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Sales
	for rows.Next() {
		var s Sales
		if err := rows.Scan(&s.ID, &s.StoreID, &s.SetoranID, &s.Date, &s.TotalSales, &s.Transactions, &s.AvgTicket, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const sumSalesByStoreAndDate = `
SELECT COALESCE(SUM(total_sales), 0), COALESCE(SUM(transactions), 0)
FROM sales
WHERE store_id = $1 AND date = $2
`

type SumSalesByStoreAndDateRow struct {
	TotalSales   pgtype.Numeric
	Transactions int64
}

func (q *Queries) SumSalesByStoreAndDate(ctx context.Context, storeID uuid.UUID, date pgtype.Date) (SumSalesByStoreAndDateRow, error) {
	row := q.db.QueryRow(ctx, sumSalesByStoreAndDate, storeID, date)
	var r SumSalesByStoreAndDateRow
	err := row.Scan(&r.TotalSales, &r.Transactions)
	return r, err
}
