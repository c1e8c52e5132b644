package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOvertime = `
INSERT INTO overtime (store_id, user_id, date, hours, note)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, store_id, user_id, date, hours, note, created_at
`

type CreateOvertimeParams struct {
	StoreID uuid.UUID
	UserID  uuid.UUID
	Date    pgtype.Date
	Hours   pgtype.Numeric
	Note    pgtype.Text
}

func (q *Queries) CreateOvertime(ctx context.Context, arg CreateOvertimeParams) (Overtime, error) {
	row := q.db.QueryRow(ctx, createOvertime,
		arg.StoreID, arg.UserID, arg.Date, arg.Hours, arg.Note)
	var o Overtime
	err := row.Scan(&o.ID, &o.StoreID, &o.UserID, &o.Date, &o.Hours, &o.Note, &o.CreatedAt)
	return o, err
}

const listOvertimeByStore = `
SELECT id, store_id, user_id, date, hours, note, created_at
FROM overtime
WHERE store_id = $1
  AND ($2::uuid IS NULL OR user_id = $2)
  AND ($3::date IS NULL OR date >= $3)
  AND ($4::date IS NULL OR date <= $4)
ORDER BY date DESC, created_at DESC
LIMIT $5 OFFSET $6
`

type ListOvertimeByStoreParams struct {
	StoreID   uuid.UUID
	UserID    pgtype.UUID
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
	Offset    int32
}

func (q *Queries) ListOvertimeByStore(ctx context.Context, arg ListOvertimeByStoreParams) ([]Overtime, error) {
	rows, err := q.db.Query(ctx, listOvertimeByStore,
		arg.StoreID, arg.UserID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Overtime
	for rows.Next() {
		var o Overtime
		if err := rows.Scan(&o.ID, &o.StoreID, &o.UserID, &o.Date, &o.Hours, &o.Note, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}
