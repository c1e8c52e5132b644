package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createAttendance = `
INSERT INTO attendance (user_id, store_id, date, check_in, check_out, note)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, store_id, date, check_in, check_out, note, created_at
`

type CreateAttendanceParams struct {
	UserID   uuid.UUID
	StoreID  uuid.UUID
	Date     pgtype.Date
	CheckIn  string
	CheckOut pgtype.Text
	Note     pgtype.Text
}

func (q *Queries) CreateAttendance(ctx context.Context, arg CreateAttendanceParams) (Attendance, error) {
	row := q.db.QueryRow(ctx, createAttendance,
		arg.UserID, arg.StoreID, arg.Date, arg.CheckIn, arg.CheckOut, arg.Note)
	var a Attendance
	err := row.Scan(&a.ID, &a.UserID, &a.StoreID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Note, &a.CreatedAt)
	return a, err
}

const listAttendance = `
SELECT id, user_id, store_id, date, check_in, check_out, note, created_at
FROM attendance
WHERE ($1::uuid IS NULL OR store_id = $1)
  AND ($2::uuid IS NULL OR user_id = $2)
  AND ($3::date IS NULL OR date >= $3)
  AND ($4::date IS NULL OR date <= $4)
ORDER BY date DESC, created_at DESC
LIMIT $5 OFFSET $6
`

type ListAttendanceParams struct {
	StoreID   pgtype.UUID
	UserID    pgtype.UUID
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
	Offset    int32
}

func (q *Queries) ListAttendance(ctx context.Context, arg ListAttendanceParams) ([]Attendance, error) {
	rows, err := q.db.Query(ctx, listAttendance,
		arg.StoreID, arg.UserID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.UserID, &a.StoreID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
