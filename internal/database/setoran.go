package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createSetoran = `
INSERT INTO setoran (
	store_id, submitted_by, employee_name, employee_id,
	jam_masuk, jam_keluar, nomor_awal, nomor_akhir, qris_setoran,
	total_liter, total_setoran, cash_setoran,
	total_pengeluaran, total_pemasukan, total_keseluruhan,
	expenses, income
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id, store_id, submitted_by, employee_name, employee_id,
	jam_masuk, jam_keluar, nomor_awal, nomor_akhir, qris_setoran,
	total_liter, total_setoran, cash_setoran,
	total_pengeluaran, total_pemasukan, total_keseluruhan,
	expenses, income, created_at
`

type CreateSetoranParams struct {
	StoreID          uuid.UUID
	SubmittedBy      uuid.UUID
	EmployeeName     string
	EmployeeID       pgtype.UUID
	JamMasuk         string
	JamKeluar        string
	NomorAwal        pgtype.Numeric
	NomorAkhir       pgtype.Numeric
	QrisSetoran      pgtype.Numeric
	TotalLiter       pgtype.Numeric
	TotalSetoran     pgtype.Numeric
	CashSetoran      pgtype.Numeric
	TotalPengeluaran pgtype.Numeric
	TotalPemasukan   pgtype.Numeric
	TotalKeseluruhan pgtype.Numeric
	Expenses         []byte
	Income           []byte
}

func (q *Queries) CreateSetoran(ctx context.Context, arg CreateSetoranParams) (Setoran, error) {
	row := q.db.QueryRow(ctx, createSetoran,
		arg.StoreID, arg.SubmittedBy, arg.EmployeeName, arg.EmployeeID,
		arg.JamMasuk, arg.JamKeluar, arg.NomorAwal, arg.NomorAkhir, arg.QrisSetoran,
		arg.TotalLiter, arg.TotalSetoran, arg.CashSetoran,
		arg.TotalPengeluaran, arg.TotalPemasukan, arg.TotalKeseluruhan,
		arg.Expenses, arg.Income,
	)
	var s Setoran
	err := scanSetoran(row, &s)
	return s, err
}

const getSetoran = `
SELECT id, store_id, submitted_by, employee_name, employee_id,
	jam_masuk, jam_keluar, nomor_awal, nomor_akhir, qris_setoran,
	total_liter, total_setoran, cash_setoran,
	total_pengeluaran, total_pemasukan, total_keseluruhan,
	expenses, income, created_at
FROM setoran
WHERE id = $1
`

func (q *Queries) GetSetoran(ctx context.Context, id uuid.UUID) (Setoran, error) {
	row := q.db.QueryRow(ctx, getSetoran, id)
	var s Setoran
	err := scanSetoran(row, &s)
	return s, err
}

const listSetoran = `
SELECT id, store_id, submitted_by, employee_name, employee_id,
	jam_masuk, jam_keluar, nomor_awal, nomor_akhir, qris_setoran,
	total_liter, total_setoran, cash_setoran,
	total_pengeluaran, total_pemasukan, total_keseluruhan,
	expenses, income, created_at
FROM setoran
WHERE ($1::uuid IS NULL OR store_id = $1)
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
ORDER BY created_at DESC
LIMIT $4 OFFSET $5
`

type ListSetoranParams struct {
	StoreID   pgtype.UUID
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Limit     int32
	Offset    int32
}

func (q *Queries) ListSetoran(ctx context.Context, arg ListSetoranParams) ([]Setoran, error) {
	rows, err := q.db.Query(ctx, listSetoran,
		arg.StoreID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Setoran
	for rows.Next() {
		var s Setoran
		if err := scanSetoran(rows, &s); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSetoran(row scanner, s *Setoran) error {
	return row.Scan(
		&s.ID, &s.StoreID, &s.SubmittedBy, &s.EmployeeName, &s.EmployeeID,
		&s.JamMasuk, &s.JamKeluar, &s.NomorAwal, &s.NomorAkhir, &s.QrisSetoran,
		&s.TotalLiter, &s.TotalSetoran, &s.CashSetoran,
		&s.TotalPengeluaran, &s.TotalPemasukan, &s.TotalKeseluruhan,
		&s.Expenses, &s.Income, &s.CreatedAt,
	)
}
