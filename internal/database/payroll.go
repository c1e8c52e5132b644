package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createPayrollEntry = `
INSERT INTO payroll_entries (
	store_id, user_id, employee_name, period_start, period_end,
	base_salary, bonus, deductions, net_pay, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, store_id, user_id, employee_name, period_start, period_end,
	base_salary, bonus, deductions, net_pay, status, paid_at, created_at
`

type CreatePayrollEntryParams struct {
	StoreID      uuid.UUID
	UserID       pgtype.UUID
	EmployeeName string
	PeriodStart  pgtype.Date
	PeriodEnd    pgtype.Date
	BaseSalary   pgtype.Numeric
	Bonus        pgtype.Numeric
	Deductions   pgtype.Numeric
	NetPay       pgtype.Numeric
	Status       string
}

func (q *Queries) CreatePayrollEntry(ctx context.Context, arg CreatePayrollEntryParams) (PayrollEntry, error) {
	row := q.db.QueryRow(ctx, createPayrollEntry,
		arg.StoreID, arg.UserID, arg.EmployeeName, arg.PeriodStart, arg.PeriodEnd,
		arg.BaseSalary, arg.Bonus, arg.Deductions, arg.NetPay, arg.Status)
	var p PayrollEntry
	err := scanPayrollEntry(row, &p)
	return p, err
}

const getPayrollEntry = `
SELECT id, store_id, user_id, employee_name, period_start, period_end,
	base_salary, bonus, deductions, net_pay, status, paid_at, created_at
FROM payroll_entries
WHERE id = $1 AND store_id = $2
`

type GetPayrollEntryParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) GetPayrollEntry(ctx context.Context, arg GetPayrollEntryParams) (PayrollEntry, error) {
	row := q.db.QueryRow(ctx, getPayrollEntry, arg.ID, arg.StoreID)
	var p PayrollEntry
	err := scanPayrollEntry(row, &p)
	return p, err
}

const listPayrollEntries = `
SELECT id, store_id, user_id, employee_name, period_start, period_end,
	base_salary, bonus, deductions, net_pay, status, paid_at, created_at
FROM payroll_entries
WHERE store_id = $1
  AND ($2::text IS NULL OR status = $2)
ORDER BY period_end DESC, created_at DESC
LIMIT $3 OFFSET $4
`

type ListPayrollEntriesParams struct {
	StoreID uuid.UUID
	Status  pgtype.Text
	Limit   int32
	Offset  int32
}

func (q *Queries) ListPayrollEntries(ctx context.Context, arg ListPayrollEntriesParams) ([]PayrollEntry, error) {
	rows, err := q.db.Query(ctx, listPayrollEntries, arg.StoreID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PayrollEntry
	for rows.Next() {
		var p PayrollEntry
		if err := scanPayrollEntry(rows, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const markPayrollEntryPaid = `
UPDATE payroll_entries
SET status = 'paid', paid_at = now()
WHERE id = $1 AND store_id = $2 AND status = 'draft'
RETURNING id, store_id, user_id, employee_name, period_start, period_end,
	base_salary, bonus, deductions, net_pay, status, paid_at, created_at
`

type MarkPayrollEntryPaidParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) MarkPayrollEntryPaid(ctx context.Context, arg MarkPayrollEntryPaidParams) (PayrollEntry, error) {
	row := q.db.QueryRow(ctx, markPayrollEntryPaid, arg.ID, arg.StoreID)
	var p PayrollEntry
	err := scanPayrollEntry(row, &p)
	return p, err
}

const deletePayrollEntry = `
DELETE FROM payroll_entries
WHERE id = $1 AND store_id = $2 AND status = 'draft'
RETURNING id
`

type DeletePayrollEntryParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) DeletePayrollEntry(ctx context.Context, arg DeletePayrollEntryParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deletePayrollEntry, arg.ID, arg.StoreID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

func scanPayrollEntry(row scanner, p *PayrollEntry) error {
	return row.Scan(&p.ID, &p.StoreID, &p.UserID, &p.EmployeeName, &p.PeriodStart, &p.PeriodEnd,
		&p.BaseSalary, &p.Bonus, &p.Deductions, &p.NetPay, &p.Status, &p.PaidAt, &p.CreatedAt)
}
