package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Store struct {
	ID        uuid.UUID
	Name      string
	Address   pgtype.Text
	CreatedAt time.Time
}

type User struct {
	ID             uuid.UUID
	StoreID        uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Setoran is one end-of-shift cash reconciliation. Derived fields are
// computed server-side at creation; rows are never updated afterwards.
type Setoran struct {
	ID               uuid.UUID
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
	CreatedAt        time.Time
}

type Attendance struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StoreID   uuid.UUID
	Date      pgtype.Date
	CheckIn   string
	CheckOut  pgtype.Text
	Note      pgtype.Text
	CreatedAt time.Time
}

type Sales struct {
	ID           uuid.UUID
	StoreID      uuid.UUID
	SetoranID    pgtype.UUID
	Date         pgtype.Date
	TotalSales   pgtype.Numeric
	Transactions int32
	AvgTicket    pgtype.Numeric
	CreatedAt    time.Time
}

type Cashflow struct {
	ID          uuid.UUID
	StoreID     uuid.UUID
	SetoranID   pgtype.UUID
	Category    string
	Amount      pgtype.Numeric
	Description string
	CreatedAt   time.Time
}

type Customer struct {
	ID        uuid.UUID
	StoreID   uuid.UUID
	Name      string
	Phone     pgtype.Text
	CreatedAt time.Time
}

type Receivable struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	StoreID     uuid.UUID
	Amount      pgtype.Numeric
	Paid        pgtype.Numeric
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PayrollEntry struct {
	ID           uuid.UUID
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
	PaidAt       pgtype.Timestamptz
	CreatedAt    time.Time
}

type Proposal struct {
	ID          uuid.UUID
	StoreID     uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description pgtype.Text
	Amount      pgtype.Numeric
	Status      string
	ReviewedBy  pgtype.UUID
	ReviewedAt  pgtype.Timestamptz
	CreatedAt   time.Time
}

type Overtime struct {
	ID        uuid.UUID
	StoreID   uuid.UUID
	UserID    uuid.UUID
	Date      pgtype.Date
	Hours     pgtype.Numeric
	Note      pgtype.Text
	CreatedAt time.Time
}
