package setoran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the setoran service.
var (
	ErrEmployeeNameRequired = errors.New("employee_name is required")
	ErrJamMasukRequired     = errors.New("jam_masuk is required")
	ErrJamKeluarRequired    = errors.New("jam_keluar is required")
	ErrNomorAwalRequired    = errors.New("nomor_awal is required")
	ErrNomorAkhirRequired   = errors.New("nomor_akhir is required")
	ErrInvalidEmployeeID    = errors.New("invalid employee_id")
	ErrIncompleteItem       = errors.New("line item needs both a description and a positive amount")
	// ErrPostingFailed is returned only in strict mode, when a derived
	// write failed after the setoran record was already created.
	ErrPostingFailed = errors.New("derived record posting failed")
)

// Store defines the DB methods the setoran service needs.
// Satisfied by *database.Queries.
type Store interface {
	CreateSetoran(ctx context.Context, arg database.CreateSetoranParams) (database.Setoran, error)
	CreateAttendance(ctx context.Context, arg database.CreateAttendanceParams) (database.Attendance, error)
	CreateSales(ctx context.Context, arg database.CreateSalesParams) (database.Sales, error)
	CreateCashflow(ctx context.Context, arg database.CreateCashflowParams) (database.Cashflow, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// ItemInput is one expense/income row as submitted.
type ItemInput struct {
	Description string
	Amount      decimal.Decimal
}

// SubmitRequest is a setoran submission plus the authenticated submitter.
// Meter readings are pointers so an absent field is distinguishable from
// a legitimate zero reading.
type SubmitRequest struct {
	Submitter    Actor
	EmployeeName string
	EmployeeID   string // optional UUID of the employee the shift belongs to
	JamMasuk     string
	JamKeluar    string
	NomorAwal    *decimal.Decimal
	NomorAkhir   *decimal.Decimal
	QrisSetoran  decimal.Decimal
	Expenses     []ItemInput
	Income       []ItemInput
}

// SubmitResult is the created setoran plus whichever derived records
// were successfully posted. Nil/empty fields mean that branch failed or
// was not applicable; the setoran itself is always present.
type SubmitResult struct {
	Setoran    database.Setoran
	Attendance *database.Attendance
	Sales      *database.Sales
	Cashflow   []database.Cashflow
}

// Service implements the setoran submission pipeline: validate,
// recompute totals server-side, persist the setoran, then post the
// derived attendance/sales/cashflow records.
type Service struct {
	store          Store
	pricePerLiter  decimal.Decimal
	postingTimeout time.Duration
	// strict fails the whole request when a posting branch fails.
	// Default is best-effort: the setoran write alone decides success.
	strict bool
}

// NewService creates a setoran Service.
func NewService(store Store, pricePerLiter decimal.Decimal, postingTimeout time.Duration, strict bool) *Service {
	return &Service{
		store:          store,
		pricePerLiter:  pricePerLiter,
		postingTimeout: postingTimeout,
		strict:         strict,
	}
}

// Submit validates and persists one setoran submission.
//
// The setoran insert is the unit of success: if it fails nothing else is
// attempted and the error propagates. Once it succeeds, the three
// posting branches run in order (attendance, sales, cashflow), each
// fault-isolated and bounded by the posting timeout; their failures are
// logged and never fail the request unless strict mode is on.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	// --- Validate required scalars ---
	if req.EmployeeName == "" {
		return nil, ErrEmployeeNameRequired
	}
	if req.JamMasuk == "" {
		return nil, ErrJamMasukRequired
	}
	if req.JamKeluar == "" {
		return nil, ErrJamKeluarRequired
	}
	if req.NomorAwal == nil {
		return nil, ErrNomorAwalRequired
	}
	if req.NomorAkhir == nil {
		return nil, ErrNomorAkhirRequired
	}

	var employeeID *uuid.UUID
	if req.EmployeeID != "" {
		id, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, ErrInvalidEmployeeID
		}
		employeeID = &id
	}

	expenses := toLineItems(req.Expenses)
	income := toLineItems(req.Income)

	// --- Reject partially-filled line items outright ---
	if idx := IncompleteItems(expenses); len(idx) > 0 {
		return nil, fmt.Errorf("expenses[%d]: %w", idx[0], ErrIncompleteItem)
	}
	if idx := IncompleteItems(income); len(idx) > 0 {
		return nil, fmt.Errorf("income[%d]: %w", idx[0], ErrIncompleteItem)
	}

	// --- Recompute all totals server-side; client totals are never trusted ---
	calc := Calculate(CalcInput{
		StartMeter:    *req.NomorAwal,
		EndMeter:      *req.NomorAkhir,
		QrisAmount:    req.QrisSetoran,
		Expenses:      expenses,
		Income:        income,
		PricePerLiter: s.pricePerLiter,
	})

	expensesJSON, err := json.Marshal(calc.ValidExpenses)
	if err != nil {
		return nil, fmt.Errorf("marshal expenses: %w", err)
	}
	incomeJSON, err := json.Marshal(calc.ValidIncome)
	if err != nil {
		return nil, fmt.Errorf("marshal income: %w", err)
	}

	// --- Persist the setoran record (the unit of success) ---
	created, err := s.store.CreateSetoran(ctx, database.CreateSetoranParams{
		StoreID:          req.Submitter.StoreID,
		SubmittedBy:      req.Submitter.ID,
		EmployeeName:     req.EmployeeName,
		EmployeeID:       uuidPtrToPg(employeeID),
		JamMasuk:         req.JamMasuk,
		JamKeluar:        req.JamKeluar,
		NomorAwal:        decimalToNumeric(*req.NomorAwal),
		NomorAkhir:       decimalToNumeric(*req.NomorAkhir),
		QrisSetoran:      decimalToNumeric(req.QrisSetoran),
		TotalLiter:       decimalToNumeric(calc.TotalLiters),
		TotalSetoran:     decimalToNumeric(calc.GrossDeposit),
		CashSetoran:      decimalToNumeric(calc.CashPortion),
		TotalPengeluaran: decimalToNumeric(calc.TotalExpenses),
		TotalPemasukan:   decimalToNumeric(calc.TotalIncome),
		TotalKeseluruhan: decimalToNumeric(calc.NetTotal),
		Expenses:         expensesJSON,
		Income:           incomeJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create setoran: %w", err)
	}

	result := &SubmitResult{Setoran: created}

	// The setoran is durable; a client disconnect must not cancel the
	// derived writes. Each branch still gets its own deadline.
	postCtx := context.WithoutCancel(ctx)

	var branchErrs []error

	if err := s.postAttendance(postCtx, req, employeeID, created, result); err != nil {
		log.Printf("WARN: setoran %s: attendance posting: %v", created.ID, err)
		branchErrs = append(branchErrs, fmt.Errorf("attendance: %w", err))
	}
	if err := s.postSales(postCtx, calc, created, result); err != nil {
		log.Printf("WARN: setoran %s: sales posting: %v", created.ID, err)
		branchErrs = append(branchErrs, fmt.Errorf("sales: %w", err))
	}
	if errs := s.postCashflow(postCtx, calc, created, result); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("WARN: setoran %s: cashflow posting: %v", created.ID, e)
		}
		branchErrs = append(branchErrs, fmt.Errorf("cashflow: %w", errs[0]))
	}

	if s.strict && len(branchErrs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrPostingFailed, branchErrs[0])
	}

	return result, nil
}

// postAttendance creates the derived attendance record. Only attempted
// when both shift times and an employee id were supplied; the resolver
// decides whose record it becomes.
func (s *Service) postAttendance(ctx context.Context, req SubmitRequest, employeeID *uuid.UUID, created database.Setoran, result *SubmitResult) error {
	if req.JamMasuk == "" || req.JamKeluar == "" || employeeID == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.postingTimeout)
	defer cancel()

	target, err := ResolveAttendanceTarget(ctx, s.store, req.Submitter, employeeID)
	if err != nil {
		return err
	}

	att, err := s.store.CreateAttendance(ctx, database.CreateAttendanceParams{
		UserID:   target.UserID,
		StoreID:  target.StoreID,
		Date:     pgtype.Date{Time: created.CreatedAt, Valid: true},
		CheckIn:  req.JamMasuk,
		CheckOut: pgtype.Text{String: req.JamKeluar, Valid: true},
		Note:     pgtype.Text{String: fmt.Sprintf("setoran %s", created.ID), Valid: true},
	})
	if err != nil {
		return err
	}
	result.Attendance = &att
	return nil
}

// postSales summarizes the shift's deposit as one sales record.
func (s *Service) postSales(ctx context.Context, calc CalcResult, created database.Setoran, result *SubmitResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.postingTimeout)
	defer cancel()

	avgTicket := decimal.Zero
	if calc.TotalLiters.IsPositive() {
		avgTicket = calc.GrossDeposit.DivRound(calc.TotalLiters, 2)
	}

	sales, err := s.store.CreateSales(ctx, database.CreateSalesParams{
		StoreID:      created.StoreID,
		SetoranID:    pgtype.UUID{Bytes: created.ID, Valid: true},
		Date:         pgtype.Date{Time: created.CreatedAt, Valid: true},
		TotalSales:   decimalToNumeric(calc.GrossDeposit),
		Transactions: int32(calc.TotalLiters.Round(0).IntPart()),
		AvgTicket:    decimalToNumeric(avgTicket),
	})
	if err != nil {
		return err
	}
	result.Sales = &sales
	return nil
}

// postCashflow appends one cashflow record per valid line item. Each
// item is persisted independently: one failing insert never blocks the
// remaining items.
func (s *Service) postCashflow(ctx context.Context, calc CalcResult, created database.Setoran, result *SubmitResult) []error {
	ctx, cancel := context.WithTimeout(ctx, s.postingTimeout)
	defer cancel()

	var errs []error

	post := func(category string, item LineItem) {
		cf, err := s.store.CreateCashflow(ctx, database.CreateCashflowParams{
			StoreID:     created.StoreID,
			SetoranID:   pgtype.UUID{Bytes: created.ID, Valid: true},
			Category:    category,
			Amount:      decimalToNumeric(item.Amount),
			Description: item.Description,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", category, item.Description, err))
			return
		}
		result.Cashflow = append(result.Cashflow, cf)
	}

	for _, it := range calc.ValidExpenses {
		post(enum.CashflowExpense, it)
	}
	for _, it := range calc.ValidIncome {
		post(enum.CashflowIncome, it)
	}

	return errs
}

// IsValidationError reports whether err should map to a 400 response.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmployeeNameRequired) ||
		errors.Is(err, ErrJamMasukRequired) ||
		errors.Is(err, ErrJamKeluarRequired) ||
		errors.Is(err, ErrNomorAwalRequired) ||
		errors.Is(err, ErrNomorAkhirRequired) ||
		errors.Is(err, ErrInvalidEmployeeID) ||
		errors.Is(err, ErrIncompleteItem)
}

// --- Helpers ---

func toLineItems(in []ItemInput) []LineItem {
	out := make([]LineItem, len(in))
	for i, it := range in {
		out[i] = LineItem{Description: it.Description, Amount: it.Amount}
	}
	return out
}

func uuidPtrToPg(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}
