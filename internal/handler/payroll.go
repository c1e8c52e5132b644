package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/numeric"
)

// PayrollStore defines the database methods needed by payroll handlers.
// Satisfied by *database.Queries.
type PayrollStore interface {
	CreatePayrollEntry(ctx context.Context, arg database.CreatePayrollEntryParams) (database.PayrollEntry, error)
	GetPayrollEntry(ctx context.Context, arg database.GetPayrollEntryParams) (database.PayrollEntry, error)
	ListPayrollEntries(ctx context.Context, arg database.ListPayrollEntriesParams) ([]database.PayrollEntry, error)
	MarkPayrollEntryPaid(ctx context.Context, arg database.MarkPayrollEntryPaidParams) (database.PayrollEntry, error)
	DeletePayrollEntry(ctx context.Context, arg database.DeletePayrollEntryParams) (uuid.UUID, error)
	CreateCashflow(ctx context.Context, arg database.CreateCashflowParams) (database.Cashflow, error)
}

// PayrollHandler handles payroll endpoints. Entries are drafted, then
// marked paid once the money actually moves; paid entries are frozen.
type PayrollHandler struct {
	store PayrollStore
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(store PayrollStore) *PayrollHandler {
	return &PayrollHandler{store: store}
}

// RegisterRoutes registers payroll endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/payroll
func (h *PayrollHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/pay", h.MarkPaid)
	r.Delete("/{id}", h.Delete)
}

type createPayrollRequest struct {
	UserID       string         `json:"user_id"`
	EmployeeName string         `json:"employee_name"`
	PeriodStart  string         `json:"period_start"`
	PeriodEnd    string         `json:"period_end"`
	BaseSalary   numeric.Amount `json:"base_salary"`
	Bonus        numeric.Amount `json:"bonus"`
	Deductions   numeric.Amount `json:"deductions"`
}

type payrollResponse struct {
	ID           uuid.UUID  `json:"id"`
	StoreID      uuid.UUID  `json:"store_id"`
	UserID       *string    `json:"user_id"`
	EmployeeName string     `json:"employee_name"`
	PeriodStart  string     `json:"period_start"`
	PeriodEnd    string     `json:"period_end"`
	BaseSalary   string     `json:"base_salary"`
	Bonus        string     `json:"bonus"`
	Deductions   string     `json:"deductions"`
	NetPay       string     `json:"net_pay"`
	Status       string     `json:"status"`
	PaidAt       *time.Time `json:"paid_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type payrollListResponse struct {
	Payroll []payrollResponse `json:"payroll"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// Create handles POST /stores/{sid}/payroll. Net pay is computed
// server-side from base + bonus - deductions.
func (h *PayrollHandler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	var req createPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.EmployeeName == "" {
		writeMessage(w, http.StatusBadRequest, "employee_name is required")
		return
	}
	if !req.BaseSalary.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "base_salary must be greater than zero")
		return
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid period_start format, use YYYY-MM-DD")
		return
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid period_end format, use YYYY-MM-DD")
		return
	}
	if periodEnd.Before(periodStart) {
		writeMessage(w, http.StatusBadRequest, "period_end must not be before period_start")
		return
	}

	userID := pgtype.UUID{}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		userID = pgtype.UUID{Bytes: id, Valid: true}
	}

	netPay := req.BaseSalary.Add(req.Bonus.Decimal).Sub(req.Deductions.Decimal)

	entry, err := h.store.CreatePayrollEntry(r.Context(), database.CreatePayrollEntryParams{
		StoreID:      storeID,
		UserID:       userID,
		EmployeeName: req.EmployeeName,
		PeriodStart:  pgtype.Date{Time: periodStart, Valid: true},
		PeriodEnd:    pgtype.Date{Time: periodEnd, Valid: true},
		BaseSalary:   decimalToNumeric(req.BaseSalary.Decimal),
		Bonus:        decimalToNumeric(req.Bonus.Decimal),
		Deductions:   decimalToNumeric(req.Deductions.Decimal),
		NetPay:       decimalToNumeric(netPay),
		Status:       enum.PayrollStatusDraft,
	})
	if err != nil {
		log.Printf("ERROR: create payroll entry: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toPayrollResponse(entry))
}

// List handles GET /stores/{sid}/payroll.
func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListPayrollEntriesParams{
		StoreID: storeID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		if s != enum.PayrollStatusDraft && s != enum.PayrollStatusPaid {
			writeMessage(w, http.StatusBadRequest, "status must be draft or paid")
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}

	items, err := h.store.ListPayrollEntries(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list payroll entries: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := payrollListResponse{
		Payroll: make([]payrollResponse, len(items)),
		Limit:   limit,
		Offset:  offset,
	}
	for i, e := range items {
		resp.Payroll[i] = toPayrollResponse(e)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /stores/{sid}/payroll/{id}.
func (h *PayrollHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payroll ID")
		return
	}

	entry, err := h.store.GetPayrollEntry(r.Context(), database.GetPayrollEntryParams{ID: id, StoreID: storeID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "payroll entry not found")
			return
		}
		log.Printf("ERROR: get payroll entry: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toPayrollResponse(entry))
}

// MarkPaid handles POST /stores/{sid}/payroll/{id}/pay. Only draft
// entries can transition; the salary is mirrored into cashflow as an
// expense, best-effort.
func (h *PayrollHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payroll ID")
		return
	}

	entry, err := h.store.MarkPayrollEntryPaid(r.Context(), database.MarkPayrollEntryPaidParams{ID: id, StoreID: storeID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the entry does not exist or it is not a draft.
			writeMessage(w, http.StatusConflict, "payroll entry not found or already paid")
			return
		}
		log.Printf("ERROR: mark payroll paid: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := h.store.CreateCashflow(r.Context(), database.CreateCashflowParams{
		StoreID:     storeID,
		Category:    enum.CashflowExpense,
		Amount:      entry.NetPay,
		Description: fmt.Sprintf("gaji %s %s", entry.EmployeeName, entry.PeriodEnd.Time.Format("2006-01")),
	}); err != nil {
		log.Printf("WARN: payroll %s: cashflow mirror: %v", entry.ID, err)
	}

	writeJSON(w, http.StatusOK, toPayrollResponse(entry))
}

// Delete handles DELETE /stores/{sid}/payroll/{id}. Draft entries only.
func (h *PayrollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payroll ID")
		return
	}

	if _, err := h.store.DeletePayrollEntry(r.Context(), database.DeletePayrollEntryParams{ID: id, StoreID: storeID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusConflict, "payroll entry not found or already paid")
			return
		}
		log.Printf("ERROR: delete payroll entry: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPayrollResponse(e database.PayrollEntry) payrollResponse {
	return payrollResponse{
		ID:           e.ID,
		StoreID:      e.StoreID,
		UserID:       pgUUIDToPtr(e.UserID),
		EmployeeName: e.EmployeeName,
		PeriodStart:  e.PeriodStart.Time.Format("2006-01-02"),
		PeriodEnd:    e.PeriodEnd.Time.Format("2006-01-02"),
		BaseSalary:   numericToString(e.BaseSalary),
		Bonus:        numericToString(e.Bonus),
		Deductions:   numericToString(e.Deductions),
		NetPay:       numericToString(e.NetPay),
		Status:       e.Status,
		PaidAt:       pgTimestamptzToPtr(e.PaidAt),
		CreatedAt:    e.CreatedAt,
	}
}
