package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/numeric"
)

// CashflowStore defines the database methods needed by cashflow
// handlers. Satisfied by *database.Queries.
type CashflowStore interface {
	CreateCashflow(ctx context.Context, arg database.CreateCashflowParams) (database.Cashflow, error)
	ListCashflow(ctx context.Context, arg database.ListCashflowParams) ([]database.Cashflow, error)
	SumCashflowByStore(ctx context.Context, storeID uuid.UUID, start, end pgtype.Timestamptz) (database.SumCashflowByStoreRow, error)
}

// CashflowHandler handles cashflow endpoints. Most rows come from the
// setoran pipeline; manual entries cover rent, salaries and other
// non-shift movements.
type CashflowHandler struct {
	store CashflowStore
}

// NewCashflowHandler creates a new CashflowHandler.
func NewCashflowHandler(store CashflowStore) *CashflowHandler {
	return &CashflowHandler{store: store}
}

// RegisterRoutes registers cashflow endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/cashflow
func (h *CashflowHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
}

type createCashflowRequest struct {
	Category    string         `json:"category"`
	Amount      numeric.Amount `json:"amount"`
	Description string         `json:"description"`
}

type cashflowListResponse struct {
	Cashflow []cashflowResponse `json:"cashflow"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type cashflowSummaryResponse struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Net          string `json:"net"`
}

// Create handles POST /stores/{sid}/cashflow.
func (h *CashflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	var req createCashflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Category != enum.CashflowIncome && req.Category != enum.CashflowExpense {
		writeMessage(w, http.StatusBadRequest, "category must be Income or Expense")
		return
	}
	if req.Description == "" {
		writeMessage(w, http.StatusBadRequest, "description is required")
		return
	}
	if !req.Amount.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	cf, err := h.store.CreateCashflow(r.Context(), database.CreateCashflowParams{
		StoreID:     storeID,
		Category:    req.Category,
		Amount:      decimalToNumeric(req.Amount.Decimal),
		Description: req.Description,
	})
	if err != nil {
		log.Printf("ERROR: create cashflow: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCashflowResponse(cf))
}

// List handles GET /stores/{sid}/cashflow.
func (h *CashflowHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListCashflowParams{
		StoreID: pgtype.UUID{Bytes: storeID, Valid: true},
		Limit:   int32(limit),
		Offset:  int32(offset),
	}

	if c := r.URL.Query().Get("category"); c != "" {
		if c != enum.CashflowIncome && c != enum.CashflowExpense {
			writeMessage(w, http.StatusBadRequest, "category must be Income or Expense")
			return
		}
		params.Category = pgtype.Text{String: c, Valid: true}
	}

	start, end, ok := parseTimestampRange(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}
	params.StartDate = start
	params.EndDate = end

	items, err := h.store.ListCashflow(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list cashflow: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := cashflowListResponse{
		Cashflow: make([]cashflowResponse, len(items)),
		Limit:    limit,
		Offset:   offset,
	}
	for i, cf := range items {
		resp.Cashflow[i] = toCashflowResponse(cf)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Summary handles GET /stores/{sid}/cashflow/summary.
func (h *CashflowHandler) Summary(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	start, end, ok := parseTimestampRange(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	row, err := h.store.SumCashflowByStore(r.Context(), storeID, start, end)
	if err != nil {
		log.Printf("ERROR: cashflow summary: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	income := numericDecimal(row.TotalIncome)
	expense := numericDecimal(row.TotalExpense)

	writeJSON(w, http.StatusOK, cashflowSummaryResponse{
		TotalIncome:  income.StringFixed(2),
		TotalExpense: expense.StringFixed(2),
		Net:          income.Sub(expense).StringFixed(2),
	})
}

// parseTimestampRange reads start_date/end_date as dates and widens the
// end to the following midnight so the range is inclusive.
func parseTimestampRange(r *http.Request) (start, end pgtype.Timestamptz, ok bool) {
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, false
		}
		start = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, false
		}
		end = pgtype.Timestamptz{Time: t.AddDate(0, 0, 1), Valid: true}
	}
	return start, end, true
}
