package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
)

// SalesStore defines the database methods needed by sales handlers.
// Satisfied by *database.Queries.
type SalesStore interface {
	ListSales(ctx context.Context, arg database.ListSalesParams) ([]database.Sales, error)
	SumSalesByStoreAndDate(ctx context.Context, storeID uuid.UUID, date pgtype.Date) (database.SumSalesByStoreAndDateRow, error)
}

// SalesHandler handles read-only sales endpoints. Sales rows are
// written by the setoran pipeline, never directly.
type SalesHandler struct {
	store SalesStore
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(store SalesStore) *SalesHandler {
	return &SalesHandler{store: store}
}

// RegisterRoutes registers sales endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/sales
func (h *SalesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
}

type salesListResponse struct {
	Sales  []salesResponse `json:"sales"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type salesSummaryResponse struct {
	Date         string `json:"date"`
	TotalSales   string `json:"total_sales"`
	Transactions int64  `json:"transactions"`
}

// List handles GET /stores/{sid}/sales.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListSalesParams{
		StoreID: pgtype.UUID{Bytes: storeID, Valid: true},
		Limit:   int32(limit),
		Offset:  int32(offset),
	}

	start, ok := parseDateParam(r, "start_date")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid start_date format, use YYYY-MM-DD")
		return
	}
	params.StartDate = start

	end, ok := parseDateParam(r, "end_date")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid end_date format, use YYYY-MM-DD")
		return
	}
	params.EndDate = end

	items, err := h.store.ListSales(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list sales: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := salesListResponse{
		Sales:  make([]salesResponse, len(items)),
		Limit:  limit,
		Offset: offset,
	}
	for i, s := range items {
		resp.Sales[i] = toSalesResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Summary handles GET /stores/{sid}/sales/summary. Defaults to today.
func (h *SalesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	date := time.Now()
	if s := r.URL.Query().Get("date"); s != "" {
		date, err = time.Parse("2006-01-02", s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
	}

	row, err := h.store.SumSalesByStoreAndDate(r.Context(), storeID, pgtype.Date{Time: date, Valid: true})
	if err != nil {
		log.Printf("ERROR: sales summary: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, salesSummaryResponse{
		Date:         date.Format("2006-01-02"),
		TotalSales:   numericToString(row.TotalSales),
		Transactions: row.Transactions,
	})
}
