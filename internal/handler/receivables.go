package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/numeric"
)

// ReceivableStore defines the database methods needed by receivable
// handlers. Satisfied by *database.Queries.
type ReceivableStore interface {
	GetReceivable(ctx context.Context, arg database.GetReceivableParams) (database.Receivable, error)
	ListReceivablesByStore(ctx context.Context, arg database.ListReceivablesByStoreParams) ([]database.Receivable, error)
	AddReceivablePayment(ctx context.Context, arg database.AddReceivablePaymentParams) (database.Receivable, error)
	CreateCashflow(ctx context.Context, arg database.CreateCashflowParams) (database.Cashflow, error)
}

// ReceivableHandler handles store-level receivable endpoints. A debt
// payment also lands in the cashflow ledger as income.
type ReceivableHandler struct {
	store ReceivableStore
}

// NewReceivableHandler creates a new ReceivableHandler.
func NewReceivableHandler(store ReceivableStore) *ReceivableHandler {
	return &ReceivableHandler{store: store}
}

// RegisterRoutes registers receivable endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/receivables
func (h *ReceivableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/{id}/payments", h.AddPayment)
}

type receivableListResponse struct {
	Receivables []receivableResponse `json:"receivables"`
}

type addPaymentRequest struct {
	Amount numeric.Amount `json:"amount"`
}

// List handles GET /stores/{sid}/receivables. Supports an optional
// ?status=outstanding|paid filter.
func (h *ReceivableHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	params := database.ListReceivablesByStoreParams{StoreID: storeID}
	if s := r.URL.Query().Get("status"); s != "" {
		if s != enum.ReceivableStatusOutstanding && s != enum.ReceivableStatusPaid {
			writeMessage(w, http.StatusBadRequest, "status must be outstanding or paid")
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}

	items, err := h.store.ListReceivablesByStore(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list receivables: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := receivableListResponse{Receivables: make([]receivableResponse, len(items))}
	for i, rec := range items {
		resp.Receivables[i] = toReceivableResponse(rec)
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddPayment handles POST /stores/{sid}/receivables/{id}/payments. The
// payment is recorded against the debt and mirrored into cashflow as
// income; the mirror write is best-effort.
func (h *ReceivableHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid receivable ID")
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.Amount.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	existing, err := h.store.GetReceivable(r.Context(), database.GetReceivableParams{ID: id, StoreID: storeID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "receivable not found")
			return
		}
		log.Printf("ERROR: get receivable: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if existing.Status == enum.ReceivableStatusPaid {
		writeMessage(w, http.StatusConflict, "receivable is already paid")
		return
	}

	outstanding := numericDecimal(existing.Amount).Sub(numericDecimal(existing.Paid))
	if req.Amount.GreaterThan(outstanding) {
		writeMessage(w, http.StatusBadRequest, "payment exceeds outstanding amount")
		return
	}

	rec, err := h.store.AddReceivablePayment(r.Context(), database.AddReceivablePaymentParams{
		ID:      id,
		StoreID: storeID,
		Amount:  decimalToNumeric(req.Amount.Decimal),
	})
	if err != nil {
		log.Printf("ERROR: add receivable payment: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := h.store.CreateCashflow(r.Context(), database.CreateCashflowParams{
		StoreID:     storeID,
		Category:    enum.CashflowIncome,
		Amount:      decimalToNumeric(req.Amount.Decimal),
		Description: fmt.Sprintf("pembayaran hutang %s", rec.ID),
	}); err != nil {
		log.Printf("WARN: receivable %s: cashflow mirror: %v", rec.ID, err)
	}

	writeJSON(w, http.StatusOK, toReceivableResponse(rec))
}
