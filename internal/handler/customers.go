package handler

import (
	"context"
	"encoding/json"
	"errors"
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

// CustomerStore defines the database methods needed by customer
// handlers. Satisfied by *database.Queries.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
	GetCustomer(ctx context.Context, arg database.GetCustomerParams) (database.Customer, error)
	ListCustomersByStore(ctx context.Context, storeID uuid.UUID) ([]database.Customer, error)
	CreateReceivable(ctx context.Context, arg database.CreateReceivableParams) (database.Receivable, error)
}

// CustomerHandler handles customer endpoints, including opening new
// receivables (hutang) against a customer.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/customers
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/receivables", h.CreateReceivable)
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type customerListResponse struct {
	Customers []customerResponse `json:"customers"`
}

type createReceivableRequest struct {
	Amount      numeric.Amount `json:"amount"`
	Description string         `json:"description"`
}

type receivableResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	StoreID     uuid.UUID `json:"store_id"`
	Amount      string    `json:"amount"`
	Paid        string    `json:"paid"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create handles POST /stores/{sid}/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	phone := pgtype.Text{}
	if req.Phone != "" {
		phone = pgtype.Text{String: req.Phone, Valid: true}
	}

	customer, err := h.store.CreateCustomer(r.Context(), database.CreateCustomerParams{
		StoreID: storeID,
		Name:    req.Name,
		Phone:   phone,
	})
	if err != nil {
		log.Printf("ERROR: create customer: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

// List handles GET /stores/{sid}/customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	customers, err := h.store.ListCustomersByStore(r.Context(), storeID)
	if err != nil {
		log.Printf("ERROR: list customers: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := customerListResponse{Customers: make([]customerResponse, len(customers))}
	for i, c := range customers {
		resp.Customers[i] = toCustomerResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /stores/{sid}/customers/{id}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), database.GetCustomerParams{ID: id, StoreID: storeID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// CreateReceivable handles POST /stores/{sid}/customers/{id}/receivables.
func (h *CustomerHandler) CreateReceivable(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	var req createReceivableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.Amount.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}
	if req.Description == "" {
		writeMessage(w, http.StatusBadRequest, "description is required")
		return
	}

	// The customer must exist in this store before a debt is opened.
	if _, err := h.store.GetCustomer(r.Context(), database.GetCustomerParams{ID: customerID, StoreID: storeID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "customer not found")
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rec, err := h.store.CreateReceivable(r.Context(), database.CreateReceivableParams{
		CustomerID:  customerID,
		StoreID:     storeID,
		Amount:      decimalToNumeric(req.Amount.Decimal),
		Description: req.Description,
		Status:      enum.ReceivableStatusOutstanding,
	})
	if err != nil {
		log.Printf("ERROR: create receivable: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toReceivableResponse(rec))
}

func toCustomerResponse(c database.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		StoreID:   c.StoreID,
		Name:      c.Name,
		Phone:     pgTextToPtr(c.Phone),
		CreatedAt: c.CreatedAt,
	}
}

func toReceivableResponse(rec database.Receivable) receivableResponse {
	return receivableResponse{
		ID:          rec.ID,
		CustomerID:  rec.CustomerID,
		StoreID:     rec.StoreID,
		Amount:      numericToString(rec.Amount),
		Paid:        numericToString(rec.Paid),
		Description: rec.Description,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
