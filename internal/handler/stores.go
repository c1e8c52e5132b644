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
)

// StoreStore defines the database methods needed by store handlers.
// Satisfied by *database.Queries.
type StoreStore interface {
	CreateStore(ctx context.Context, arg database.CreateStoreParams) (database.Store, error)
	GetStore(ctx context.Context, id uuid.UUID) (database.Store, error)
	ListStores(ctx context.Context) ([]database.Store, error)
}

// StoreHandler handles store endpoints. Creation is administrasi-only,
// enforced by middleware at the router.
type StoreHandler struct {
	store StoreStore
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(store StoreStore) *StoreHandler {
	return &StoreHandler{store: store}
}

// RegisterRoutes registers store endpoints on the given Chi router.
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{sid}", h.Get)
}

type createStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type storeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type storeListResponse struct {
	Stores []storeResponse `json:"stores"`
}

// Create handles POST /stores.
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	address := pgtype.Text{}
	if req.Address != "" {
		address = pgtype.Text{String: req.Address, Valid: true}
	}

	store, err := h.store.CreateStore(r.Context(), database.CreateStoreParams{
		Name:    req.Name,
		Address: address,
	})
	if err != nil {
		log.Printf("ERROR: create store: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toStoreResponse(store))
}

// List handles GET /stores.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.store.ListStores(r.Context())
	if err != nil {
		log.Printf("ERROR: list stores: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := storeListResponse{Stores: make([]storeResponse, len(stores))}
	for i, s := range stores {
		resp.Stores[i] = toStoreResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /stores/{sid}.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	store, err := h.store.GetStore(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "store not found")
			return
		}
		log.Printf("ERROR: get store: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toStoreResponse(store))
}

func toStoreResponse(s database.Store) storeResponse {
	return storeResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   pgTextToPtr(s.Address),
		CreatedAt: s.CreatedAt,
	}
}
