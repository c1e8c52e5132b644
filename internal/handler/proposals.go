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
	"github.com/setoran-harian/api/internal/middleware"
	"github.com/setoran-harian/api/internal/numeric"
)

// ProposalStore defines the database methods needed by proposal
// handlers. Satisfied by *database.Queries.
type ProposalStore interface {
	CreateProposal(ctx context.Context, arg database.CreateProposalParams) (database.Proposal, error)
	GetProposal(ctx context.Context, arg database.GetProposalParams) (database.Proposal, error)
	ListProposalsByStore(ctx context.Context, arg database.ListProposalsByStoreParams) ([]database.Proposal, error)
	ReviewProposal(ctx context.Context, arg database.ReviewProposalParams) (database.Proposal, error)
}

// ProposalHandler handles spending proposal endpoints. Staff submit,
// managers and administrasi review; a reviewed proposal is final.
type ProposalHandler struct {
	store ProposalStore
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(store ProposalStore) *ProposalHandler {
	return &ProposalHandler{store: store}
}

// RegisterRoutes registers proposal endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/proposals
func (h *ProposalHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.With(middleware.RequireRole(enum.RoleManager, enum.RoleAdministrasi)).Post("/{id}/review", h.Review)
}

type createProposalRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Amount      numeric.Amount `json:"amount"`
}

type reviewProposalRequest struct {
	Status string `json:"status"`
}

type proposalResponse struct {
	ID          uuid.UUID  `json:"id"`
	StoreID     uuid.UUID  `json:"store_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Amount      string     `json:"amount"`
	Status      string     `json:"status"`
	ReviewedBy  *string    `json:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type proposalListResponse struct {
	Proposals []proposalResponse `json:"proposals"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// Create handles POST /stores/{sid}/proposals.
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.Amount.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	description := pgtype.Text{}
	if req.Description != "" {
		description = pgtype.Text{String: req.Description, Valid: true}
	}

	proposal, err := h.store.CreateProposal(r.Context(), database.CreateProposalParams{
		StoreID:     storeID,
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: description,
		Amount:      decimalToNumeric(req.Amount.Decimal),
	})
	if err != nil {
		log.Printf("ERROR: create proposal: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toProposalResponse(proposal))
}

// List handles GET /stores/{sid}/proposals.
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListProposalsByStoreParams{
		StoreID: storeID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		if !enum.ValidProposalStatus(s) {
			writeMessage(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}

	items, err := h.store.ListProposalsByStore(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list proposals: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := proposalListResponse{
		Proposals: make([]proposalResponse, len(items)),
		Limit:     limit,
		Offset:    offset,
	}
	for i, p := range items {
		resp.Proposals[i] = toProposalResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /stores/{sid}/proposals/{id}.
func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid proposal ID")
		return
	}

	proposal, err := h.store.GetProposal(r.Context(), database.GetProposalParams{ID: id, StoreID: storeID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "proposal not found")
			return
		}
		log.Printf("ERROR: get proposal: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toProposalResponse(proposal))
}

// Review handles POST /stores/{sid}/proposals/{id}/review. Only pending
// proposals can transition, enforced by the query's status guard.
func (h *ProposalHandler) Review(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid proposal ID")
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req reviewProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Status != enum.ProposalStatusApproved && req.Status != enum.ProposalStatusRejected {
		writeMessage(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	proposal, err := h.store.ReviewProposal(r.Context(), database.ReviewProposalParams{
		ID:         id,
		StoreID:    storeID,
		Status:     req.Status,
		ReviewedBy: pgtype.UUID{Bytes: claims.UserID, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusConflict, "proposal not found or already reviewed")
			return
		}
		log.Printf("ERROR: review proposal: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toProposalResponse(proposal))
}

func toProposalResponse(p database.Proposal) proposalResponse {
	return proposalResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: pgTextToPtr(p.Description),
		Amount:      numericToString(p.Amount),
		Status:      p.Status,
		ReviewedBy:  pgUUIDToPtr(p.ReviewedBy),
		ReviewedAt:  pgTimestamptzToPtr(p.ReviewedAt),
		CreatedAt:   p.CreatedAt,
	}
}
