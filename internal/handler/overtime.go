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
	"github.com/setoran-harian/api/internal/middleware"
	"github.com/setoran-harian/api/internal/numeric"
)

// OvertimeStore defines the database methods needed by overtime
// handlers. Satisfied by *database.Queries.
type OvertimeStore interface {
	CreateOvertime(ctx context.Context, arg database.CreateOvertimeParams) (database.Overtime, error)
	ListOvertimeByStore(ctx context.Context, arg database.ListOvertimeByStoreParams) ([]database.Overtime, error)
}

// OvertimeHandler handles overtime endpoints.
type OvertimeHandler struct {
	store OvertimeStore
}

// NewOvertimeHandler creates a new OvertimeHandler.
func NewOvertimeHandler(store OvertimeStore) *OvertimeHandler {
	return &OvertimeHandler{store: store}
}

// RegisterRoutes registers overtime endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/overtime
func (h *OvertimeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
}

type createOvertimeRequest struct {
	UserID string         `json:"user_id"`
	Date   string         `json:"date"`
	Hours  numeric.Amount `json:"hours"`
	Note   string         `json:"note"`
}

type overtimeResponse struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	Hours     string    `json:"hours"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type overtimeListResponse struct {
	Overtime []overtimeResponse `json:"overtime"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// Create handles POST /stores/{sid}/overtime. Without an explicit
// user_id the record belongs to the submitter.
func (h *OvertimeHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.Hours.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "hours must be greater than zero")
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
	}

	userID := claims.UserID
	if req.UserID != "" {
		userID, err = uuid.Parse(req.UserID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user_id")
			return
		}
	}

	note := pgtype.Text{}
	if req.Note != "" {
		note = pgtype.Text{String: req.Note, Valid: true}
	}

	ot, err := h.store.CreateOvertime(r.Context(), database.CreateOvertimeParams{
		StoreID: storeID,
		UserID:  userID,
		Date:    pgtype.Date{Time: date, Valid: true},
		Hours:   decimalToNumeric(req.Hours.Decimal),
		Note:    note,
	})
	if err != nil {
		log.Printf("ERROR: create overtime: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toOvertimeResponse(ot))
}

// List handles GET /stores/{sid}/overtime.
func (h *OvertimeHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListOvertimeByStoreParams{
		StoreID: storeID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	}

	if s := r.URL.Query().Get("user_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		params.UserID = pgtype.UUID{Bytes: id, Valid: true}
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

	items, err := h.store.ListOvertimeByStore(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list overtime: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := overtimeListResponse{
		Overtime: make([]overtimeResponse, len(items)),
		Limit:    limit,
		Offset:   offset,
	}
	for i, ot := range items {
		resp.Overtime[i] = toOvertimeResponse(ot)
	}

	writeJSON(w, http.StatusOK, resp)
}

func toOvertimeResponse(ot database.Overtime) overtimeResponse {
	return overtimeResponse{
		ID:        ot.ID,
		StoreID:   ot.StoreID,
		UserID:    ot.UserID,
		Date:      ot.Date.Time.Format("2006-01-02"),
		Hours:     numericToString(ot.Hours),
		Note:      pgTextToPtr(ot.Note),
		CreatedAt: ot.CreatedAt,
	}
}
