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
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/middleware"
	"github.com/setoran-harian/api/internal/setoran"
)

// AttendanceStore defines the database methods needed by attendance
// handlers. Satisfied by *database.Queries.
type AttendanceStore interface {
	CreateAttendance(ctx context.Context, arg database.CreateAttendanceParams) (database.Attendance, error)
	ListAttendance(ctx context.Context, arg database.ListAttendanceParams) ([]database.Attendance, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// AttendanceHandler handles manual attendance endpoints. Attendance is
// normally posted as a side effect of a setoran submission; these
// endpoints cover corrections and employees with no pump shift.
type AttendanceHandler struct {
	store AttendanceStore
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(store AttendanceStore) *AttendanceHandler {
	return &AttendanceHandler{store: store}
}

// RegisterRoutes registers attendance endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/attendance
func (h *AttendanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
}

type createAttendanceRequest struct {
	UserID   string `json:"user_id"`
	Date     string `json:"date"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Note     string `json:"note"`
}

type attendanceListResponse struct {
	Attendance []attendanceResponse `json:"attendance"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

// Create handles POST /stores/{sid}/attendance. Unlike the setoran
// pipeline, an authorization failure here is surfaced to the caller.
func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CheckIn == "" {
		writeMessage(w, http.StatusBadRequest, "check_in is required")
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

	var targetID *uuid.UUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		targetID = &id
	}

	actor := setoran.Actor{ID: claims.UserID, StoreID: storeID, Role: claims.Role}
	target, err := setoran.ResolveAttendanceTarget(r.Context(), h.store, actor, targetID)
	if err != nil {
		switch {
		case errors.Is(err, setoran.ErrCrossStore):
			writeMessage(w, http.StatusForbidden, err.Error())
		case errors.Is(err, setoran.ErrTargetNotFound):
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: resolve attendance target: %v", err)
			writeMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	checkOut := pgtype.Text{}
	if req.CheckOut != "" {
		checkOut = pgtype.Text{String: req.CheckOut, Valid: true}
	}
	note := pgtype.Text{}
	if req.Note != "" {
		note = pgtype.Text{String: req.Note, Valid: true}
	}

	att, err := h.store.CreateAttendance(r.Context(), database.CreateAttendanceParams{
		UserID:   target.UserID,
		StoreID:  target.StoreID,
		Date:     pgtype.Date{Time: date, Valid: true},
		CheckIn:  req.CheckIn,
		CheckOut: checkOut,
		Note:     note,
	})
	if err != nil {
		log.Printf("ERROR: create attendance: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toAttendanceResponse(att))
}

// List handles GET /stores/{sid}/attendance.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListAttendanceParams{
		StoreID: pgtype.UUID{Bytes: storeID, Valid: true},
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

	items, err := h.store.ListAttendance(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list attendance: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := attendanceListResponse{
		Attendance: make([]attendanceResponse, len(items)),
		Limit:      limit,
		Offset:     offset,
	}
	for i, a := range items {
		resp.Attendance[i] = toAttendanceResponse(a)
	}

	writeJSON(w, http.StatusOK, resp)
}
