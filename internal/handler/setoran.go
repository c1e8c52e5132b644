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
	"github.com/setoran-harian/api/internal/middleware"
	"github.com/setoran-harian/api/internal/numeric"
	"github.com/setoran-harian/api/internal/setoran"
)

// SetoranSubmitter defines the service methods needed by the setoran
// write handler. Satisfied by *setoran.Service.
type SetoranSubmitter interface {
	Submit(ctx context.Context, req setoran.SubmitRequest) (*setoran.SubmitResult, error)
}

// SetoranStore defines the database methods needed by setoran read
// handlers. Satisfied by *database.Queries; narrow interface for
// testability.
type SetoranStore interface {
	GetSetoran(ctx context.Context, id uuid.UUID) (database.Setoran, error)
	ListSetoran(ctx context.Context, arg database.ListSetoranParams) ([]database.Setoran, error)
}

// EventBroadcaster pushes store-scoped events to connected dashboards.
// Satisfied by *ws.Hub.
type EventBroadcaster interface {
	BroadcastToStore(storeID uuid.UUID, event interface{})
}

// SetoranHandler handles setoran endpoints.
type SetoranHandler struct {
	svc   SetoranSubmitter
	store SetoranStore
	hub   EventBroadcaster
}

// NewSetoranHandler creates a new SetoranHandler. hub may be nil when
// no live feed is wired (tests).
func NewSetoranHandler(svc SetoranSubmitter, store SetoranStore, hub EventBroadcaster) *SetoranHandler {
	return &SetoranHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers setoran endpoints on the given Chi router.
// Expected to be mounted inside a store-scoped subrouter: /stores/{sid}/setoran
func (h *SetoranHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Request / Response types ---

// createSetoranRequest accepts amounts as JSON numbers or Indonesian
// locale strings ("11.500"); meter readings are pointers so a missing
// field is distinguishable from zero.
type createSetoranRequest struct {
	EmployeeName string             `json:"employee_name"`
	EmployeeID   string             `json:"employee_id"`
	JamMasuk     string             `json:"jam_masuk"`
	JamKeluar    string             `json:"jam_keluar"`
	NomorAwal    *numeric.Amount    `json:"nomor_awal"`
	NomorAkhir   *numeric.Amount    `json:"nomor_akhir"`
	QrisSetoran  numeric.Amount     `json:"qris_setoran"`
	Expenses     []lineItemRequest  `json:"expenses"`
	Income       []lineItemRequest  `json:"income"`
}

type lineItemRequest struct {
	Description string         `json:"description"`
	Amount      numeric.Amount `json:"amount"`
}

type setoranResponse struct {
	ID               uuid.UUID       `json:"id"`
	StoreID          uuid.UUID       `json:"store_id"`
	SubmittedBy      uuid.UUID       `json:"submitted_by"`
	EmployeeName     string          `json:"employee_name"`
	EmployeeID       *string         `json:"employee_id"`
	JamMasuk         string          `json:"jam_masuk"`
	JamKeluar        string          `json:"jam_keluar"`
	NomorAwal        string          `json:"nomor_awal"`
	NomorAkhir       string          `json:"nomor_akhir"`
	QrisSetoran      string          `json:"qris_setoran"`
	TotalLiter       string          `json:"total_liter"`
	TotalSetoran     string          `json:"total_setoran"`
	CashSetoran      string          `json:"cash_setoran"`
	TotalPengeluaran string          `json:"total_pengeluaran"`
	TotalPemasukan   string          `json:"total_pemasukan"`
	TotalKeseluruhan string          `json:"total_keseluruhan"`
	Expenses         json.RawMessage `json:"expenses"`
	Income           json.RawMessage `json:"income"`
	CreatedAt        time.Time       `json:"created_at"`
}

type attendanceResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Date      string    `json:"date"`
	CheckIn   string    `json:"check_in"`
	CheckOut  *string   `json:"check_out"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type salesResponse struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	SetoranID    *string   `json:"setoran_id"`
	Date         string    `json:"date"`
	TotalSales   string    `json:"total_sales"`
	Transactions int32     `json:"transactions"`
	AvgTicket    string    `json:"avg_ticket"`
	CreatedAt    time.Time `json:"created_at"`
}

type cashflowResponse struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	SetoranID   *string   `json:"setoran_id"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// createSetoranResponse reports the setoran plus whichever derived
// records were actually posted. Absent fields mean that branch failed
// or did not apply; the setoran itself is always present.
type createSetoranResponse struct {
	Setoran    setoranResponse     `json:"setoran"`
	Attendance *attendanceResponse `json:"attendance,omitempty"`
	Sales      *salesResponse      `json:"sales,omitempty"`
	Cashflow   []cashflowResponse  `json:"cashflow,omitempty"`
}

type setoranListResponse struct {
	Setoran []setoranResponse `json:"setoran"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// --- Handlers ---

// Create handles POST /stores/{sid}/setoran.
func (h *SetoranHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createSetoranRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	svcReq := setoran.SubmitRequest{
		Submitter: setoran.Actor{
			ID:      claims.UserID,
			StoreID: storeID,
			Role:    claims.Role,
		},
		EmployeeName: req.EmployeeName,
		EmployeeID:   req.EmployeeID,
		JamMasuk:     req.JamMasuk,
		JamKeluar:    req.JamKeluar,
		QrisSetoran:  req.QrisSetoran.Decimal,
		Expenses:     toItemInputs(req.Expenses),
		Income:       toItemInputs(req.Income),
	}
	if req.NomorAwal != nil {
		svcReq.NomorAwal = &req.NomorAwal.Decimal
	}
	if req.NomorAkhir != nil {
		svcReq.NomorAkhir = &req.NomorAkhir.Decimal
	}

	result, err := h.svc.Submit(r.Context(), svcReq)
	if err != nil {
		if setoran.IsValidationError(err) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: create setoran: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := toCreateSetoranResponse(result)

	if h.hub != nil {
		h.hub.BroadcastToStore(storeID, map[string]interface{}{
			"type":    "setoran.created",
			"setoran": resp.Setoran,
		})
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /stores/{sid}/setoran.
func (h *SetoranHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListSetoranParams{
		StoreID: pgtype.UUID{Bytes: storeID, Valid: true},
		Limit:   int32(limit),
		Offset:  int32(offset),
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid start_date format, use YYYY-MM-DD")
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid end_date format, use YYYY-MM-DD")
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t.AddDate(0, 0, 1), Valid: true}
	}

	items, err := h.store.ListSetoran(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list setoran: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := setoranListResponse{
		Setoran: make([]setoranResponse, len(items)),
		Limit:   limit,
		Offset:  offset,
	}
	for i, s := range items {
		resp.Setoran[i] = toSetoranResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /stores/{sid}/setoran/{id}.
func (h *SetoranHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid store ID")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid setoran ID")
		return
	}

	s, err := h.store.GetSetoran(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "setoran not found")
			return
		}
		log.Printf("ERROR: get setoran: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Records of other stores are invisible, not forbidden.
	if s.StoreID != storeID {
		writeMessage(w, http.StatusNotFound, "setoran not found")
		return
	}

	writeJSON(w, http.StatusOK, toSetoranResponse(s))
}

// --- Helpers ---

func toItemInputs(items []lineItemRequest) []setoran.ItemInput {
	out := make([]setoran.ItemInput, len(items))
	for i, it := range items {
		out[i] = setoran.ItemInput{Description: it.Description, Amount: it.Amount.Decimal}
	}
	return out
}

func toSetoranResponse(s database.Setoran) setoranResponse {
	return setoranResponse{
		ID:               s.ID,
		StoreID:          s.StoreID,
		SubmittedBy:      s.SubmittedBy,
		EmployeeName:     s.EmployeeName,
		EmployeeID:       pgUUIDToPtr(s.EmployeeID),
		JamMasuk:         s.JamMasuk,
		JamKeluar:        s.JamKeluar,
		NomorAwal:        numericToString(s.NomorAwal),
		NomorAkhir:       numericToString(s.NomorAkhir),
		QrisSetoran:      numericToString(s.QrisSetoran),
		TotalLiter:       numericToString(s.TotalLiter),
		TotalSetoran:     numericToString(s.TotalSetoran),
		CashSetoran:      numericToString(s.CashSetoran),
		TotalPengeluaran: numericToString(s.TotalPengeluaran),
		TotalPemasukan:   numericToString(s.TotalPemasukan),
		TotalKeseluruhan: numericToString(s.TotalKeseluruhan),
		Expenses:         json.RawMessage(s.Expenses),
		Income:           json.RawMessage(s.Income),
		CreatedAt:        s.CreatedAt,
	}
}

func toCreateSetoranResponse(result *setoran.SubmitResult) createSetoranResponse {
	resp := createSetoranResponse{Setoran: toSetoranResponse(result.Setoran)}

	if result.Attendance != nil {
		a := toAttendanceResponse(*result.Attendance)
		resp.Attendance = &a
	}
	if result.Sales != nil {
		s := toSalesResponse(*result.Sales)
		resp.Sales = &s
	}
	for _, cf := range result.Cashflow {
		resp.Cashflow = append(resp.Cashflow, toCashflowResponse(cf))
	}

	return resp
}

func toAttendanceResponse(a database.Attendance) attendanceResponse {
	return attendanceResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		StoreID:   a.StoreID,
		Date:      a.Date.Time.Format("2006-01-02"),
		CheckIn:   a.CheckIn,
		CheckOut:  pgTextToPtr(a.CheckOut),
		Note:      pgTextToPtr(a.Note),
		CreatedAt: a.CreatedAt,
	}
}

func toSalesResponse(s database.Sales) salesResponse {
	return salesResponse{
		ID:           s.ID,
		StoreID:      s.StoreID,
		SetoranID:    pgUUIDToPtr(s.SetoranID),
		Date:         s.Date.Time.Format("2006-01-02"),
		TotalSales:   numericToString(s.TotalSales),
		Transactions: s.Transactions,
		AvgTicket:    numericToString(s.AvgTicket),
		CreatedAt:    s.CreatedAt,
	}
}

func toCashflowResponse(cf database.Cashflow) cashflowResponse {
	return cashflowResponse{
		ID:          cf.ID,
		StoreID:     cf.StoreID,
		SetoranID:   pgUUIDToPtr(cf.SetoranID),
		Category:    cf.Category,
		Amount:      numericToString(cf.Amount),
		Description: cf.Description,
		CreatedAt:   cf.CreatedAt,
	}
}
