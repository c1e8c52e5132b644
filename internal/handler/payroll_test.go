package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/handler"
	"github.com/setoran-harian/api/internal/middleware"
)

type mockPayrollStore struct {
	entries  map[uuid.UUID]database.PayrollEntry
	cashflow []database.CreateCashflowParams
}

func newMockPayrollStore() *mockPayrollStore {
	return &mockPayrollStore{entries: make(map[uuid.UUID]database.PayrollEntry)}
}

func (m *mockPayrollStore) CreatePayrollEntry(_ context.Context, arg database.CreatePayrollEntryParams) (database.PayrollEntry, error) {
	e := database.PayrollEntry{
		ID:           uuid.New(),
		StoreID:      arg.StoreID,
		UserID:       arg.UserID,
		EmployeeName: arg.EmployeeName,
		PeriodStart:  arg.PeriodStart,
		PeriodEnd:    arg.PeriodEnd,
		BaseSalary:   arg.BaseSalary,
		Bonus:        arg.Bonus,
		Deductions:   arg.Deductions,
		NetPay:       arg.NetPay,
		Status:       arg.Status,
		CreatedAt:    time.Now(),
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *mockPayrollStore) GetPayrollEntry(_ context.Context, arg database.GetPayrollEntryParams) (database.PayrollEntry, error) {
	e, ok := m.entries[arg.ID]
	if !ok || e.StoreID != arg.StoreID {
		return database.PayrollEntry{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockPayrollStore) ListPayrollEntries(_ context.Context, arg database.ListPayrollEntriesParams) ([]database.PayrollEntry, error) {
	var result []database.PayrollEntry
	for _, e := range m.entries {
		if e.StoreID != arg.StoreID {
			continue
		}
		if arg.Status.Valid && e.Status != arg.Status.String {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockPayrollStore) MarkPayrollEntryPaid(_ context.Context, arg database.MarkPayrollEntryPaidParams) (database.PayrollEntry, error) {
	e, ok := m.entries[arg.ID]
	if !ok || e.StoreID != arg.StoreID || e.Status != enum.PayrollStatusDraft {
		return database.PayrollEntry{}, pgx.ErrNoRows
	}
	e.Status = enum.PayrollStatusPaid
	e.PaidAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	m.entries[e.ID] = e
	return e, nil
}

func (m *mockPayrollStore) DeletePayrollEntry(_ context.Context, arg database.DeletePayrollEntryParams) (uuid.UUID, error) {
	e, ok := m.entries[arg.ID]
	if !ok || e.StoreID != arg.StoreID || e.Status != enum.PayrollStatusDraft {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.entries, arg.ID)
	return e.ID, nil
}

func (m *mockPayrollStore) CreateCashflow(_ context.Context, arg database.CreateCashflowParams) (database.Cashflow, error) {
	m.cashflow = append(m.cashflow, arg)
	return database.Cashflow{ID: uuid.New(), StoreID: arg.StoreID, Category: arg.Category, Amount: arg.Amount, Description: arg.Description}, nil
}

func setupPayrollRouter(store *mockPayrollStore) *chi.Mux {
	h := handler.NewPayrollHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/stores/{sid}/payroll", func(r chi.Router) {
		r.Use(middleware.RequireStore)
		h.RegisterRoutes(r)
	})
	return r
}

func payrollCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"employee_name": "Budi",
		"period_start":  "2024-05-01",
		"period_end":    "2024-05-31",
		"base_salary":   "2500000",
		"bonus":         "300000",
		"deductions":    "50000",
	}
}

func TestPayrollCreateComputesNetPay(t *testing.T) {
	storeID := uuid.New()
	store := newMockPayrollStore()
	router := setupPayrollRouter(store)

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/", payrollCreateBody(), testClaims(storeID, enum.RoleManager))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["net_pay"] != "2750000.00" {
		t.Errorf("net_pay = %v, want 2750000.00", resp["net_pay"])
	}
	if resp["status"] != enum.PayrollStatusDraft {
		t.Errorf("status = %v, want %s", resp["status"], enum.PayrollStatusDraft)
	}
}

func TestPayrollCreateInvalidPeriod(t *testing.T) {
	storeID := uuid.New()
	router := setupPayrollRouter(newMockPayrollStore())

	body := payrollCreateBody()
	body["period_end"] = "2024-04-30"

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/", body, testClaims(storeID, enum.RoleManager))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestPayrollMarkPaid(t *testing.T) {
	storeID := uuid.New()
	store := newMockPayrollStore()
	router := setupPayrollRouter(store)
	claims := testClaims(storeID, enum.RoleManager)

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/", payrollCreateBody(), claims)
	if rr.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", rr.Code)
	}
	id := decodeResponse(t, rr)["id"].(string)

	rr = doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/"+id+"/pay", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["status"] != enum.PayrollStatusPaid {
		t.Errorf("status = %v, want %s", resp["status"], enum.PayrollStatusPaid)
	}
	if len(store.cashflow) != 1 {
		t.Fatalf("got %d cashflow mirrors, want 1", len(store.cashflow))
	}
	if store.cashflow[0].Category != enum.CashflowExpense {
		t.Errorf("cashflow category = %s, want %s", store.cashflow[0].Category, enum.CashflowExpense)
	}

	// Second attempt hits an already-paid entry.
	rr = doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/"+id+"/pay", nil, claims)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on repeat, got %d", rr.Code)
	}
}

func TestPayrollDeleteDraftOnly(t *testing.T) {
	storeID := uuid.New()
	store := newMockPayrollStore()
	router := setupPayrollRouter(store)
	claims := testClaims(storeID, enum.RoleManager)

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/", payrollCreateBody(), claims)
	id := decodeResponse(t, rr)["id"].(string)

	rr = doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/"+id+"/pay", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("setup pay failed: %d", rr.Code)
	}

	rr = doAuthRequest(t, router, http.MethodDelete, "/stores/"+storeID.String()+"/payroll/"+id, nil, claims)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409 deleting a paid entry, got %d", rr.Code)
	}

	rr = doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/", payrollCreateBody(), claims)
	draftID := decodeResponse(t, rr)["id"].(string)

	rr = doAuthRequest(t, router, http.MethodDelete, "/stores/"+storeID.String()+"/payroll/"+draftID, nil, claims)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
}

func TestPayrollGetOtherStoreHidden(t *testing.T) {
	storeID := uuid.New()
	store := newMockPayrollStore()
	router := setupPayrollRouter(store)

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/payroll/", payrollCreateBody(), testClaims(storeID, enum.RoleAdministrasi))
	id := decodeResponse(t, rr)["id"].(string)

	otherStore := uuid.New()
	rr = doAuthRequest(t, router, http.MethodGet, "/stores/"+otherStore.String()+"/payroll/"+id, nil, testClaims(otherStore, enum.RoleAdministrasi))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
