package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/handler"
	"github.com/setoran-harian/api/internal/middleware"
	"github.com/shopspring/decimal"
)

type mockCashflowStore struct {
	records []database.Cashflow
}

func (m *mockCashflowStore) CreateCashflow(_ context.Context, arg database.CreateCashflowParams) (database.Cashflow, error) {
	cf := database.Cashflow{
		ID:          uuid.New(),
		StoreID:     arg.StoreID,
		SetoranID:   arg.SetoranID,
		Category:    arg.Category,
		Amount:      arg.Amount,
		Description: arg.Description,
		CreatedAt:   time.Now(),
	}
	m.records = append(m.records, cf)
	return cf, nil
}

func (m *mockCashflowStore) ListCashflow(_ context.Context, arg database.ListCashflowParams) ([]database.Cashflow, error) {
	var result []database.Cashflow
	for _, cf := range m.records {
		if arg.StoreID.Valid && cf.StoreID != arg.StoreID.Bytes {
			continue
		}
		if arg.Category.Valid && cf.Category != arg.Category.String {
			continue
		}
		result = append(result, cf)
	}
	return result, nil
}

func (m *mockCashflowStore) SumCashflowByStore(_ context.Context, storeID uuid.UUID, _, _ pgtype.Timestamptz) (database.SumCashflowByStoreRow, error) {
	income := decimal.Zero
	expense := decimal.Zero
	for _, cf := range m.records {
		if cf.StoreID != storeID {
			continue
		}
		amount, err := numericDecimalValue(cf.Amount)
		if err != nil {
			return database.SumCashflowByStoreRow{}, err
		}
		if cf.Category == enum.CashflowIncome {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}
	}
	row := database.SumCashflowByStoreRow{}
	if err := row.TotalIncome.Scan(income.String()); err != nil {
		return row, err
	}
	if err := row.TotalExpense.Scan(expense.String()); err != nil {
		return row, err
	}
	return row, nil
}

func numericDecimalValue(n pgtype.Numeric) (decimal.Decimal, error) {
	v, err := n.Value()
	if err != nil {
		return decimal.Zero, err
	}
	s, _ := v.(string)
	return decimal.NewFromString(s)
}

func setupCashflowRouter(store *mockCashflowStore) *chi.Mux {
	h := handler.NewCashflowHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/stores/{sid}/cashflow", func(r chi.Router) {
		r.Use(middleware.RequireStore)
		h.RegisterRoutes(r)
	})
	return r
}

func TestCashflowCreateManualEntry(t *testing.T) {
	storeID := uuid.New()
	store := &mockCashflowStore{}
	router := setupCashflowRouter(store)

	body := map[string]interface{}{
		"category":    "Expense",
		"amount":      "1.500.000",
		"description": "sewa ruko bulan Mei",
	}

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/cashflow/", body, testClaims(storeID, enum.RoleManager))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	// "1.500.000" is thousand-separated input: only the last group is a
	// decimal fraction, truncated to three digits.
	if resp["amount"] != "1.50" {
		t.Errorf("amount = %v, want 1.50", resp["amount"])
	}
	if resp["setoran_id"] != nil {
		t.Errorf("manual entry should not reference a setoran, got %v", resp["setoran_id"])
	}
}

func TestCashflowCreateRejectsUnknownCategory(t *testing.T) {
	storeID := uuid.New()
	router := setupCashflowRouter(&mockCashflowStore{})

	body := map[string]interface{}{
		"category":    "Transfer",
		"amount":      "100000",
		"description": "x",
	}

	rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/cashflow/", body, testClaims(storeID, enum.RoleManager))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestCashflowListFilterByCategory(t *testing.T) {
	storeID := uuid.New()
	store := &mockCashflowStore{}
	router := setupCashflowRouter(store)
	claims := testClaims(storeID, enum.RoleManager)

	for _, e := range []map[string]interface{}{
		{"category": "Income", "amount": "200000", "description": "pembayaran hutang"},
		{"category": "Expense", "amount": "50000", "description": "beli air galon"},
	} {
		rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/cashflow/", e, claims)
		if rr.Code != http.StatusCreated {
			t.Fatalf("setup create failed: %d", rr.Code)
		}
	}

	rr := doAuthRequest(t, router, http.MethodGet, "/stores/"+storeID.String()+"/cashflow/?category=Income", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	items, ok := decodeResponse(t, rr)["cashflow"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 income record, got %v", items)
	}
}

func TestCashflowSummary(t *testing.T) {
	storeID := uuid.New()
	store := &mockCashflowStore{}
	router := setupCashflowRouter(store)
	claims := testClaims(storeID, enum.RoleManager)

	for _, e := range []map[string]interface{}{
		{"category": "Income", "amount": "300000", "description": "a"},
		{"category": "Expense", "amount": "120000", "description": "b"},
	} {
		rr := doAuthRequest(t, router, http.MethodPost, "/stores/"+storeID.String()+"/cashflow/", e, claims)
		if rr.Code != http.StatusCreated {
			t.Fatalf("setup create failed: %d", rr.Code)
		}
	}

	rr := doAuthRequest(t, router, http.MethodGet, "/stores/"+storeID.String()+"/cashflow/summary", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["total_income"] != "300000.00" {
		t.Errorf("total_income = %v, want 300000.00", resp["total_income"])
	}
	if resp["total_expense"] != "120000.00" {
		t.Errorf("total_expense = %v, want 120000.00", resp["total_expense"])
	}
	if resp["net"] != "180000.00" {
		t.Errorf("net = %v, want 180000.00", resp["net"])
	}
}
