package setoran

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/setoran-harian/api/internal/database"
	"github.com/shopspring/decimal"
)

// mockStore records every call and lets individual methods be overridden.
type mockStore struct {
	createSetoranFn    func(database.CreateSetoranParams) (database.Setoran, error)
	createAttendanceFn func(database.CreateAttendanceParams) (database.Attendance, error)
	createSalesFn      func(database.CreateSalesParams) (database.Sales, error)
	createCashflowFn   func(database.CreateCashflowParams) (database.Cashflow, error)
	getUserByIDFn      func(uuid.UUID) (database.User, error)

	setoranCalls    []database.CreateSetoranParams
	attendanceCalls []database.CreateAttendanceParams
	salesCalls      []database.CreateSalesParams
	cashflowCalls   []database.CreateCashflowParams
}

func (m *mockStore) CreateSetoran(_ context.Context, arg database.CreateSetoranParams) (database.Setoran, error) {
	m.setoranCalls = append(m.setoranCalls, arg)
	if m.createSetoranFn != nil {
		return m.createSetoranFn(arg)
	}
	return database.Setoran{
		ID:          uuid.New(),
		StoreID:     arg.StoreID,
		SubmittedBy: arg.SubmittedBy,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *mockStore) CreateAttendance(_ context.Context, arg database.CreateAttendanceParams) (database.Attendance, error) {
	m.attendanceCalls = append(m.attendanceCalls, arg)
	if m.createAttendanceFn != nil {
		return m.createAttendanceFn(arg)
	}
	return database.Attendance{ID: uuid.New(), UserID: arg.UserID, StoreID: arg.StoreID}, nil
}

func (m *mockStore) CreateSales(_ context.Context, arg database.CreateSalesParams) (database.Sales, error) {
	m.salesCalls = append(m.salesCalls, arg)
	if m.createSalesFn != nil {
		return m.createSalesFn(arg)
	}
	return database.Sales{ID: uuid.New(), StoreID: arg.StoreID}, nil
}

func (m *mockStore) CreateCashflow(_ context.Context, arg database.CreateCashflowParams) (database.Cashflow, error) {
	m.cashflowCalls = append(m.cashflowCalls, arg)
	if m.createCashflowFn != nil {
		return m.createCashflowFn(arg)
	}
	return database.Cashflow{ID: uuid.New(), StoreID: arg.StoreID, Category: arg.Category, Description: arg.Description}, nil
}

func (m *mockStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return database.User{ID: id}, nil
}

func newTestService(store Store, strict bool) *Service {
	return NewService(store, decimal.NewFromInt(11500), time.Second, strict)
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

// numericDecimal converts pgtype.Numeric back for assertions.
func numericDecimal(t *testing.T, n pgtype.Numeric) decimal.Decimal {
	t.Helper()
	v, err := n.Value()
	if err != nil {
		t.Fatalf("numeric value: %v", err)
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("numeric value is %T, want string", v)
	}
	return dec(t, s)
}

func validSubmitRequest(t *testing.T, submitter Actor) SubmitRequest {
	t.Helper()
	return SubmitRequest{
		Submitter:    submitter,
		EmployeeName: "Budi",
		JamMasuk:     "07:00",
		JamKeluar:    "15:00",
		NomorAwal:    decPtr(t, "1000"),
		NomorAkhir:   decPtr(t, "1100"),
		QrisSetoran:  dec(t, "500000"),
		Expenses:     []ItemInput{{Description: "BBM operasional", Amount: dec(t, "50000")}},
	}
}

func TestSubmitRequiredFields(t *testing.T) {
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	tests := []struct {
		name    string
		mutate  func(*SubmitRequest)
		wantErr error
	}{
		{"missing employee name", func(r *SubmitRequest) { r.EmployeeName = "" }, ErrEmployeeNameRequired},
		{"missing jam masuk", func(r *SubmitRequest) { r.JamMasuk = "" }, ErrJamMasukRequired},
		{"missing jam keluar", func(r *SubmitRequest) { r.JamKeluar = "" }, ErrJamKeluarRequired},
		{"missing nomor awal", func(r *SubmitRequest) { r.NomorAwal = nil }, ErrNomorAwalRequired},
		{"missing nomor akhir", func(r *SubmitRequest) { r.NomorAkhir = nil }, ErrNomorAkhirRequired},
		{"malformed employee id", func(r *SubmitRequest) { r.EmployeeID = "not-a-uuid" }, ErrInvalidEmployeeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			req := validSubmitRequest(t, submitter)
			tt.mutate(&req)

			_, err := newTestService(store, false).Submit(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(store.setoranCalls) != 0 {
				t.Errorf("setoran was created despite validation failure")
			}
		})
	}
}

func TestSubmitRejectsIncompleteItems(t *testing.T) {
	store := &mockStore{}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	req := validSubmitRequest(t, submitter)
	req.Income = []ItemInput{{Description: "penjualan oli"}} // amount missing

	_, err := newTestService(store, false).Submit(context.Background(), req)
	if !errors.Is(err, ErrIncompleteItem) {
		t.Fatalf("error = %v, want ErrIncompleteItem", err)
	}
	if len(store.setoranCalls) != 0 {
		t.Errorf("setoran was created despite incomplete item")
	}
}

func TestSubmitRecomputesTotalsServerSide(t *testing.T) {
	store := &mockStore{}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	res, err := newTestService(store, false).Submit(context.Background(), validSubmitRequest(t, submitter))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatal("nil result")
	}

	if len(store.setoranCalls) != 1 {
		t.Fatalf("got %d setoran inserts, want 1", len(store.setoranCalls))
	}
	arg := store.setoranCalls[0]

	checks := map[string]struct {
		got  pgtype.Numeric
		want string
	}{
		"total_liter":       {arg.TotalLiter, "100"},
		"total_setoran":     {arg.TotalSetoran, "1150000"},
		"cash_setoran":      {arg.CashSetoran, "650000"},
		"total_pengeluaran": {arg.TotalPengeluaran, "50000"},
		"total_keseluruhan": {arg.TotalKeseluruhan, "600000"},
	}
	for name, c := range checks {
		if got := numericDecimal(t, c.got); !got.Equal(dec(t, c.want)) {
			t.Errorf("%s = %s, want %s", name, got, c.want)
		}
	}

	// Derived records were posted for the submitter's store.
	if len(store.salesCalls) != 1 {
		t.Fatalf("got %d sales inserts, want 1", len(store.salesCalls))
	}
	if store.salesCalls[0].Transactions != 100 {
		t.Errorf("transactions = %d, want 100", store.salesCalls[0].Transactions)
	}
	if len(store.cashflowCalls) != 1 {
		t.Fatalf("got %d cashflow inserts, want 1", len(store.cashflowCalls))
	}
	if store.cashflowCalls[0].Category != "Expense" {
		t.Errorf("cashflow category = %q, want Expense", store.cashflowCalls[0].Category)
	}
}

func TestSubmitPrimaryFailureSkipsPosting(t *testing.T) {
	boom := errors.New("insert failed")
	store := &mockStore{
		createSetoranFn: func(database.CreateSetoranParams) (database.Setoran, error) {
			return database.Setoran{}, boom
		},
	}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	_, err := newTestService(store, false).Submit(context.Background(), validSubmitRequest(t, submitter))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped insert failure", err)
	}
	if len(store.attendanceCalls)+len(store.salesCalls)+len(store.cashflowCalls) != 0 {
		t.Errorf("derived records were posted after a failed setoran insert")
	}
}

func TestSubmitCashflowItemIsolation(t *testing.T) {
	calls := 0
	store := &mockStore{
		createCashflowFn: func(arg database.CreateCashflowParams) (database.Cashflow, error) {
			calls++
			if calls == 1 {
				return database.Cashflow{}, errors.New("deadlock detected")
			}
			return database.Cashflow{ID: uuid.New(), Description: arg.Description}, nil
		},
	}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	req := validSubmitRequest(t, submitter)
	req.Expenses = []ItemInput{
		{Description: "BBM", Amount: dec(t, "50000")},
		{Description: "listrik", Amount: dec(t, "30000")},
	}

	res, err := newTestService(store, false).Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.cashflowCalls) != 2 {
		t.Fatalf("got %d cashflow attempts, want 2", len(store.cashflowCalls))
	}
	if len(res.Cashflow) != 1 {
		t.Fatalf("got %d persisted cashflow records, want 1", len(res.Cashflow))
	}
	if res.Cashflow[0].Description != "listrik" {
		t.Errorf("survivor = %q, want listrik", res.Cashflow[0].Description)
	}
}

func TestSubmitAttendanceFailureIsBestEffort(t *testing.T) {
	store := &mockStore{
		createAttendanceFn: func(database.CreateAttendanceParams) (database.Attendance, error) {
			return database.Attendance{}, errors.New("unique violation")
		},
	}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	req := validSubmitRequest(t, submitter)
	req.EmployeeID = submitter.ID.String()

	res, err := newTestService(store, false).Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attendance != nil {
		t.Error("attendance reported despite failed insert")
	}
	if res.Sales == nil {
		t.Error("sales branch was skipped after attendance failure")
	}
}

func TestSubmitSkipsAttendanceWithoutEmployeeID(t *testing.T) {
	store := &mockStore{}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	res, err := newTestService(store, false).Submit(context.Background(), validSubmitRequest(t, submitter))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.attendanceCalls) != 0 {
		t.Errorf("attendance attempted without an employee id")
	}
	if res.Attendance != nil {
		t.Error("attendance reported without an employee id")
	}
}

func TestSubmitStrictModePropagatesBranchFailure(t *testing.T) {
	store := &mockStore{
		createSalesFn: func(database.CreateSalesParams) (database.Sales, error) {
			return database.Sales{}, errors.New("connection reset")
		},
	}
	submitter := Actor{ID: uuid.New(), StoreID: uuid.New(), Role: "staff"}

	_, err := newTestService(store, true).Submit(context.Background(), validSubmitRequest(t, submitter))
	if !errors.Is(err, ErrPostingFailed) {
		t.Fatalf("error = %v, want ErrPostingFailed", err)
	}
}
