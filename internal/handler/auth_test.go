package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/handler"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthStore struct {
	users map[string]database.User
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	u, ok := m.users[email]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func setupAuthRouter(t *testing.T) (*chi.Mux, database.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := database.User{
		ID:             uuid.New(),
		StoreID:        uuid.New(),
		Email:          "kasir@spbu.local",
		HashedPassword: string(hash),
		FullName:       "Kasir Satu",
		Role:           enum.RoleStaff,
		IsActive:       true,
	}

	store := &mockAuthStore{users: map[string]database.User{user.Email: user}}
	h := handler.NewAuthHandler(store, testJWTSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, user
}

func TestLoginSuccess(t *testing.T) {
	router, user := setupAuthRouter(t)

	body := map[string]interface{}{"email": user.Email, "password": "rahasia123"}
	rr := doAuthRequest(t, router, http.MethodPost, "/auth/login", body, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["token"] == "" || resp["token"] == nil {
		t.Error("response is missing a token")
	}
	u, ok := resp["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("user field is %T", resp["user"])
	}
	if u["email"] != user.Email {
		t.Errorf("user email = %v, want %s", u["email"], user.Email)
	}
	if _, hasHash := u["hashed_password"]; hasHash {
		t.Error("response leaks the password hash")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, user := setupAuthRouter(t)

	body := map[string]interface{}{"email": user.Email, "password": "salah"}
	rr := doAuthRequest(t, router, http.MethodPost, "/auth/login", body, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router, _ := setupAuthRouter(t)

	body := map[string]interface{}{"email": "nobody@spbu.local", "password": "rahasia123"}
	rr := doAuthRequest(t, router, http.MethodPost, "/auth/login", body, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	inactive := database.User{
		ID:             uuid.New(),
		StoreID:        uuid.New(),
		Email:          "mantan@spbu.local",
		HashedPassword: string(hash),
		Role:           enum.RoleStaff,
		IsActive:       false,
	}
	store := &mockAuthStore{users: map[string]database.User{inactive.Email: inactive}}
	h := handler.NewAuthHandler(store, testJWTSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	body := map[string]interface{}{"email": inactive.Email, "password": "rahasia123"}
	rr := doAuthRequest(t, r, http.MethodPost, "/auth/login", body, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rr := doAuthRequest(t, router, http.MethodPost, "/auth/login", map[string]interface{}{"email": "kasir@spbu.local"}, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
