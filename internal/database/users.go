package database

import (
	"context"

	"github.com/google/uuid"
)

const createUser = `
INSERT INTO users (store_id, email, hashed_password, full_name, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, store_id, email, hashed_password, full_name, role, is_active, created_at, updated_at
`

type CreateUserParams struct {
	StoreID        uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.StoreID, arg.Email, arg.HashedPassword, arg.FullName, arg.Role)
	var u User
	err := scanUser(row, &u)
	return u, err
}

const getUserByEmail = `
SELECT id, store_id, email, hashed_password, full_name, role, is_active, created_at, updated_at
FROM users
WHERE email = $1 AND is_active = true
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := scanUser(row, &u)
	return u, err
}

const getUserByID = `
SELECT id, store_id, email, hashed_password, full_name, role, is_active, created_at, updated_at
FROM users
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := scanUser(row, &u)
	return u, err
}

const listUsersByStore = `
SELECT id, store_id, email, hashed_password, full_name, role, is_active, created_at, updated_at
FROM users
WHERE store_id = $1 AND is_active = true
ORDER BY full_name
`

func (q *Queries) ListUsersByStore(ctx context.Context, storeID uuid.UUID) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsersByStore, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const updateUser = `
UPDATE users
SET email = $3, full_name = $4, role = $5, updated_at = now()
WHERE id = $1 AND store_id = $2 AND is_active = true
RETURNING id, store_id, email, hashed_password, full_name, role, is_active, created_at, updated_at
`

type UpdateUserParams struct {
	ID       uuid.UUID
	StoreID  uuid.UUID
	Email    string
	FullName string
	Role     string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUser,
		arg.ID, arg.StoreID, arg.Email, arg.FullName, arg.Role)
	var u User
	err := scanUser(row, &u)
	return u, err
}

const deactivateUser = `
UPDATE users
SET is_active = false, updated_at = now()
WHERE id = $1 AND store_id = $2 AND is_active = true
RETURNING id
`

type DeactivateUserParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) DeactivateUser(ctx context.Context, arg DeactivateUserParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deactivateUser, arg.ID, arg.StoreID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

func scanUser(row scanner, u *User) error {
	return row.Scan(&u.ID, &u.StoreID, &u.Email, &u.HashedPassword, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}
