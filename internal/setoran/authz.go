package setoran

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
)

// Errors returned by the attendance target resolver.
var (
	// ErrCrossStore is an authorization failure: a manager may only act
	// on employees of their own store.
	ErrCrossStore = errors.New("target employee belongs to a different store")
	// ErrTargetNotFound is a validation-class failure: the requested
	// employee id does not resolve to an active user.
	ErrTargetNotFound = errors.New("target employee not found")
	// ErrUnknownRole guards the exhaustive role switch.
	ErrUnknownRole = errors.New("unknown role")
)

// Actor is the authenticated submitter as seen by the resolver.
type Actor struct {
	ID      uuid.UUID
	StoreID uuid.UUID
	Role    string
}

// Target is the resolved identity an attendance record will be written for.
type Target struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
}

// UserGetter is the single lookup the resolver needs.
// Satisfied by *database.Queries.
type UserGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// ResolveAttendanceTarget decides whether submitter may post attendance
// for targetID and which store the record belongs to.
//
// Rules:
//   - self (or no target given): always allowed, submitter's store.
//   - staff naming someone else: silently falls back to self. The legacy
//     dashboard behaved this way rather than rejecting; kept as-is
//     pending product review.
//   - manager: allowed only for employees of the same store.
//   - administrasi: allowed for anyone; the record lands in the target's
//     store, or the submitter's when the target has none.
func ResolveAttendanceTarget(ctx context.Context, users UserGetter, submitter Actor, targetID *uuid.UUID) (Target, error) {
	self := Target{UserID: submitter.ID, StoreID: submitter.StoreID}

	if targetID == nil || *targetID == submitter.ID {
		return self, nil
	}

	switch submitter.Role {
	case enum.RoleStaff:
		return self, nil

	case enum.RoleManager:
		target, err := users.GetUserByID(ctx, *targetID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Target{}, ErrTargetNotFound
			}
			return Target{}, fmt.Errorf("get target user: %w", err)
		}
		if target.StoreID != submitter.StoreID {
			return Target{}, ErrCrossStore
		}
		return Target{UserID: target.ID, StoreID: target.StoreID}, nil

	case enum.RoleAdministrasi:
		target, err := users.GetUserByID(ctx, *targetID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Target{}, ErrTargetNotFound
			}
			return Target{}, fmt.Errorf("get target user: %w", err)
		}
		storeID := target.StoreID
		if storeID == uuid.Nil {
			storeID = submitter.StoreID
		}
		return Target{UserID: target.ID, StoreID: storeID}, nil

	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownRole, submitter.Role)
	}
}
