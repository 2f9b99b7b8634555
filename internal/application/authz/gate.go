package authz

import (
	"context"
	"errors"
	"log/slog"

	"kupu/internal/domain/account"
)

// ErrForbidden is returned when the gate rejects a mutating operation.
var ErrForbidden = errors.New("you do not have permission to perform this action")

// Identity is the per-request caller identity, extracted from the
// session by the HTTP layer and passed explicitly into every operation.
// The zero value is the anonymous caller.
type Identity struct {
	AccountID string
	Email     string
	FirstName string
	LastName  string
	RoleName  string
}

// IsAuthenticated reports whether an identity is present.
// INVARIANT: Identity fields are not mutated
func (id Identity) IsAuthenticated() bool {
	return id.Email != ""
}

// DisplayName formats the identity for page headers, e.g.
// "Hine Kawharu (Teacher)". Empty for the anonymous caller.
func (id Identity) DisplayName() string {
	if !id.IsAuthenticated() {
		return ""
	}
	name := id.FirstName + " " + id.LastName
	if id.RoleName != "" {
		name += " (" + account.NormalizeName(id.RoleName) + ")"
	}
	return name
}

// RolePermissionStore reads the current edit permission for the role of
// the account with the given email.
type RolePermissionStore interface {
	GetEditPermission(ctx context.Context, email string) (bool, error)
}

// Gate computes per-request authorization decisions. Role membership can
// change between requests, so CanEdit re-reads the store on every call
// and nothing is cached.
type Gate struct {
	roles RolePermissionStore
}

// NewGate creates a Gate backed by the given role store.
func NewGate(roles RolePermissionStore) *Gate {
	return &Gate{roles: roles}
}

// CanEdit reports whether the identity's role currently grants edit
// rights. Fails closed: an anonymous caller, a missing account/role row,
// or a store failure all resolve to false, never an error. A store
// result can never override a failed authentication check.
func (g *Gate) CanEdit(ctx context.Context, id Identity) bool {
	if !id.IsAuthenticated() {
		return false
	}
	allow, err := g.roles.GetEditPermission(ctx, id.Email)
	if err != nil {
		if !errors.Is(err, account.ErrNotFound) {
			slog.Warn("authz_event", "event", "permission_lookup_failed", "email", id.Email, "error", err.Error())
		}
		return false
	}
	return allow
}

// Require returns ErrForbidden unless the identity is authenticated and
// its role grants edit rights. Every mutating operation calls this
// before touching the store.
func (g *Gate) Require(ctx context.Context, id Identity) error {
	if !id.IsAuthenticated() || !g.CanEdit(ctx, id) {
		return ErrForbidden
	}
	return nil
}
