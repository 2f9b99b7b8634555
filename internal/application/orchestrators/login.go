package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"kupu/internal/application/authz"
	"kupu/internal/domain/account"
)

// ErrInvalidCredentials is returned for any failed login. The caller
// cannot tell a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	GetRoleByID(ctx context.Context, id string) (account.Role, error)
}

// LoginInput carries the login form values.
type LoginInput struct {
	Email    string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

// ExecuteLogin verifies credentials and returns the caller identity the
// HTTP layer stores in the session.
// POST: On success the returned identity carries the account's current
// role name; on any failure the result is ErrInvalidCredentials
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (authz.Identity, error) {
	email := account.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return authz.Identity{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "unknown email")
		return authz.Identity{}, ErrInvalidCredentials
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong password")
		return authz.Identity{}, ErrInvalidCredentials
	}

	role, err := deps.AccountStore.GetRoleByID(ctx, acct.RoleID)
	if err != nil {
		slog.Warn("auth_event", "event", "login_role_missing", "email", email, "role_id", acct.RoleID)
		return authz.Identity{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_succeeded", "email", email, "role", role.Name)
	return authz.Identity{
		AccountID: acct.ID,
		Email:     acct.Email,
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		RoleName:  role.Name,
	}, nil
}
