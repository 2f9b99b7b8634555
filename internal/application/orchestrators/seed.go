package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kupu/internal/domain/account"
)

// AccountStoreForSeed defines the store interface needed by the seed orchestrators.
type AccountStoreForSeed interface {
	GetRoleByName(ctx context.Context, name string) (account.Role, error)
	SaveRole(ctx context.Context, r account.Role) error
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// SeedDeps holds dependencies for the seed orchestrators.
type SeedDeps struct {
	AccountStore AccountStoreForSeed
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSeedRoles creates the teacher and student roles if they do not
// exist yet. Safe to run on every startup.
// POST: Both roles exist; existing roles are left untouched
func ExecuteSeedRoles(ctx context.Context, deps SeedDeps) error {
	roles := []account.Role{
		{Name: account.RoleTeacher, AllowEdit: true},
		{Name: account.RoleStudent, AllowEdit: false},
	}
	for _, r := range roles {
		_, err := deps.AccountStore.GetRoleByName(ctx, r.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, account.ErrRoleNotFound) {
			return err
		}
		r.ID = deps.GenerateID()
		if err := deps.AccountStore.SaveRole(ctx, r); err != nil {
			return err
		}
		slog.Info("seed_event", "event", "role_seeded", "role", r.Name, "allow_edit", r.AllowEdit)
	}
	return nil
}

// ExecuteSeedAdmin creates a first teacher account when the database has
// no accounts at all, so a fresh install can log in and start editing.
// PRE: Roles have been seeded
// POST: Teacher account created if count == 0, otherwise no-op
func ExecuteSeedAdmin(ctx context.Context, deps SeedDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	role, err := deps.AccountStore.GetRoleByName(ctx, account.RoleTeacher)
	if err != nil {
		return err
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		FirstName: "Kaiako",
		LastName:  "Matua",
		Email:     account.NormalizeEmail(email),
		RoleID:    role.ID,
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "admin_seeded", "email", acct.Email)
	return nil
}
