package account

import (
	"context"

	domain "kupu/internal/domain/account"
)

// Store persists accounts and roles.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)
	SaveRole(ctx context.Context, value domain.Role) error
	GetEditPermission(ctx context.Context, email string) (bool, error)
}
