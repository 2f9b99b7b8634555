package category

import (
	"context"

	domain "kupu/internal/domain/category"
)

// Store persists word categories.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	FindIDByName(ctx context.Context, name string) (string, error)
	Save(ctx context.Context, value domain.Category) error
	Delete(ctx context.Context, id string) error
}
