package entry

import (
	"context"

	domain "kupu/internal/domain/entry"
	"kupu/internal/domain/search"
)

// Store persists dictionary entries.
type Store interface {
	Search(ctx context.Context, plan search.Plan) ([]domain.Result, error)
	ByLetter(ctx context.Context, letter string) ([]domain.Result, error)
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	GetDetail(ctx context.Context, id string) (domain.Detail, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Result, error)
	FindIDByMaori(ctx context.Context, maori, excludeID string) (string, error)
	Save(ctx context.Context, value domain.Entry) error
	Delete(ctx context.Context, id string) error
}
