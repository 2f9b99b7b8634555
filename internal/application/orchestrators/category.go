package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"kupu/internal/application/authz"
	"kupu/internal/domain/category"
)

// CategoryStoreForWrite defines the store interface needed by the category orchestrators.
type CategoryStoreForWrite interface {
	GetByID(ctx context.Context, id string) (category.Category, error)
	FindIDByName(ctx context.Context, name string) (string, error)
	Save(ctx context.Context, c category.Category) error
	Delete(ctx context.Context, id string) error
}

// CategoryDeps holds dependencies for the category orchestrators.
type CategoryDeps struct {
	CategoryStore CategoryStoreForWrite
	Gate          Authorizer
	GenerateID    func() string
}

// AddCategoryInput carries input for the add category orchestrator.
type AddCategoryInput struct {
	Name   string
	Caller authz.Identity
}

// ExecuteAddCategory creates a new category with a normalized name.
// PRE: Caller's role currently allows editing
// POST: Category saved with a generated ID and title-cased name
// INVARIANT: Category names are unique after normalization
func ExecuteAddCategory(ctx context.Context, input AddCategoryInput, deps CategoryDeps) (category.Category, error) {
	if err := deps.Gate.Require(ctx, input.Caller); err != nil {
		return category.Category{}, err
	}

	c := category.Category{
		ID:   deps.GenerateID(),
		Name: category.NormalizeName(input.Name),
	}

	if err := c.Validate(); err != nil {
		return category.Category{}, err
	}

	if _, err := deps.CategoryStore.FindIDByName(ctx, c.Name); err == nil {
		return category.Category{}, category.ErrDuplicateName
	} else if !errors.Is(err, category.ErrNotFound) {
		return category.Category{}, err
	}

	if err := deps.CategoryStore.Save(ctx, c); err != nil {
		return category.Category{}, err
	}

	slog.Info("category_event", "event", "category_added", "category_id", c.ID, "name", c.Name, "added_by", input.Caller.Email)
	return c, nil
}

// DeleteCategoryInput carries input for the delete category orchestrator.
type DeleteCategoryInput struct {
	CategoryID string
	Caller     authz.Identity
}

// ExecuteDeleteCategory removes a category and, through the store's
// cascade, every entry filed under it.
// PRE: Caller's role currently allows editing; category exists
// POST: Category and its entries removed
func ExecuteDeleteCategory(ctx context.Context, input DeleteCategoryInput, deps CategoryDeps) error {
	if err := deps.Gate.Require(ctx, input.Caller); err != nil {
		return err
	}

	c, err := deps.CategoryStore.GetByID(ctx, input.CategoryID)
	if err != nil {
		return err
	}

	if err := deps.CategoryStore.Delete(ctx, c.ID); err != nil {
		return err
	}

	slog.Info("category_event", "event", "category_deleted", "category_id", c.ID, "name", c.Name, "deleted_by", input.Caller.Email)
	return nil
}
