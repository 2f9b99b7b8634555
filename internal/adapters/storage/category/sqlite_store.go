package category

import (
	"context"
	"database/sql"
	"strings"

	"kupu/internal/adapters/storage"
	domain "kupu/internal/domain/category"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new category store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Category by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM category WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, err
}

// List retrieves all categories ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM category ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// FindIDByName returns the id of the category with the exact name.
// POST: Returns domain.ErrNotFound when no category has the name
func (s *SQLiteStore) FindIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM category WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	return id, err
}

// Save persists a Category to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Category) error {
	query := "INSERT INTO category (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name=excluded.name"
	_, err := s.db.ExecContext(ctx, query, entity.ID, entity.Name)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicateName
	}
	return err
}

// Delete removes a Category. Entries in the category go with it via
// the ON DELETE CASCADE foreign key.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM category WHERE id = ?", id)
	return err
}
