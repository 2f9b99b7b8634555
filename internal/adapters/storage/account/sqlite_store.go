package account

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kupu/internal/adapters/storage"
	domain "kupu/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	query := "SELECT id, first_name, last_name, email, password_hash, role_id, created_at FROM account WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}
	return entity, err
}

// GetByEmail retrieves an Account by email.
// PRE: email has been normalized to lowercase
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	query := "SELECT id, first_name, last_name, email, password_hash, role_id, created_at FROM account WHERE email = ?"
	row := s.db.QueryRowContext(ctx, query, email)

	entity, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "first_name", "last_name", "email", "password_hash", "role_id", "created_at"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"first_name=excluded.first_name",
		"last_name=excluded.last_name",
		"email=excluded.email",
		"password_hash=excluded.password_hash",
		"role_id=excluded.role_id",
	}

	query := fmt.Sprintf(
		"INSERT INTO account (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.FirstName,
		entity.LastName,
		entity.Email,
		entity.PasswordHash,
		entity.RoleID,
		entity.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrDuplicateEmail
		}
		return err
	}

	return tx.Commit()
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// GetRoleByID retrieves a Role by its ID.
func (s *SQLiteStore) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, allow_edit FROM role WHERE id = ?", id)
	return scanRole(row)
}

// GetRoleByName retrieves a Role by its unique name.
func (s *SQLiteStore) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, allow_edit FROM role WHERE name = ?", name)
	return scanRole(row)
}

// SaveRole persists a Role to the database.
func (s *SQLiteStore) SaveRole(ctx context.Context, entity domain.Role) error {
	allowEdit := 0
	if entity.AllowEdit {
		allowEdit = 1
	}
	query := "INSERT INTO role (id, name, allow_edit) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET name=excluded.name, allow_edit=excluded.allow_edit"
	_, err := s.db.ExecContext(ctx, query, entity.ID, entity.Name, allowEdit)
	return err
}

// GetEditPermission reads the edit flag of the account's role straight
// from the database so permission changes take effect on the next call.
// POST: Returns domain.ErrNotFound when no account has the email
func (s *SQLiteStore) GetEditPermission(ctx context.Context, email string) (bool, error) {
	var allowEdit int
	query := "SELECT r.allow_edit FROM role r JOIN account a ON a.role_id = r.id WHERE a.email = ?"
	err := s.db.QueryRowContext(ctx, query, email).Scan(&allowEdit)
	if err == sql.ErrNoRows {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return allowEdit != 0, nil
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...interface{}) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&entity.PasswordHash,
		&entity.RoleID,
		&createdAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		slog.Warn("account_time_unparsable", "account_id", entity.ID, "value", createdAt, "error", err.Error())
	}
	return entity, nil
}

func scanRole(row *sql.Row) (domain.Role, error) {
	var entity domain.Role
	var allowEdit int
	err := row.Scan(&entity.ID, &entity.Name, &allowEdit)
	if err == sql.ErrNoRows {
		return domain.Role{}, domain.ErrRoleNotFound
	}
	if err != nil {
		return domain.Role{}, err
	}
	entity.AllowEdit = allowEdit != 0
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
