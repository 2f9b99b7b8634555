package entry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kupu/internal/adapters/storage"
	domain "kupu/internal/domain/entry"
	"kupu/internal/domain/search"
)

// resultColumns selects the listing projection: the entry plus the
// editor's name, which survives as empty strings when the editing
// account has been deleted.
const resultColumns = `SELECT e.id, e.maori, e.english, e.level, e.updated_at,
	ifnull(a.first_name, ''), ifnull(a.last_name, '')
	FROM entry e LEFT JOIN account a ON e.edited_by = a.id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new entry store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Search runs a search plan against the dictionary.
// PRE: plan was produced by search.BuildPlan
// POST: Returns matching entries in plan order; recent plans are capped
func (s *SQLiteStore) Search(ctx context.Context, plan search.Plan) ([]domain.Result, error) {
	var conds []string
	var args []interface{}

	if plan.Filters.HasMaori() {
		conds = append(conds, "e.maori LIKE ?")
		args = append(args, prefix(plan.Filters.Maori))
	}
	if plan.Filters.HasEnglish() {
		conds = append(conds, "e.english LIKE ?")
		args = append(args, prefix(plan.Filters.English))
	}
	if plan.Filters.HasLevel() {
		conds = append(conds, "e.level = ?")
		args = append(args, plan.Filters.Level)
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(resultColumns)
	if len(conds) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conds, " AND "))
	}
	if plan.MostRecent {
		queryBuilder.WriteString(" ORDER BY e.updated_at DESC, e.maori, e.english LIMIT ?")
		args = append(args, search.RecentLimit)
	} else {
		queryBuilder.WriteString(" ORDER BY e.maori, e.english")
	}

	return s.queryResults(ctx, queryBuilder.String(), args...)
}

// ByLetter lists entries whose headword starts with the given letter.
// PRE: letter was validated by search.BrowseLetter
// POST: Returns matching entries ordered by headword
func (s *SQLiteStore) ByLetter(ctx context.Context, letter string) ([]domain.Result, error) {
	query := resultColumns + " WHERE e.maori LIKE ? ORDER BY e.maori, e.english"
	return s.queryResults(ctx, query, prefix(letter))
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	query := "SELECT id, maori, english, description, level, category_id, updated_at, edited_by FROM entry WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, domain.ErrNotFound
	}
	return entity, err
}

// GetDetail retrieves an Entry together with its editor's name.
// PRE: id is non-empty
// POST: Returns the detail or domain.ErrNotFound
func (s *SQLiteStore) GetDetail(ctx context.Context, id string) (domain.Detail, error) {
	query := `SELECT e.id, e.maori, e.english, e.description, e.level, e.category_id, e.updated_at, e.edited_by,
		ifnull(a.first_name, ''), ifnull(a.last_name, '')
		FROM entry e LEFT JOIN account a ON e.edited_by = a.id WHERE e.id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	var detail domain.Detail
	var updatedAt string
	var categoryID, editedBy sql.NullString
	err := row.Scan(
		&detail.ID,
		&detail.Maori,
		&detail.English,
		&detail.Description,
		&detail.Level,
		&categoryID,
		&updatedAt,
		&editedBy,
		&detail.EditorFirstName,
		&detail.EditorLastName,
	)
	if err == sql.ErrNoRows {
		return domain.Detail{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Detail{}, err
	}
	detail.UpdatedAt = parseStoredTime(detail.ID, updatedAt)
	detail.CategoryID = categoryID.String
	detail.EditedBy = editedBy.String
	return detail, nil
}

// ListByCategory lists all entries in a category ordered by headword.
func (s *SQLiteStore) ListByCategory(ctx context.Context, categoryID string) ([]domain.Result, error) {
	query := resultColumns + " WHERE e.category_id = ? ORDER BY e.maori, e.english"
	return s.queryResults(ctx, query, categoryID)
}

// FindIDByMaori returns the id of the entry with the exact headword,
// skipping excludeID so an update does not collide with itself.
// POST: Returns domain.ErrNotFound when no other entry has the headword
func (s *SQLiteStore) FindIDByMaori(ctx context.Context, maori, excludeID string) (string, error) {
	var id string
	query := "SELECT id FROM entry WHERE maori = ? AND id <> ?"
	err := s.db.QueryRowContext(ctx, query, maori, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	return id, err
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "maori", "english", "description", "level", "category_id", "updated_at", "edited_by"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"maori=excluded.maori",
		"english=excluded.english",
		"description=excluded.description",
		"level=excluded.level",
		"category_id=excluded.category_id",
		"updated_at=excluded.updated_at",
		"edited_by=excluded.edited_by",
	}

	query := fmt.Sprintf(
		"INSERT INTO entry (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var categoryID, editedBy interface{}
	if entity.CategoryID != "" {
		categoryID = entity.CategoryID
	}
	if entity.EditedBy != "" {
		editedBy = entity.EditedBy
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Maori,
		entity.English,
		entity.Description,
		entity.Level,
		categoryID,
		entity.UpdatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
		editedBy,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrDuplicateHeadword
		}
		return err
	}

	return tx.Commit()
}

// Delete removes an Entry from the database.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entry WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) queryResults(ctx context.Context, query string, args ...interface{}) ([]domain.Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var r domain.Result
		var updatedAt string
		err := rows.Scan(&r.ID, &r.Maori, &r.English, &r.Level, &updatedAt, &r.EditorFirstName, &r.EditorLastName)
		if err != nil {
			return nil, err
		}
		r.UpdatedAt = parseStoredTime(r.ID, updatedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

// scanEntry extracts an Entry from a row scanner function.
func scanEntry(scan func(dest ...interface{}) error) (domain.Entry, error) {
	var entity domain.Entry
	var updatedAt string
	var categoryID, editedBy sql.NullString
	err := scan(
		&entity.ID,
		&entity.Maori,
		&entity.English,
		&entity.Description,
		&entity.Level,
		&categoryID,
		&updatedAt,
		&editedBy,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	entity.UpdatedAt = parseStoredTime(entity.ID, updatedAt)
	entity.CategoryID = categoryID.String
	entity.EditedBy = editedBy.String
	return entity, nil
}

func prefix(s string) string {
	return s + "%"
}

// parseStoredTime parses a stored timestamp, logging rows whose value
// no longer parses instead of silently sorting them to the epoch.
func parseStoredTime(id, s string) time.Time {
	t, err := parseTime(s)
	if err != nil {
		slog.Warn("entry_time_unparsable", "entry_id", id, "value", s, "error", err.Error())
	}
	return t
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
