package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"kupu/internal/application/authz"
	"kupu/internal/domain/entry"
)

// Authorizer gates mutating operations on the caller's current role.
type Authorizer interface {
	Require(ctx context.Context, id authz.Identity) error
}

// EntryStoreForWrite defines the store interface needed by the word orchestrators.
type EntryStoreForWrite interface {
	GetByID(ctx context.Context, id string) (entry.Entry, error)
	FindIDByMaori(ctx context.Context, maori, excludeID string) (string, error)
	Save(ctx context.Context, e entry.Entry) error
	Delete(ctx context.Context, id string) error
}

// WordDeps holds dependencies for the word orchestrators.
type WordDeps struct {
	EntryStore EntryStoreForWrite
	Gate       Authorizer
	GenerateID func() string
	Now        func() time.Time
}

// AddWordInput carries input for the add word orchestrator. Level is the
// raw form value and is parsed here.
type AddWordInput struct {
	Maori       string
	English     string
	Description string
	Level       string
	CategoryID  string
	Caller      authz.Identity
}

// ExecuteAddWord creates a new dictionary entry.
// PRE: Caller's role currently allows editing
// POST: Entry saved with a generated ID, stamped with editor and time
// INVARIANT: The Māori headword is unique across all entries
func ExecuteAddWord(ctx context.Context, input AddWordInput, deps WordDeps) (entry.Entry, error) {
	if err := deps.Gate.Require(ctx, input.Caller); err != nil {
		return entry.Entry{}, err
	}

	level, err := parseLevel(input.Level)
	if err != nil {
		return entry.Entry{}, err
	}

	e := entry.Entry{
		ID:          deps.GenerateID(),
		Maori:       strings.TrimSpace(input.Maori),
		English:     strings.TrimSpace(input.English),
		Description: strings.TrimSpace(input.Description),
		Level:       level,
		CategoryID:  input.CategoryID,
		UpdatedAt:   deps.Now(),
		EditedBy:    input.Caller.AccountID,
	}

	if err := e.Validate(); err != nil {
		return entry.Entry{}, err
	}

	if _, err := deps.EntryStore.FindIDByMaori(ctx, e.Maori, ""); err == nil {
		return entry.Entry{}, entry.ErrDuplicateHeadword
	} else if !errors.Is(err, entry.ErrNotFound) {
		return entry.Entry{}, err
	}

	if err := deps.EntryStore.Save(ctx, e); err != nil {
		return entry.Entry{}, err
	}

	slog.Info("word_event", "event", "word_added", "entry_id", e.ID, "maori", e.Maori, "edited_by", input.Caller.Email)
	return e, nil
}

// UpdateWordInput carries input for the update word orchestrator.
type UpdateWordInput struct {
	EntryID     string
	Maori       string
	English     string
	Description string
	Level       string
	Caller      authz.Identity
}

// ExecuteUpdateWord updates an existing entry and re-stamps the editor.
// PRE: Caller's role currently allows editing; entry exists
// POST: Entry fields replaced, UpdatedAt and EditedBy set
// INVARIANT: Renaming cannot collide with another entry's headword, but
// keeping the entry's own headword is always allowed
func ExecuteUpdateWord(ctx context.Context, input UpdateWordInput, deps WordDeps) (entry.Entry, error) {
	if err := deps.Gate.Require(ctx, input.Caller); err != nil {
		return entry.Entry{}, err
	}
	if input.EntryID == "" {
		return entry.Entry{}, entry.ErrNotFound
	}

	e, err := deps.EntryStore.GetByID(ctx, input.EntryID)
	if err != nil {
		return entry.Entry{}, err
	}

	level, err := parseLevel(input.Level)
	if err != nil {
		return entry.Entry{}, err
	}

	e.Maori = strings.TrimSpace(input.Maori)
	e.English = strings.TrimSpace(input.English)
	e.Description = strings.TrimSpace(input.Description)
	e.Level = level
	e.UpdatedAt = deps.Now()
	e.EditedBy = input.Caller.AccountID

	if err := e.Validate(); err != nil {
		return entry.Entry{}, err
	}

	if _, err := deps.EntryStore.FindIDByMaori(ctx, e.Maori, e.ID); err == nil {
		return entry.Entry{}, entry.ErrDuplicateHeadword
	} else if !errors.Is(err, entry.ErrNotFound) {
		return entry.Entry{}, err
	}

	if err := deps.EntryStore.Save(ctx, e); err != nil {
		return entry.Entry{}, err
	}

	slog.Info("word_event", "event", "word_updated", "entry_id", e.ID, "maori", e.Maori, "edited_by", input.Caller.Email)
	return e, nil
}

// DeleteWordInput carries input for the delete word orchestrator.
type DeleteWordInput struct {
	EntryID string
	Caller  authz.Identity
}

// ExecuteDeleteWord removes an entry.
// PRE: Caller's role currently allows editing; entry exists
// POST: Entry removed from the store
func ExecuteDeleteWord(ctx context.Context, input DeleteWordInput, deps WordDeps) error {
	if err := deps.Gate.Require(ctx, input.Caller); err != nil {
		return err
	}

	e, err := deps.EntryStore.GetByID(ctx, input.EntryID)
	if err != nil {
		return err
	}

	if err := deps.EntryStore.Delete(ctx, e.ID); err != nil {
		return err
	}

	slog.Info("word_event", "event", "word_deleted", "entry_id", e.ID, "maori", e.Maori, "deleted_by", input.Caller.Email)
	return nil
}

func parseLevel(raw string) (int, error) {
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, entry.ErrInvalidLevel
	}
	return level, nil
}
