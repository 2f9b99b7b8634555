package entry

import (
	"errors"
	"strings"
	"time"
)

// Year-level bounds for entries.
const (
	MinLevel = 1
	MaxLevel = 10
)

// Domain errors
var (
	ErrNotFound          = errors.New("entry not found")
	ErrDuplicateHeadword = errors.New("an entry with this Māori headword already exists")
	ErrEmptyMaori        = errors.New("Māori headword cannot be empty")
	ErrEmptyEnglish      = errors.New("English headword cannot be empty")
	ErrInvalidLevel      = errors.New("level must be between 1 and 10")
)

// Entry is one dictionary record: a Māori headword, its English meaning,
// a free-text description, and a year level, grouped under a category.
// The Māori headword is unique across all entries.
type Entry struct {
	ID          string
	Maori       string
	English     string
	Description string
	Level       int
	CategoryID  string
	UpdatedAt   time.Time
	EditedBy    string // account ID of the last editor, empty when unknown
}

// Result is an entry row joined with its last editor's name, as listed
// by search, browse, and category pages.
type Result struct {
	ID              string
	Maori           string
	English         string
	Level           int
	UpdatedAt       time.Time
	EditorFirstName string
	EditorLastName  string
}

// Detail is the full entry plus editor name, as shown on the word page.
type Detail struct {
	Entry
	EditorFirstName string
	EditorLastName  string
}

// Editor formats the last editor's name for display, empty when the
// entry has no recorded editor.
func (r Result) Editor() string {
	return strings.TrimSpace(r.EditorFirstName + " " + r.EditorLastName)
}

// Editor formats the last editor's name for display.
func (d Detail) Editor() string {
	return strings.TrimSpace(d.EditorFirstName + " " + d.EditorLastName)
}

// Validate checks the Entry's domain rules.
// PRE: Entry struct is populated
// POST: Returns nil if valid, a domain error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Maori) == "" {
		return ErrEmptyMaori
	}
	if strings.TrimSpace(e.English) == "" {
		return ErrEmptyEnglish
	}
	if e.Level < MinLevel || e.Level > MaxLevel {
		return ErrInvalidLevel
	}
	return nil
}
