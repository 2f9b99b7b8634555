package category

import (
	"errors"
	"strings"
	"unicode"
)

// Domain errors
var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("a category with this name already exists")
	ErrEmptyName     = errors.New("category name cannot be empty")
)

// Category is a named grouping of dictionary entries. Names are unique
// and stored title-cased.
type Category struct {
	ID   string
	Name string
}

// NormalizeName trims surrounding whitespace and title-cases each word,
// so "body parts" and "Body Parts" are the same category.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Validate checks the Category's domain rules.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
