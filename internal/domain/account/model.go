package account

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// Role name constants. Editing rights come from the role's AllowEdit
// flag, not the name, but these are the two roles the app seeds.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Domain errors
var (
	ErrNotFound         = errors.New("account not found")
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyName        = errors.New("first and last name are required")
	ErrNumericName      = errors.New("names may only contain alphabetic characters")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrRoleNotFound     = errors.New("role not found")
)

// Account holds one signed-up user. Emails are stored lower-cased and
// are unique.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	RoleID       string
	CreatedAt    time.Time
}

// Role is a named permission group. AllowEdit grants the right to
// mutate entries and categories.
type Role struct {
	ID        string
	Name      string
	AllowEdit bool
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims and title-cases a person's name.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// DisplayName formats the account holder's full name.
func (a *Account) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Validate checks the Account's domain rules.
// PRE: Account struct is populated, email already normalized
// POST: Returns nil if valid, a domain error otherwise
func (a *Account) Validate() error {
	if a.FirstName == "" || a.LastName == "" {
		return ErrEmptyName
	}
	if containsDigit(a.FirstName) || containsDigit(a.LastName) {
		return ErrNumericName
	}
	if a.Email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty and >= MinPasswordLength characters
// POST: PasswordHash is set to the bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

func containsDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}
