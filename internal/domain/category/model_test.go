package category_test

import (
	"testing"

	"kupu/internal/domain/category"
)

// TestNormalizeName tests title-casing and trimming of category names.
func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"animals", "Animals"},
		{"body parts", "Body Parts"},
		{"  BODY PARTS  ", "Body Parts"},
		{"Days Of The Week", "Days Of The Week"},
		{"kai  moana", "Kai Moana"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := category.NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestCategory_Validate tests validation of Category.
func TestCategory_Validate(t *testing.T) {
	c := category.Category{ID: "1", Name: "Animals"}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	empty := category.Category{ID: "2", Name: "  "}
	if err := empty.Validate(); err != category.ErrEmptyName {
		t.Errorf("Validate() = %v, want ErrEmptyName", err)
	}
}
