package images

import (
	"testing"
	"testing/fstest"
)

func TestImageFor(t *testing.T) {
	fsys := fstest.MapFS{
		"dog.png":    {},
		"red.jpg":    {},
		"school.gif": {},
	}
	lookup := NewFSLookup(fsys)

	cases := []struct {
		english string
		want    string
	}{
		{"dog", "dog.png"},
		{"Dog", "dog.png"},
		{" red ", "red.jpg"},
		{"school", "school.gif"},
		{"cat", Fallback},
		{"", Fallback},
		{"do", Fallback}, // no prefix matching
	}
	for _, tc := range cases {
		if got := lookup.ImageFor(tc.english); got != tc.want {
			t.Errorf("ImageFor(%q) = %q, want %q", tc.english, got, tc.want)
		}
	}
}

func TestNoopLookup(t *testing.T) {
	if got := (NoopLookup{}).ImageFor("dog"); got != Fallback {
		t.Errorf("ImageFor = %q, want %q", got, Fallback)
	}
}
