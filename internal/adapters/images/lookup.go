package images

import (
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Fallback is served when no image matches an entry's English headword.
const Fallback = "noimage.png"

// Lookup resolves the image filename to show for an entry.
type Lookup interface {
	ImageFor(english string) string
}

// DirLookup finds images in a directory by matching the entry's English
// headword against the filename, any extension: "dog" matches "dog.png"
// or "dog.jpg".
type DirLookup struct {
	fsys fs.FS
}

// NewDirLookup creates a lookup over the given image directory.
func NewDirLookup(dir string) *DirLookup {
	return &DirLookup{fsys: os.DirFS(dir)}
}

// NewFSLookup creates a lookup over any fs.FS, for tests.
func NewFSLookup(fsys fs.FS) *DirLookup {
	return &DirLookup{fsys: fsys}
}

// ImageFor returns the filename of the first image matching the English
// headword, or Fallback when nothing matches. Headwords are matched
// lower-cased, the way image files are named.
func (l *DirLookup) ImageFor(english string) string {
	name := strings.ToLower(strings.TrimSpace(english))
	if name == "" {
		return Fallback
	}

	matches, err := doublestar.Glob(l.fsys, doublestar.EscapePattern(name)+".*")
	if err != nil || len(matches) == 0 {
		return Fallback
	}
	return matches[0]
}

// NoopLookup always reports the fallback image. Used when no image
// directory is configured.
type NoopLookup struct{}

// ImageFor returns Fallback for every headword.
func (NoopLookup) ImageFor(string) string { return Fallback }
