package search

import "strings"

// RecentLimit caps result sets when the most-recent flag is set.
const RecentLimit = 20

// NoLevel is the level value meaning "no level filter".
const NoLevel = "0"

// NoLetter is the sentinel the browse page sends when no letter is chosen.
const NoLetter = "~"

// Filters holds the three optional search predicates. A zero value means
// the predicate is absent.
type Filters struct {
	Maori   string // prefix match on the Māori headword
	English string // prefix match on the English headword
	Level   string // exact year level match; "" or "0" means unset
}

// HasMaori reports whether the Māori prefix predicate is set.
func (f Filters) HasMaori() bool { return f.Maori != "" }

// HasEnglish reports whether the English prefix predicate is set.
func (f Filters) HasEnglish() bool { return f.English != "" }

// HasLevel reports whether the year-level predicate is set.
func (f Filters) HasLevel() bool { return f.Level != "" && f.Level != NoLevel }

// Shape identifies which predicate combination a search resolves to.
// Exactly one shape is selected for any input; the store builds one
// parameterized statement per shape.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeMaori
	ShapeEnglish
	ShapeLevel
	ShapeMaoriEnglish
	ShapeMaoriLevel
	ShapeEnglishLevel
	ShapeMaoriEnglishLevel
)

var shapeNames = map[Shape]string{
	ShapeNone:              "none",
	ShapeMaori:             "maori",
	ShapeEnglish:           "english",
	ShapeLevel:             "level",
	ShapeMaoriEnglish:      "maori+english",
	ShapeMaoriLevel:        "maori+level",
	ShapeEnglishLevel:      "english+level",
	ShapeMaoriEnglishLevel: "maori+english+level",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// Plan is one resolved lookup: the predicate shape, the bound filter
// values, and the ordering/cap mode.
//
// MostRecent orders by modification date descending (Māori then English
// ascending as tie-breaks) and caps results at RecentLimit. Otherwise
// ordering is Māori then English ascending, uncapped.
type Plan struct {
	Shape      Shape
	Filters    Filters
	MostRecent bool
}

// BuildPlan resolves the four raw search inputs into a lookup plan.
// The second return value is false when no store lookup should happen at
// all: every filter unset and the most-recent flag off is an empty
// result by definition, not a query.
//
// Filter presence and the most-recent flag are independent: presence
// selects the predicate shape, the flag selects ordering and cap. All
// sixteen input combinations resolve here explicitly.
func BuildPlan(maori, english, level, mostRecent string) (Plan, bool) {
	f := Filters{
		Maori:   strings.TrimSpace(maori),
		English: strings.TrimSpace(english),
		Level:   strings.TrimSpace(level),
	}
	recent := strings.TrimSpace(mostRecent) == "1"

	shape := selectShape(f)
	if shape == ShapeNone && !recent {
		return Plan{}, false
	}
	return Plan{Shape: shape, Filters: f, MostRecent: recent}, true
}

// selectShape maps the three presence booleans onto exactly one shape.
func selectShape(f Filters) Shape {
	m, e, l := f.HasMaori(), f.HasEnglish(), f.HasLevel()
	switch {
	case m && e && l:
		return ShapeMaoriEnglishLevel
	case m && e:
		return ShapeMaoriEnglish
	case m && l:
		return ShapeMaoriLevel
	case e && l:
		return ShapeEnglishLevel
	case m:
		return ShapeMaori
	case e:
		return ShapeEnglish
	case l:
		return ShapeLevel
	default:
		return ShapeNone
	}
}

// BrowseLetter validates an alphabetic browse selection. It returns the
// letter to query and whether a store lookup should happen: only a
// single ASCII letter queries the store; the NoLetter sentinel and any
// other junk yield an empty result without a lookup.
func BrowseLetter(letter string) (string, bool) {
	if len(letter) != 1 || letter == NoLetter {
		return "", false
	}
	c := letter[0]
	if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return "", false
	}
	return letter, true
}
