package orchestrators

import (
	"context"
	"log/slog"

	"kupu/internal/domain/entry"
	"kupu/internal/domain/search"
)

// EntryStoreForSearch defines the store interface needed by the search orchestrators.
type EntryStoreForSearch interface {
	Search(ctx context.Context, plan search.Plan) ([]entry.Result, error)
	ByLetter(ctx context.Context, letter string) ([]entry.Result, error)
}

// SearchInput carries the four raw form values from the search page.
type SearchInput struct {
	Maori      string
	English    string
	Level      string
	MostRecent string
}

// SearchDeps holds dependencies for the search orchestrators.
type SearchDeps struct {
	EntryStore EntryStoreForSearch
}

// ExecuteSearch resolves the raw search inputs into a lookup plan and
// runs it. When every filter is unset and the most-recent flag is off,
// the result is empty by definition and the store is never touched.
func ExecuteSearch(ctx context.Context, input SearchInput, deps SearchDeps) ([]entry.Result, error) {
	plan, ok := search.BuildPlan(input.Maori, input.English, input.Level, input.MostRecent)
	if !ok {
		slog.Info("search_event", "event", "search_skipped", "reason", "no filters")
		return nil, nil
	}

	results, err := deps.EntryStore.Search(ctx, plan)
	if err != nil {
		return nil, err
	}

	slog.Info("search_event", "event", "search_executed",
		"shape", plan.Shape.String(), "most_recent", plan.MostRecent, "results", len(results))
	return results, nil
}

// ExecuteBrowse lists entries whose headword starts with the chosen
// letter. The no-letter sentinel and anything that is not a single
// ASCII letter yield an empty result without a store lookup.
func ExecuteBrowse(ctx context.Context, letter string, deps SearchDeps) ([]entry.Result, error) {
	l, ok := search.BrowseLetter(letter)
	if !ok {
		return nil, nil
	}

	results, err := deps.EntryStore.ByLetter(ctx, l)
	if err != nil {
		return nil, err
	}

	slog.Info("search_event", "event", "browse_executed", "letter", l, "results", len(results))
	return results, nil
}
