package browser_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	categoryDomain "kupu/internal/domain/category"
	entryDomain "kupu/internal/domain/entry"
)

// TestTeacherAddsCategoryAndWord walks the main editing flow: log in,
// create a category, add a word to it, and land on the word page.
func TestTeacherAddsCategoryAndWord(t *testing.T) {
	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/addcategory"); err != nil {
		t.Fatalf("failed to open add category page: %v", err)
	}
	if err := page.Locator("input[name=name]").Fill("animals"); err != nil {
		t.Fatalf("failed to fill category name: %v", err)
	}
	if err := page.Locator("form[action='/addcategory'] button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit category: %v", err)
	}
	if err := page.WaitForURL("**/category/*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("category create did not land on the category page: %v", err)
	}

	heading, err := page.Locator("h1").TextContent()
	if err != nil {
		t.Fatalf("failed to read heading: %v", err)
	}
	if !strings.Contains(heading, "Animals") {
		t.Errorf("expected normalized category name, got %q", heading)
	}

	// The category page shows the add word form to editors
	if err := page.Locator("input[name=maori]").Fill("kurī"); err != nil {
		t.Fatalf("failed to fill maori: %v", err)
	}
	if err := page.Locator("input[name=english]").Fill("dog"); err != nil {
		t.Fatalf("failed to fill english: %v", err)
	}
	if err := page.Locator("textarea[name=description]").Fill("A *loyal* animal."); err != nil {
		t.Fatalf("failed to fill description: %v", err)
	}
	if _, err := page.Locator("select[name=level]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"3"},
	}); err != nil {
		t.Fatalf("failed to select level: %v", err)
	}
	if err := page.Locator("form[action='/addword'] button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit word: %v", err)
	}
	if err := page.WaitForURL("**/word/*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("word create did not land on the word page: %v", err)
	}

	body, err := page.Locator("main").TextContent()
	if err != nil {
		t.Fatalf("failed to read word page: %v", err)
	}
	if !strings.Contains(body, "kurī") || !strings.Contains(body, "dog") {
		t.Errorf("word page missing the new word, got: %q", body)
	}
}

// TestSearchAndBrowse seeds words directly and exercises the nav search
// form and the letter strip.
func TestSearchAndBrowse(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if err := app.Stores.CategoryStore.Save(ctx, categoryDomain.Category{ID: "cat-kai", Name: "Food"}); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	words := []entryDomain.Entry{
		{ID: "w1", Maori: "kai", English: "food", Level: 1, CategoryID: "cat-kai", UpdatedAt: time.Now()},
		{ID: "w2", Maori: "kurī", English: "dog", Level: 2, UpdatedAt: time.Now()},
		{ID: "w3", Maori: "whero", English: "red", Level: 1, UpdatedAt: time.Now()},
	}
	for _, w := range words {
		if err := app.Stores.EntryStore.Save(ctx, w); err != nil {
			t.Fatalf("failed to seed word %s: %v", w.Maori, err)
		}
	}

	page := app.newPage(t)
	if _, err := page.Goto(app.BaseURL + "/"); err != nil {
		t.Fatalf("failed to open home: %v", err)
	}

	// Search for the k prefix via the nav form
	if err := page.Locator("nav input[name=maori]").Fill("k"); err != nil {
		t.Fatalf("failed to fill search: %v", err)
	}
	if err := page.Locator("nav form.search button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit search: %v", err)
	}
	if err := page.WaitForURL("**/search?*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("search did not navigate: %v", err)
	}
	results, err := page.Locator("main").TextContent()
	if err != nil {
		t.Fatalf("failed to read results: %v", err)
	}
	if !strings.Contains(results, "kai") || !strings.Contains(results, "kurī") {
		t.Errorf("search results missing k words: %q", results)
	}
	if strings.Contains(results, "whero") {
		t.Errorf("search results should not include whero: %q", results)
	}

	// Browse by letter via the strip
	if _, err := page.Goto(app.BaseURL + "/search/w"); err != nil {
		t.Fatalf("failed to browse letter: %v", err)
	}
	results, err = page.Locator("main").TextContent()
	if err != nil {
		t.Fatalf("failed to read browse results: %v", err)
	}
	if !strings.Contains(results, "whero") {
		t.Errorf("browse w missing whero: %q", results)
	}
}

// TestAnonymousSeesNoEditForms checks that the edit surfaces are hidden
// from signed-out visitors.
func TestAnonymousSeesNoEditForms(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if err := app.Stores.CategoryStore.Save(ctx, categoryDomain.Category{ID: "cat-1", Name: "Colours"}); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	page := app.newPage(t)
	if _, err := page.Goto(app.BaseURL + "/category/cat-1"); err != nil {
		t.Fatalf("failed to open category: %v", err)
	}

	count, err := page.Locator("form[action='/addword']").Count()
	if err != nil {
		t.Fatalf("failed to count forms: %v", err)
	}
	if count != 0 {
		t.Errorf("anonymous visitor can see the add word form")
	}
}
