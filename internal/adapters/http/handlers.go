package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"kupu/internal/adapters/http/middleware"
	"kupu/internal/application/authz"
	"kupu/internal/application/orchestrators"
	categoryDomain "kupu/internal/domain/category"
	entryDomain "kupu/internal/domain/entry"
	"kupu/internal/domain/search"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// templatesDir is relative to the working directory the server runs
// from. Tests running inside the package point it at "templates".
var templatesDir = "internal/adapters/http/templates"

// letters is the A-Z browse strip shown on every listing page.
var letters = func() []string {
	out := make([]string, 0, 26)
	for c := 'a'; c <= 'z'; c++ {
		out = append(out, string(c))
	}
	return out
}()

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	identity := middleware.IdentityFromContext(r.Context())
	// Edit permission comes from the database on every render, never
	// from the session, so role changes show up on the next page load.
	canEdit := gate.CanEdit(r.Context(), identity)

	funcMap := template.FuncMap{
		"isLoggedIn":  func() bool { return identity.IsAuthenticated() },
		"currentUser": func() string { return identity.DisplayName() },
		"canEdit":     func() bool { return canEdit },
		"csrfToken":   func() string { return csrf.Token(r) },
		"letters":     func() []string { return letters },
		"levels": func() []int {
			out := make([]int, 0, entryDomain.MaxLevel)
			for l := entryDomain.MinLevel; l <= entryDomain.MaxLevel; l++ {
				out = append(out, l)
			}
			return out
		},
		"imageFor": func(english string) string {
			return imageLookup.ImageFor(english)
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome shows the category list and the most recently edited words.
func handleHome(w http.ResponseWriter, r *http.Request) {
	categories, err := stores.CategoryStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	recent, err := orchestrators.ExecuteSearch(r.Context(), orchestrators.SearchInput{MostRecent: "1"},
		orchestrators.SearchDeps{EntryStore: stores.EntryStore})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "home.html", map[string]any{
		"Categories": categories,
		"Recent":     recent,
	})
}

// handleSearch runs the search form's filters.
func handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := orchestrators.SearchInput{
		Maori:      q.Get("maori"),
		English:    q.Get("english"),
		Level:      q.Get("level"),
		MostRecent: q.Get("most_recent"),
	}

	results, err := orchestrators.ExecuteSearch(r.Context(), input, orchestrators.SearchDeps{EntryStore: stores.EntryStore})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "search.html", map[string]any{
		"Results":    results,
		"Maori":      input.Maori,
		"English":    input.English,
		"Level":      input.Level,
		"MostRecent": input.MostRecent == "1",
		"Searched":   true,
	})
}

// handleBrowse lists words starting with the chosen letter.
func handleBrowse(w http.ResponseWriter, r *http.Request) {
	letter := r.PathValue("letter")

	results, err := orchestrators.ExecuteBrowse(r.Context(), letter, orchestrators.SearchDeps{EntryStore: stores.EntryStore})
	if err != nil {
		internalError(w, err)
		return
	}

	shown := letter
	if shown == search.NoLetter {
		shown = ""
	}
	renderTemplate(w, r, "search.html", map[string]any{
		"Results":  results,
		"Letter":   shown,
		"Searched": shown != "",
	})
}

// handleCategory shows one category's words and, for editors, the add
// word form.
func handleCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cat, err := stores.CategoryStore.GetByID(r.Context(), id)
	if errors.Is(err, categoryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	words, err := stores.EntryStore.ListByCategory(r.Context(), cat.ID)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "category.html", map[string]any{
		"Category": cat,
		"Words":    words,
		"Error":    r.URL.Query().Get("error"),
	})
}

// handleWord shows one entry's full detail with its image and, for
// editors, the edit form.
func handleWord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	detail, err := stores.EntryStore.GetDetail(r.Context(), id)
	if errors.Is(err, entryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "word.html", map[string]any{
		"Word":  detail,
		"Error": r.URL.Query().Get("error"),
	})
}

func wordDeps() orchestrators.WordDeps {
	return orchestrators.WordDeps{
		EntryStore: stores.EntryStore,
		Gate:       gate,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// handleAddWord creates an entry from the category page form.
func handleAddWord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	categoryID := r.FormValue("category_id")

	input := orchestrators.AddWordInput{
		Maori:       r.FormValue("maori"),
		English:     r.FormValue("english"),
		Description: r.FormValue("description"),
		Level:       r.FormValue("level"),
		CategoryID:  categoryID,
		Caller:      middleware.IdentityFromContext(r.Context()),
	}

	e, err := orchestrators.ExecuteAddWord(r.Context(), input, wordDeps())
	if errors.Is(err, authz.ErrForbidden) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/category/"+categoryID+"?error="+template.URLQueryEscaper(err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/word/"+e.ID, http.StatusSeeOther)
}

// handleUpdateWord saves edits from the word page form.
func handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")

	input := orchestrators.UpdateWordInput{
		EntryID:     id,
		Maori:       r.FormValue("maori"),
		English:     r.FormValue("english"),
		Description: r.FormValue("description"),
		Level:       r.FormValue("level"),
		Caller:      middleware.IdentityFromContext(r.Context()),
	}

	_, err := orchestrators.ExecuteUpdateWord(r.Context(), input, wordDeps())
	if errors.Is(err, authz.ErrForbidden) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if errors.Is(err, entryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/word/"+id+"?error="+template.URLQueryEscaper(err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/word/"+id, http.StatusSeeOther)
}

// handleDeleteWordConfirm shows the are-you-sure page for an entry.
func handleDeleteWordConfirm(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := gate.Require(r.Context(), identity); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	detail, err := stores.EntryStore.GetDetail(r.Context(), r.PathValue("id"))
	if errors.Is(err, entryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "confirm_delete.html", map[string]any{
		"Title":  "Delete word",
		"Name":   detail.Maori,
		"Action": "/delete_word/" + detail.ID,
		"Back":   "/word/" + detail.ID,
	})
}

// handleDeleteWord removes an entry.
func handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.DeleteWordInput{
		EntryID: r.PathValue("id"),
		Caller:  middleware.IdentityFromContext(r.Context()),
	}

	err := orchestrators.ExecuteDeleteWord(r.Context(), input, wordDeps())
	if errors.Is(err, authz.ErrForbidden) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if errors.Is(err, entryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func categoryDeps() orchestrators.CategoryDeps {
	return orchestrators.CategoryDeps{
		CategoryStore: stores.CategoryStore,
		Gate:          gate,
		GenerateID:    generateID,
	}
}

// handleAddCategoryForm shows the new category form.
func handleAddCategoryForm(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := gate.Require(r.Context(), identity); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	renderTemplate(w, r, "add_category.html", map[string]any{
		"Error": r.URL.Query().Get("error"),
	})
}

// handleAddCategory creates a category.
func handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.AddCategoryInput{
		Name:   r.FormValue("name"),
		Caller: middleware.IdentityFromContext(r.Context()),
	}

	c, err := orchestrators.ExecuteAddCategory(r.Context(), input, categoryDeps())
	if errors.Is(err, authz.ErrForbidden) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/addcategory?error="+template.URLQueryEscaper(err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/category/"+c.ID, http.StatusSeeOther)
}

// handleDeleteCategoryConfirm shows the are-you-sure page for a category.
func handleDeleteCategoryConfirm(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := gate.Require(r.Context(), identity); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	cat, err := stores.CategoryStore.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, categoryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "confirm_delete.html", map[string]any{
		"Title":   "Delete category",
		"Name":    cat.Name,
		"Action":  "/delete_category/" + cat.ID,
		"Back":    "/category/" + cat.ID,
		"Warning": "Every word in this category will be deleted with it.",
	})
}

// handleDeleteCategory removes a category and its words.
func handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.DeleteCategoryInput{
		CategoryID: r.PathValue("id"),
		Caller:     middleware.IdentityFromContext(r.Context()),
	}

	err := orchestrators.ExecuteDeleteCategory(r.Context(), input, categoryDeps())
	if errors.Is(err, authz.ErrForbidden) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if errors.Is(err, categoryDomain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
