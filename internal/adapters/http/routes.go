package web

import (
	"net/http"

	"kupu/internal/adapters/http/middleware"
)

// registerRoutes attaches all page handlers to the mux.
func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /search", handleSearch)
	mux.HandleFunc("GET /search/{letter}", handleBrowse)
	mux.HandleFunc("GET /category/{id}", handleCategory)
	mux.HandleFunc("GET /word/{id}", handleWord)

	// Mutations; each re-checks edit permission inside the orchestrator
	mux.HandleFunc("POST /word/{id}", handleUpdateWord)
	mux.HandleFunc("POST /addword", handleAddWord)
	mux.HandleFunc("GET /addcategory", handleAddCategoryForm)
	mux.HandleFunc("POST /addcategory", handleAddCategory)
	mux.HandleFunc("GET /delete_word/{id}", handleDeleteWordConfirm)
	mux.HandleFunc("POST /delete_word/{id}", handleDeleteWord)
	mux.HandleFunc("GET /delete_category/{id}", handleDeleteCategoryConfirm)
	mux.HandleFunc("POST /delete_category/{id}", handleDeleteCategory)

	// Accounts
	mux.HandleFunc("GET /signup", handleSignupForm)
	mux.HandleFunc("POST /signup", handleSignup)
	mux.HandleFunc("GET /login", handleLoginForm)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	// Admin
	mux.Handle("GET /admin/perf", middleware.RequireAuth(http.HandlerFunc(handlePerf)))
}
