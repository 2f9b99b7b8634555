package web

import (
	"errors"
	"net/http"

	"kupu/internal/adapters/http/middleware"
	"kupu/internal/application/orchestrators"
)

// handleSignupForm shows the signup page.
func handleSignupForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "signup.html", map[string]any{})
}

// handleSignup registers a new student account.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.SignupInput{
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	deps := orchestrators.SignupDeps{
		AccountStore: stores.AccountStore,
		EmailSender:  emailSender,
		GenerateID:   generateID,
		Now:          timeNow,
	}

	_, err := orchestrators.ExecuteSignup(r.Context(), input, deps)
	if err != nil {
		renderTemplate(w, r, "signup.html", map[string]any{
			"Error":     err.Error(),
			"FirstName": input.FirstName,
			"LastName":  input.LastName,
			"Email":     input.Email,
		})
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLoginForm shows the login page.
func handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{})
}

// handleLogin verifies credentials and starts a session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	identity, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		renderTemplate(w, r, "login.html", map[string]any{
			"Error": err.Error(),
			"Email": input.Email,
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	token, err := sessions.Create(identity)
	if err != nil {
		internalError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout ends the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
