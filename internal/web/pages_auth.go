/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/models"
)

const sessionTTL = 24 * time.Hour

// LoginPage renders the login form
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.GetUser(r) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	h.Render(w, r, "pages/public/login", PageData{
		Title:     "Login",
		CSRFToken: ensureCSRFCookie(w, r),
		Data: map[string]any{
			"Username": "",
			"Redirect": sanitizeRedirectTarget(r.URL.Query().Get("redirect")),
		},
	})
}

// LoginSubmit handles the login form submission
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	redirect := sanitizeRedirectTarget(r.FormValue("redirect"))

	if username == "" || password == "" {
		h.renderLoginError(w, r, "Username and password are required")
		return
	}

	var user models.AdminUser
	if err := h.db.First(&user, "username = ?", username).Error; err != nil {
		h.renderLoginError(w, r, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.renderLoginError(w, r, "Invalid username or password")
		return
	}

	tokenStr, err := h.IssueToken(&user, sessionTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign JWT")
		h.renderLoginError(w, r, "Authentication failed")
		return
	}

	h.SetAuthToken(w, tokenStr, int(sessionTTL.Seconds()))
	h.activity.Record(r.Context(), user.Username, activity.ActionLogin, "", clientIP(r))

	target := "/admin"
	if redirect != "" {
		target = redirect
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, message string) {
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`<div class="alert alert-danger" role="alert">` + message + `</div>`))
		return
	}

	h.Render(w, r, "pages/public/login", PageData{
		Title: "Login",
		Flash: &FlashMessage{Type: "error", Message: message},
		Data: map[string]any{
			"Username": r.FormValue("username"),
			"Redirect": sanitizeRedirectTarget(r.FormValue("redirect")),
		},
	})
}

// Logout clears the auth cookie and redirects to the home page
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := h.GetUser(r); user != nil {
		h.activity.Record(r.Context(), user.Username, activity.ActionLogout, "", clientIP(r))
	}
	h.ClearAuthToken(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
