/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"net/url"
)

const csrfCookieName = "storyhub_csrf"

// csrfTokenFromRequest returns the CSRF token cookie value, if set.
func csrfTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// ensureCSRFCookie returns the request's CSRF token, minting a fresh
// one and setting the cookie when none exists yet. The cookie is
// deliberately not HttpOnly so HTMX can mirror it into the
// X-CSRF-Token header.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) string {
	if token := csrfTokenFromRequest(r); token != "" {
		return token
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	token := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   86400,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecureCookieEnv(),
	})
	return token
}

// EnsureCSRF makes sure authenticated page loads carry a CSRF cookie
// for the forms they render.
func (h *Handler) EnsureCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			ensureCSRFCookie(w, r)
		}
		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// CSRFMiddleware enforces a double-submit token on mutating requests
// from authenticated sessions. The token may arrive in the
// X-CSRF-Token header or a csrf_token form field and must match the
// cookie. A present Origin header must match the request host.
func (h *Handler) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		// Unauthenticated requests carry no session to forge.
		if r.Context().Value(ctxKeyUser) == nil {
			next.ServeHTTP(w, r)
			return
		}

		if origin := r.Header.Get("Origin"); origin != "" {
			u, err := url.Parse(origin)
			if err != nil || u.Host != r.Host {
				http.Error(w, "Origin mismatch", http.StatusForbidden)
				return
			}
		}

		cookieToken := csrfTokenFromRequest(r)
		if cookieToken == "" {
			http.Error(w, "Missing CSRF cookie", http.StatusForbidden)
			return
		}

		sent := r.Header.Get("X-CSRF-Token")
		if sent == "" {
			sent = r.PostFormValue("csrf_token")
		}
		if sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(cookieToken)) != 1 {
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
