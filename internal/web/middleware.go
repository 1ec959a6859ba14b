/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/friendsincode/storyhub/internal/models"
)

const authCookieName = "storyhub_token"

// Context keys
type ctxKey string

const (
	ctxKeyUser  ctxKey = "user"
	ctxKeyToken ctxKey = "token"
)

// AuthMiddleware checks for a valid session and injects the admin user
// into the request context. Web routes use the cookie; Bearer tokens
// are accepted for scripted access.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenStr string

		if cookie, err := r.Cookie(authCookieName); err == nil {
			tokenStr = cookie.Value
		}
		if tokenStr == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				tokenStr = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			h.ClearAuthToken(w)
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		userID, _ := claims["user_id"].(float64)
		if userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		var user models.AdminUser
		if err := h.db.First(&user, int64(userID)).Error; err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, &user)
		ctx = context.WithValue(ctx, ctxKeyToken, tokenStr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects to login if not authenticated.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.GetUser(r) == nil {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login?redirect="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser returns the authenticated admin user from context.
func (h *Handler) GetUser(r *http.Request) *models.AdminUser {
	if user, ok := r.Context().Value(ctxKeyUser).(*models.AdminUser); ok {
		return user
	}
	return nil
}

// GetAuthToken returns the raw JWT token string from context.
func (h *Handler) GetAuthToken(r *http.Request) string {
	if token, ok := r.Context().Value(ctxKeyToken).(string); ok {
		return token
	}
	return ""
}

// isSecureCookieEnv decides whether auth and CSRF cookies carry the
// Secure flag. Explicit STORYHUB_COOKIE_SECURE wins; otherwise
// production defaults to secure.
func isSecureCookieEnv() bool {
	if v := os.Getenv("STORYHUB_COOKIE_SECURE"); v != "" {
		return v == "true" || v == "1" || v == "yes"
	}
	return os.Getenv("STORYHUB_ENV") == "production"
}

// SetAuthToken sets the authentication cookie.
func (h *Handler) SetAuthToken(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecureCookieEnv(),
	})
}

// ClearAuthToken removes the authentication cookie.
func (h *Handler) ClearAuthToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecureCookieEnv(),
	})
}

// IssueToken signs a session JWT for the given admin user.
func (h *Handler) IssueToken(user *models.AdminUser, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	})
	return token.SignedString(h.jwtSecret)
}

// sanitizeRedirectTarget keeps post-login redirects on this site. Only
// rooted paths survive; anything that could leave the origin is
// dropped.
func sanitizeRedirectTarget(target string) string {
	if target == "" {
		return ""
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	if u.Path == "/login" {
		return ""
	}
	return target
}

// clientIP extracts the remote address for activity and analytics
// records, honoring X-Forwarded-For from a fronting proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
