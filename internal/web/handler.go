/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/analytics"
	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/notifier"
	"github.com/friendsincode/storyhub/internal/site"
	"github.com/friendsincode/storyhub/internal/version"
)

// ugcPolicy sanitizes post HTML before it reaches a template.
var ugcPolicy = bluemonday.UGCPolicy()

// Handler provides the web UI with server-rendered templates.
type Handler struct {
	db        *gorm.DB
	logger    zerolog.Logger
	jwtSecret []byte
	baseURL   string
	siteName  string
	uploadDir string

	content   *content.Service
	analytics *analytics.Service
	site      *site.Service
	gallery   *site.Gallery
	activity  *activity.Recorder
	notifier  *notifier.Notifier

	updateChecker *version.Checker

	templates map[string]*template.Template // each page gets its own template set
	partials  *template.Template            // shared partials
}

// Services bundles the domain services the handler depends on.
type Services struct {
	Content   *content.Service
	Analytics *analytics.Service
	Site      *site.Service
	Gallery   *site.Gallery
	Activity  *activity.Recorder
	Notifier  *notifier.Notifier
}

// PageData holds common data passed to all templates.
type PageData struct {
	Title       string
	SiteName    string
	User        *models.AdminUser
	Flash       *FlashMessage
	CurrentPath string
	CSRFToken   string
	Data        any
	Version     string
	UpdateInfo  *version.UpdateInfo // set for admins when a newer release exists
}

// FlashMessage for toast notifications
type FlashMessage struct {
	Type    string // success, error, warning, info
	Message string
}

// NewHandler creates a new web handler.
func NewHandler(db *gorm.DB, jwtSecret []byte, baseURL, siteName, uploadDir string, svcs Services, logger zerolog.Logger) (*Handler, error) {
	h := &Handler{
		db:        db,
		logger:    logger.With().Str("component", "web").Logger(),
		jwtSecret: jwtSecret,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		siteName:  siteName,
		uploadDir: uploadDir,
		content:   svcs.Content,
		analytics: svcs.Analytics,
		site:      svcs.Site,
		gallery:   svcs.Gallery,
		activity:  svcs.Activity,
		notifier:  svcs.Notifier,

		updateChecker: version.NewChecker(logger),
	}

	if err := h.loadTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return h, nil
}

// StartUpdateChecker starts the background version checker.
func (h *Handler) StartUpdateChecker(ctx context.Context) {
	h.updateChecker.Start(ctx)
}

// StopUpdateChecker stops the background version checker.
func (h *Handler) StopUpdateChecker() {
	h.updateChecker.Stop()
}

func (h *Handler) loadTemplates() error {
	funcMap := template.FuncMap{
		"formatTime":  formatTime,
		"formatDate":  formatDate,
		"timeago":     timeago,
		"truncate":    truncate,
		"lower":       strings.ToLower,
		"upper":       strings.ToUpper,
		"contains":    strings.Contains,
		"join":        strings.Join,
		"dict":        dict,
		"sanitize":    sanitizeHTML,
		"excerpt":     excerptText,
		"readingTime": content.EstimateReadingTime,
		"add":         add,
		"sub":         sub,
		"deref":       derefInt64,
		"seq":         seq,
		"isActive":    isActive,
	}

	h.templates = make(map[string]*template.Template)

	var layoutFiles []string
	var partialFiles []string
	var pageFiles []string

	err := fs.WalkDir(TemplateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		if strings.HasPrefix(path, "templates/layouts/") {
			layoutFiles = append(layoutFiles, path)
		} else if strings.HasPrefix(path, "templates/partials/") {
			partialFiles = append(partialFiles, path)
		} else if strings.HasPrefix(path, "templates/pages/") {
			pageFiles = append(pageFiles, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Partials share one template set
	h.partials = template.New("").Funcs(funcMap)
	for _, path := range partialFiles {
		raw, err := fs.ReadFile(TemplateFS, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		name := templateName(path)
		if _, err := h.partials.New(name).Parse(string(raw)); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// Each page gets its own set with all layouts parsed in
	for _, pagePath := range pageFiles {
		tmpl := template.New("").Funcs(funcMap)

		for _, layoutPath := range layoutFiles {
			raw, err := fs.ReadFile(TemplateFS, layoutPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", layoutPath, err)
			}
			if _, err := tmpl.New(templateName(layoutPath)).Parse(string(raw)); err != nil {
				return fmt.Errorf("parse %s: %w", layoutPath, err)
			}
		}
		for _, partialPath := range partialFiles {
			raw, err := fs.ReadFile(TemplateFS, partialPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", partialPath, err)
			}
			if _, err := tmpl.New(templateName(partialPath)).Parse(string(raw)); err != nil {
				return fmt.Errorf("parse %s: %w", partialPath, err)
			}
		}

		raw, err := fs.ReadFile(TemplateFS, pagePath)
		if err != nil {
			return fmt.Errorf("read %s: %w", pagePath, err)
		}
		name := templateName(pagePath)
		if _, err := tmpl.New(name).Parse(string(raw)); err != nil {
			return fmt.Errorf("parse %s: %w", pagePath, err)
		}

		h.templates[name] = tmpl
		h.logger.Debug().Str("template", name).Msg("loaded template")
	}

	return nil
}

func templateName(path string) string {
	name := strings.TrimPrefix(path, "templates/")
	return strings.TrimSuffix(name, ".html")
}

// Render renders a page template with the given data.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	data.CurrentPath = r.URL.Path
	data.Version = version.Version
	if data.SiteName == "" {
		data.SiteName = h.siteName
	}
	if user := h.GetUser(r); user != nil {
		data.User = user
		if h.updateChecker != nil {
			if info := h.updateChecker.Info(); info != nil && info.UpdateAvailable {
				data.UpdateInfo = info
			}
		}
	}
	if data.CSRFToken == "" {
		data.CSRFToken = csrfTokenFromRequest(r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("template render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// RenderPartial renders a partial template (for HTMX responses).
func (h *Handler) RenderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.partials.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("partial render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderNotFound renders the shared 404 page.
func (h *Handler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.Render(w, r, "pages/public/not-found", PageData{Title: "Not Found"})
}

// staticResponseWriter wraps http.ResponseWriter to force correct MIME types
type staticResponseWriter struct {
	http.ResponseWriter
	contentType string
	wroteHeader bool
}

func (w *staticResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader && w.contentType != "" {
		w.Header().Set("Content-Type", w.contentType)
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *staticResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// StaticHandler returns an http.Handler for embedded static files.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(StaticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		var contentType string
		switch {
		case strings.HasSuffix(path, ".css"):
			contentType = "text/css; charset=utf-8"
		case strings.HasSuffix(path, ".js"):
			contentType = "application/javascript; charset=utf-8"
		case strings.HasSuffix(path, ".svg"):
			contentType = "image/svg+xml"
		case strings.HasSuffix(path, ".png"):
			contentType = "image/png"
		case strings.HasSuffix(path, ".ico"):
			contentType = "image/x-icon"
		}

		sw := &staticResponseWriter{ResponseWriter: w, contentType: contentType}
		fileServer.ServeHTTP(sw, r)
	}))
}

// UploadsHandler serves user-uploaded gallery images from disk.
func (h *Handler) UploadsHandler() http.Handler {
	fileServer := http.FileServer(http.Dir(h.uploadDir))
	return http.StripPrefix("/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(w, r)
	}))
}

// Template helper functions

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func timeago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)
	if diff < 0 {
		return t.Format("2006-01-02")
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}

	years := int(diff.Hours() / 24 / 365)
	if years == 1 {
		return "1 year ago"
	}
	return fmt.Sprintf("%d years ago", years)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func dict(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	d := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil
		}
		d[key] = values[i+1]
	}
	return d
}

// sanitizeHTML strips dangerous markup from stored post content before
// it is rendered unescaped.
func sanitizeHTML(s string) template.HTML {
	return template.HTML(ugcPolicy.Sanitize(s))
}

// excerptText returns the post excerpt, falling back to truncated
// plain-text content.
func excerptText(p models.Post) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	plain := ugcPolicy.Sanitize(p.Content)
	plain = strings.Join(strings.Fields(stripTags(plain)), " ")
	return truncate(plain, 200)
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func add(a, b int) int { return a + b }
func sub(a, b int) int { return a - b }

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// seq returns 1..n for pagination links.
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func isActive(currentPath, linkPath string) bool {
	if linkPath == "/" {
		return currentPath == "/"
	}
	return strings.HasPrefix(currentPath, linkPath)
}
