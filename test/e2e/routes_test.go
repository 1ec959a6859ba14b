/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package e2e provides end-to-end browser tests for the web UI.
package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/analytics"
	"github.com/friendsincode/storyhub/internal/config"
	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/migrate"
	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/notifier"
	"github.com/friendsincode/storyhub/internal/seed"
	"github.com/friendsincode/storyhub/internal/site"
	"github.com/friendsincode/storyhub/internal/web"
)

// TestRoutes verifies public web routes render in a real browser.
func TestRoutes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}

	headless := os.Getenv("E2E_HEADLESS") != "false"

	db := setupTestDB(t)
	setupTestFixtures(t, db)

	server := newTestServer(t, db)
	defer server.Close()

	l := launcher.New().Headless(headless)
	url := l.MustLaunch()
	browser := rod.New().ControlURL(url).MustConnect()
	defer browser.MustClose()

	publicRoutes := []struct {
		name        string
		path        string
		mustContain string
	}{
		{"home page", "/", "Story Hub"},
		{"login page", "/login", "Sign in"},
		{"archive page", "/archive", "Archive"},
		{"about page", "/about", "About"},
		{"contact page", "/contact", "Contact"},
		{"search page", "/search", "Search"},
	}

	for _, tc := range publicRoutes {
		t.Run(tc.name, func(t *testing.T) {
			page := browser.MustPage(server.URL + tc.path)
			defer page.MustClose()

			if err := page.WaitLoad(); err != nil {
				t.Fatalf("page load failed for %s: %v", tc.path, err)
			}

			html := page.MustHTML()
			if !strings.Contains(html, tc.mustContain) {
				t.Errorf("expected page %s to contain %q", tc.path, tc.mustContain)
			}
		})
	}
}

// TestAuthenticatedRoutes tests the admin dashboard behind the login.
func TestAuthenticatedRoutes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}

	headless := os.Getenv("E2E_HEADLESS") != "false"

	db := setupTestDB(t)
	setupTestFixtures(t, db)

	server := newTestServer(t, db)
	defer server.Close()

	l := launcher.New().Headless(headless)
	url := l.MustLaunch()
	browser := rod.New().ControlURL(url).MustConnect()
	defer browser.MustClose()

	page := browser.MustPage(server.URL + "/login")
	defer page.MustClose()

	page.MustWaitLoad()

	page.MustElement("input[name=username]").MustInput(seed.DefaultAdminUsername)
	page.MustElement("input[name=password]").MustInput(seed.DefaultAdminPassword)
	page.MustElement("button[type=submit]").MustClick()

	page.MustWaitNavigation()

	adminRoutes := []struct {
		name        string
		path        string
		mustContain string
	}{
		{"dashboard", "/admin", "Dashboard"},
		{"posts list", "/admin/posts", "Posts"},
		{"new post", "/admin/posts/new", "Title"},
		{"categories", "/admin/categories", "Categories"},
		{"tags", "/admin/tags", "Tags"},
		{"templates", "/admin/templates", "Templates"},
		{"gallery", "/admin/gallery", "Gallery"},
		{"quotes", "/admin/quotes", "Quotes"},
		{"social links", "/admin/social-links", "Social"},
		{"about editor", "/admin/about", "About"},
		{"email config", "/admin/email-config", "SMTP"},
		{"messages", "/admin/messages", "Messages"},
		{"activity log", "/admin/activity", "Activity"},
		{"analytics", "/admin/analytics", "Analytics"},
	}

	for _, tc := range adminRoutes {
		t.Run(tc.name, func(t *testing.T) {
			page.MustNavigate(server.URL + tc.path)
			page.MustWaitLoad()

			html := page.MustHTML()
			if !strings.Contains(html, tc.mustContain) {
				t.Errorf("expected page %s to contain %q", tc.path, tc.mustContain)
			}
		})
	}
}

// TestTemplateRendering verifies public routes render without a browser.
func TestTemplateRendering(t *testing.T) {
	db := setupTestDB(t)
	post := setupTestFixtures(t, db)

	server := newTestServer(t, db)
	defer server.Close()

	publicRoutes := []string{
		"/",
		"/login",
		"/archive",
		"/about",
		"/contact",
		"/search",
		"/post/" + post.Slug,
	}

	client := &http.Client{Timeout: 10 * time.Second}

	for _, path := range publicRoutes {
		t.Run("GET "+path, func(t *testing.T) {
			resp, err := client.Get(server.URL + path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d for %s", resp.StatusCode, path)
			}

			contentType := resp.Header.Get("Content-Type")
			if !strings.Contains(contentType, "text/html") {
				t.Errorf("expected HTML content-type, got %s for %s", contentType, path)
			}
		})
	}
}

// TestAdminRequiresLogin verifies the dashboard redirects anonymous visitors.
func TestAdminRequiresLogin(t *testing.T) {
	db := setupTestDB(t)
	setupTestFixtures(t, db)

	server := newTestServer(t, db)
	defer server.Close()

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(server.URL + "/admin/posts")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

// TestRouteNotFound verifies 404 handling.
func TestRouteNotFound(t *testing.T) {
	db := setupTestDB(t)
	setupTestFixtures(t, db)

	server := newTestServer(t, db)
	defer server.Close()

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(server.URL + "/post/nonexistent-slug-12345")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
}

// TestLoginFlow tests the complete login workflow in a browser.
func TestLoginFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}

	headless := os.Getenv("E2E_HEADLESS") != "false"

	db := setupTestDB(t)
	setupTestFixtures(t, db)

	server := newTestServer(t, db)
	defer server.Close()

	l := launcher.New().Headless(headless)
	url := l.MustLaunch()
	browser := rod.New().ControlURL(url).MustConnect()
	defer browser.MustClose()

	page := browser.MustPage(server.URL + "/login")
	defer page.MustClose()

	page.MustWaitLoad()

	// Invalid credentials stay on the login page with an error
	page.MustElement("input[name=username]").MustInput("nobody")
	page.MustElement("input[name=password]").MustInput("wrongpass")
	page.MustElement("button[type=submit]").MustClick()

	page.MustWaitStable()
	html := page.MustHTML()
	if !strings.Contains(html, "Invalid") && !strings.Contains(html, "alert") {
		t.Log("expected error message on invalid login")
	}

	// Valid credentials land on the dashboard
	page.MustNavigate(server.URL + "/login")
	page.MustWaitLoad()

	page.MustElement("input[name=username]").MustInput(seed.DefaultAdminUsername)
	page.MustElement("input[name=password]").MustInput(seed.DefaultAdminPassword)
	page.MustElement("button[type=submit]").MustClick()

	page.MustWaitNavigation()

	currentURL := page.MustInfo().URL
	if !strings.Contains(currentURL, "/admin") {
		t.Errorf("expected redirect to /admin, got %s", currentURL)
	}
}

// Helper functions

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := migrate.NewRunner(db, zerolog.Nop()).Up(""); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// setupTestFixtures seeds defaults (including the admin account) and
// publishes one post.
func setupTestFixtures(t *testing.T, db *gorm.DB) *models.Post {
	t.Helper()
	ctx := context.Background()

	if err := seed.Run(ctx, db, zerolog.Nop()); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	svc := content.NewService(db, zerolog.Nop())
	post, err := svc.CreatePost(ctx, content.PostInput{
		Title:       "Hello from the test suite",
		Content:     "<p>Body of the first post.</p>",
		PostType:    "article",
		Status:      "published",
		PublishDate: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

func newTestServer(t *testing.T, db *gorm.DB) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()
	cfg := &config.Config{SiteName: "Story Hub"}

	siteSvc := site.NewService(db, logger)
	uploadDir := t.TempDir()

	handler, err := web.NewHandler(
		db,
		[]byte("test-jwt-secret"),
		"http://localhost",
		"Story Hub",
		uploadDir,
		web.Services{
			Content:   content.NewService(db, logger),
			Analytics: analytics.NewService(db, logger),
			Site:      siteSvc,
			Gallery:   site.NewGallery(db, uploadDir, logger),
			Activity:  activity.NewRecorder(db, logger),
			Notifier:  notifier.New(siteSvc, cfg, logger),
		},
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	r := chi.NewRouter()
	handler.Routes(r)
	return httptest.NewServer(r)
}
