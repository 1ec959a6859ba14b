/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
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
	"github.com/friendsincode/storyhub/internal/site"
)

func newSEOTestHandler(t *testing.T) (*Handler, *content.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := migrate.NewRunner(db, zerolog.Nop()).Up(""); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	logger := zerolog.Nop()
	siteSvc := site.NewService(db, logger)
	contentSvc := content.NewService(db, logger)
	uploadDir := t.TempDir()

	h, err := NewHandler(
		db,
		[]byte("test-secret"),
		"https://stories.example.com",
		"Story Hub",
		uploadDir,
		Services{
			Content:   contentSvc,
			Analytics: analytics.NewService(db, logger),
			Site:      siteSvc,
			Gallery:   site.NewGallery(db, uploadDir, logger),
			Activity:  activity.NewRecorder(db, logger),
			Notifier:  notifier.New(siteSvc, &config.Config{}, logger),
		},
		logger,
	)
	if err != nil {
		t.Fatalf("create handler: %v", err)
	}
	return h, contentSvc
}

func publishPost(t *testing.T, svc *content.Service, title string) *models.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), content.PostInput{
		Title:       title,
		Content:     "<p>body</p>",
		PostType:    "article",
		Status:      "published",
		PublishDate: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func TestSitemapListsPublishedPosts(t *testing.T) {
	h, svc := newSEOTestHandler(t)
	post := publishPost(t, svc, "Sitemap Entry")

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	rec := httptest.NewRecorder()
	h.Sitemap(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "xml") {
		t.Errorf("content type = %q, want xml", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<urlset") {
		t.Error("missing urlset element")
	}
	if !strings.Contains(body, "https://stories.example.com/post/"+post.Slug) {
		t.Errorf("sitemap missing post URL for %s", post.Slug)
	}
}

func TestFeedServesRSS(t *testing.T) {
	h, svc := newSEOTestHandler(t)
	post := publishPost(t, svc, "Feed Entry")

	req := httptest.NewRequest(http.MethodGet, "/feed.xml", nil)
	rec := httptest.NewRecorder()
	h.Feed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "rss") {
		t.Errorf("content type = %q, want rss", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<rss") {
		t.Error("missing rss element")
	}
	if !strings.Contains(body, post.Title) {
		t.Errorf("feed missing post title %q", post.Title)
	}
}

func TestRobotsDisallowsAdmin(t *testing.T) {
	h, _ := newSEOTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	h.Robots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Disallow: /admin/") {
		t.Error("robots.txt should disallow /admin/")
	}
	if !strings.Contains(body, "Sitemap: https://stories.example.com/sitemap.xml") {
		t.Error("robots.txt should point at the sitemap")
	}
}

func TestSearchSuggestReturnsJSON(t *testing.T) {
	h, svc := newSEOTestHandler(t)
	post := publishPost(t, svc, "Gardening for Gophers")

	r := chi.NewRouter()
	h.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/search/suggest?q=garden", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var suggestions []content.Suggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].URL != "/post/"+post.Slug {
		t.Errorf("suggestion URL = %q, want /post/%s", suggestions[0].URL, post.Slug)
	}
}

func TestSearchPageFiltersByQuery(t *testing.T) {
	h, svc := newSEOTestHandler(t)
	publishPost(t, svc, "Compost Basics")
	publishPost(t, svc, "Unrelated Topic")

	r := chi.NewRouter()
	h.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/search?q=compost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Compost Basics") {
		t.Error("search results missing matching post")
	}
	if strings.Contains(body, "Unrelated Topic") {
		t.Error("search results include non-matching post")
	}
}
