/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/storyhub/internal/content"
)

func TestExportPostsJSON(t *testing.T) {
	h, svc := newSEOTestHandler(t)

	cat, err := svc.CreateCategory(context.Background(), "Essays", "long form")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreatePost(context.Background(), content.PostInput{
		Title:       "Exported Piece",
		Content:     "<p>body</p>",
		PostType:    "article",
		Status:      "draft",
		PublishDate: time.Now(),
		CategoryID:  &cat.ID,
		Tags:        "go, web",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/export/posts.json", nil)
	rec := httptest.NewRecorder()
	h.AdminExportPosts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "posts.json") {
		t.Errorf("content disposition = %q, want posts.json attachment", cd)
	}

	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row["title"] != "Exported Piece" {
		t.Errorf("title = %v", row["title"])
	}
	if row["status"] != "draft" {
		t.Errorf("export must include drafts, status = %v", row["status"])
	}
	if row["category"] != "Essays" {
		t.Errorf("category = %v, want Essays", row["category"])
	}
	tags, ok := row["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("tags = %v, want 2 names", row["tags"])
	}
}

func TestExportBackupZip(t *testing.T) {
	h, svc := newSEOTestHandler(t)
	publishPost(t, svc, "Zipped Entry")

	req := httptest.NewRequest(http.MethodGet, "/admin/export/backup.zip", nil)
	rec := httptest.NewRecorder()
	h.AdminExportBackup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type = %q, want application/zip", ct)
	}

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}

	want := map[string]bool{"posts.json": false, "categories.json": false, "tags.json": false}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; !ok {
			t.Errorf("unexpected zip entry %q", f.Name)
			continue
		}
		want[f.Name] = true

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		var rows []map[string]any
		if err := json.Unmarshal(raw, &rows); err != nil {
			t.Errorf("entry %s is not a JSON array: %v", f.Name, err)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("zip missing entry %q", name)
		}
	}
}

func TestExportRoutesRequireAuth(t *testing.T) {
	h, _ := newSEOTestHandler(t)

	r := chi.NewRouter()
	h.Routes(r)

	for _, path := range []string{
		"/admin/export/posts.json",
		"/admin/export/categories.json",
		"/admin/export/tags.json",
		"/admin/export/backup.zip",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want 303", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
			t.Errorf("%s: redirect = %q, want /login", path, loc)
		}
	}
}
