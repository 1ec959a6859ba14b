/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/models"
)

// Export row shapes. Field names follow the database columns so dumps
// stay stable across refactors of the Go structs.

type exportTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type exportCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type exportPost struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt"`
	ImageFilename   string    `json:"image_filename"`
	PostType        string    `json:"post_type"`
	Category        string    `json:"category,omitempty"`
	Status          string    `json:"status"`
	Featured        bool      `json:"featured"`
	PublishDate     time.Time `json:"publish_date"`
	MetaDescription string    `json:"meta_description"`
	MetaKeywords    string    `json:"meta_keywords"`
	CanonicalURL    string    `json:"canonical_url"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (h *Handler) collectExportPosts(r *http.Request) ([]exportPost, error) {
	var posts []models.Post
	err := h.db.WithContext(r.Context()).
		Preload("Category").
		Preload("Tags").
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("load posts for export: %w", err)
	}

	out := make([]exportPost, 0, len(posts))
	for _, p := range posts {
		row := exportPost{
			ID:              p.ID,
			Title:           p.Title,
			Slug:            p.Slug,
			Content:         p.Content,
			Excerpt:         p.Excerpt,
			ImageFilename:   p.ImageFilename,
			PostType:        p.PostType,
			Status:          p.Status,
			Featured:        p.Featured,
			PublishDate:     p.PublishDate,
			MetaDescription: p.MetaDescription,
			MetaKeywords:    p.MetaKeywords,
			CanonicalURL:    p.CanonicalURL,
			Tags:            make([]string, 0, len(p.Tags)),
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		}
		if p.Category != nil {
			row.Category = p.Category.Name
		}
		for _, t := range p.Tags {
			row.Tags = append(row.Tags, t.Name)
		}
		out = append(out, row)
	}
	return out, nil
}

func (h *Handler) collectExportCategories(r *http.Request) ([]exportCategory, error) {
	var cats []models.Category
	if err := h.db.WithContext(r.Context()).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("load categories for export: %w", err)
	}
	out := make([]exportCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, exportCategory{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out, nil
}

func (h *Handler) collectExportTags(r *http.Request) ([]exportTag, error) {
	var tags []models.Tag
	if err := h.db.WithContext(r.Context()).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags for export: %w", err)
	}
	out := make([]exportTag, 0, len(tags))
	for _, t := range tags {
		out = append(out, exportTag{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out, nil
}

// writeJSONAttachment serves data as a downloadable JSON file.
func (h *Handler) writeJSONAttachment(w http.ResponseWriter, filename string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		h.logger.Error().Err(err).Str("file", filename).Msg("encode export")
	}
}

// AdminExportPosts dumps every post, draft or published, as JSON.
func (h *Handler) AdminExportPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.collectExportPosts(r)
	if err != nil {
		h.serverError(w, r, err, "export posts")
		return
	}
	h.record(r, activity.ActionExport, "posts.json")
	h.writeJSONAttachment(w, "posts.json", posts)
}

// AdminExportCategories dumps all categories as JSON.
func (h *Handler) AdminExportCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.collectExportCategories(r)
	if err != nil {
		h.serverError(w, r, err, "export categories")
		return
	}
	h.record(r, activity.ActionExport, "categories.json")
	h.writeJSONAttachment(w, "categories.json", cats)
}

// AdminExportTags dumps all tags as JSON.
func (h *Handler) AdminExportTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.collectExportTags(r)
	if err != nil {
		h.serverError(w, r, err, "export tags")
		return
	}
	h.record(r, activity.ActionExport, "tags.json")
	h.writeJSONAttachment(w, "tags.json", tags)
}

// AdminExportBackup bundles the three JSON dumps into one zip download.
func (h *Handler) AdminExportBackup(w http.ResponseWriter, r *http.Request) {
	posts, err := h.collectExportPosts(r)
	if err != nil {
		h.serverError(w, r, err, "export backup")
		return
	}
	cats, err := h.collectExportCategories(r)
	if err != nil {
		h.serverError(w, r, err, "export backup")
		return
	}
	tags, err := h.collectExportTags(r)
	if err != nil {
		h.serverError(w, r, err, "export backup")
		return
	}

	filename := fmt.Sprintf("storyhub_backup_%s.zip", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	zw := zip.NewWriter(w)
	entries := []struct {
		name string
		data any
	}{
		{"posts.json", posts},
		{"categories.json", cats},
		{"tags.json", tags},
	}
	for _, entry := range entries {
		f, err := zw.Create(entry.name)
		if err != nil {
			h.logger.Error().Err(err).Str("file", entry.name).Msg("write backup entry")
			return
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entry.data); err != nil {
			h.logger.Error().Err(err).Str("file", entry.name).Msg("encode backup entry")
			return
		}
	}
	if err := zw.Close(); err != nil {
		h.logger.Error().Err(err).Msg("close backup zip")
		return
	}

	h.record(r, activity.ActionExport, filename)
}
