/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/models"
)

// datetimeLocalLayout matches the value format of <input type="datetime-local">.
const datetimeLocalLayout = "2006-01-02T15:04"

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// redirect sends the browser to target, using HX-Redirect for HTMX
// requests so the whole page swaps instead of a fragment.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, what string) {
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg(what)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// record writes an activity log entry for the signed-in admin.
func (h *Handler) record(r *http.Request, action, details string) {
	user := h.GetUser(r)
	if user == nil {
		return
	}
	h.activity.Record(r.Context(), user.Username, action, details, clientIP(r))
}

// Dashboard renders the admin landing page with content counts,
// traffic numbers and the latest activity.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := map[string]int64{}
	for name, model := range map[string]any{
		"posts":      &models.Post{},
		"categories": &models.Category{},
		"tags":       &models.Tag{},
		"images":     &models.GalleryImage{},
		"messages":   &models.ContactMessage{},
	} {
		var count int64
		if err := h.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
			h.serverError(w, r, err, "dashboard counts")
			return
		}
		stats[name] = count
	}

	var drafts int64
	h.db.WithContext(ctx).Model(&models.Post{}).
		Where("status = ?", models.StatusDraft).Count(&drafts)
	stats["drafts"] = drafts

	totalViews, err := h.analytics.TotalViews(ctx)
	if err != nil {
		h.serverError(w, r, err, "dashboard views")
		return
	}

	topPosts, err := h.analytics.TopPosts(ctx, 5)
	if err != nil {
		h.serverError(w, r, err, "dashboard top posts")
		return
	}

	recent, err := h.activity.Recent(ctx, 10)
	if err != nil {
		h.serverError(w, r, err, "dashboard activity")
		return
	}

	latestPosts, _, err := h.content.ListPosts(ctx, content.ListOptions{Page: 1, PerPage: 5})
	if err != nil {
		h.serverError(w, r, err, "dashboard posts")
		return
	}

	h.Render(w, r, "pages/admin/dashboard", PageData{
		Title: "Dashboard",
		Data: map[string]any{
			"Stats":       stats,
			"TotalViews":  totalViews,
			"TopPosts":    topPosts,
			"Activity":    recent,
			"LatestPosts": latestPosts,
		},
	})
}

// AdminPosts lists every post, with optional status and type filters.
func (h *Handler) AdminPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := content.ListOptions{
		Status:   q.Get("status"),
		PostType: q.Get("type"),
		Page:     pageParam(r),
		PerPage:  20,
	}

	posts, page, err := h.content.ListPosts(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err, "list posts")
		return
	}

	h.Render(w, r, "pages/admin/posts", PageData{
		Title: "Posts",
		Data: map[string]any{
			"Posts":      posts,
			"Pagination": page,
			"Status":     opts.Status,
			"Type":       opts.PostType,
		},
	})
}

// postFormData gathers everything the post editor needs besides the
// post itself.
func (h *Handler) postFormData(r *http.Request) (map[string]any, error) {
	ctx := r.Context()

	categories, err := h.content.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := h.site.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	images, err := h.gallery.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"Categories": categories,
		"Templates":  templates,
		"Images":     images,
	}, nil
}

// AdminPostNew renders an empty post editor.
func (h *Handler) AdminPostNew(w http.ResponseWriter, r *http.Request) {
	data, err := h.postFormData(r)
	if err != nil {
		h.serverError(w, r, err, "post form data")
		return
	}
	data["Post"] = &models.Post{
		Status:      models.StatusPublished,
		PostType:    models.TypeArticle,
		PublishDate: time.Now(),
	}

	h.Render(w, r, "pages/admin/post-edit", PageData{Title: "New Post", Data: data})
}

// AdminPostEdit renders the editor for an existing post.
func (h *Handler) AdminPostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if errors.Is(err, content.ErrPostNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err, "load post")
		return
	}

	data, err := h.postFormData(r)
	if err != nil {
		h.serverError(w, r, err, "post form data")
		return
	}
	data["Post"] = post

	h.Render(w, r, "pages/admin/post-edit", PageData{Title: "Edit Post", Data: data})
}

func postInputFromForm(r *http.Request) content.PostInput {
	in := content.PostInput{
		Title:           strings.TrimSpace(r.FormValue("title")),
		Content:         r.FormValue("content"),
		Excerpt:         strings.TrimSpace(r.FormValue("excerpt")),
		ImageFilename:   r.FormValue("image_filename"),
		ImagePositionX:  r.FormValue("image_position_x"),
		ImagePositionY:  r.FormValue("image_position_y"),
		PostType:        r.FormValue("post_type"),
		Status:          r.FormValue("status"),
		MetaDescription: strings.TrimSpace(r.FormValue("meta_description")),
		MetaKeywords:    strings.TrimSpace(r.FormValue("meta_keywords")),
		CanonicalURL:    strings.TrimSpace(r.FormValue("canonical_url")),
		Tags:            r.FormValue("tags"),
	}

	if id, err := strconv.ParseInt(r.FormValue("category_id"), 10, 64); err == nil && id > 0 {
		in.CategoryID = &id
	}
	if id, err := strconv.ParseInt(r.FormValue("template_id"), 10, 64); err == nil && id > 0 {
		in.TemplateID = &id
	}
	if t, err := time.Parse(datetimeLocalLayout, r.FormValue("publish_date")); err == nil {
		in.PublishDate = t
	}
	return in
}

// AdminPostCreate handles the new-post form submit.
func (h *Handler) AdminPostCreate(w http.ResponseWriter, r *http.Request) {
	in := postInputFromForm(r)
	if in.Title == "" {
		h.renderPostFormError(w, r, nil, in, "Title is required.")
		return
	}

	post, err := h.content.CreatePost(r.Context(), in)
	if err != nil {
		h.serverError(w, r, err, "create post")
		return
	}

	h.record(r, activity.ActionPostCreate, fmt.Sprintf("Created post %q (#%d)", post.Title, post.ID))
	h.redirect(w, r, "/admin/posts")
}

// AdminPostUpdate handles the edit-post form submit.
func (h *Handler) AdminPostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	in := postInputFromForm(r)
	if in.Title == "" {
		post, _ := h.content.GetPost(r.Context(), id)
		h.renderPostFormError(w, r, post, in, "Title is required.")
		return
	}

	post, err := h.content.UpdatePost(r.Context(), id, in)
	if errors.Is(err, content.ErrPostNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err, "update post")
		return
	}

	h.record(r, activity.ActionPostUpdate, fmt.Sprintf("Updated post %q (#%d)", post.Title, post.ID))
	h.redirect(w, r, "/admin/posts")
}

func (h *Handler) renderPostFormError(w http.ResponseWriter, r *http.Request, post *models.Post, in content.PostInput, message string) {
	data, err := h.postFormData(r)
	if err != nil {
		h.serverError(w, r, err, "post form data")
		return
	}
	if post == nil {
		post = &models.Post{}
	}
	data["Post"] = post
	data["Input"] = in

	w.WriteHeader(http.StatusUnprocessableEntity)
	h.Render(w, r, "pages/admin/post-edit", PageData{
		Title: "Edit Post",
		Flash: &FlashMessage{Type: "error", Message: message},
		Data:  data,
	})
}

// AdminPostDelete removes a post.
func (h *Handler) AdminPostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.content.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete post")
		return
	}

	h.record(r, activity.ActionPostDelete, fmt.Sprintf("Deleted post #%d", id))
	h.redirect(w, r, "/admin/posts")
}

// AdminPostFeature makes a post the featured one.
func (h *Handler) AdminPostFeature(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.content.FeaturePost(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "feature post")
		return
	}

	h.record(r, activity.ActionPostFeature, fmt.Sprintf("Featured post #%d", id))
	h.redirect(w, r, "/admin/posts")
}
