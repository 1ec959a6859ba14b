/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/site"
)

// AdminCategories lists every category with its post count.
func (h *Handler) AdminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list categories")
		return
	}

	h.Render(w, r, "pages/admin/categories", PageData{
		Title: "Categories",
		Data:  map[string]any{"Categories": categories},
	})
}

// AdminCategoryCreate adds a category from the inline form.
func (h *Handler) AdminCategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.redirect(w, r, "/admin/categories")
		return
	}

	cat, err := h.content.CreateCategory(r.Context(), name, strings.TrimSpace(r.FormValue("description")))
	if err != nil {
		h.serverError(w, r, err, "create category")
		return
	}

	h.record(r, activity.ActionCategoryCreate, fmt.Sprintf("Created category %q", cat.Name))
	h.redirect(w, r, "/admin/categories")
}

// AdminCategoryUpdate renames a category.
func (h *Handler) AdminCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.redirect(w, r, "/admin/categories")
		return
	}

	cat, err := h.content.UpdateCategory(r.Context(), id, name, strings.TrimSpace(r.FormValue("description")))
	if errors.Is(err, content.ErrCategoryNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err, "update category")
		return
	}

	h.record(r, activity.ActionCategoryUpdate, fmt.Sprintf("Updated category %q", cat.Name))
	h.redirect(w, r, "/admin/categories")
}

// AdminCategoryDelete removes a category, detaching its posts.
func (h *Handler) AdminCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.content.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrCategoryNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete category")
		return
	}

	h.record(r, activity.ActionCategoryDelete, fmt.Sprintf("Deleted category #%d", id))
	h.redirect(w, r, "/admin/categories")
}

// AdminTags lists every tag with its usage count.
func (h *Handler) AdminTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.content.ListTags(r.Context(), 0)
	if err != nil {
		h.serverError(w, r, err, "list tags")
		return
	}

	h.Render(w, r, "pages/admin/tags", PageData{
		Title: "Tags",
		Data:  map[string]any{"Tags": tags},
	})
}

// AdminTagDelete removes a tag and its post links.
func (h *Handler) AdminTagDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.content.DeleteTag(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrTagNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete tag")
		return
	}

	h.record(r, activity.ActionTagDelete, fmt.Sprintf("Deleted tag #%d", id))
	h.redirect(w, r, "/admin/tags")
}

// AdminTemplates lists the post templates.
func (h *Handler) AdminTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.site.ListTemplates(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list templates")
		return
	}

	h.Render(w, r, "pages/admin/templates", PageData{
		Title: "Post Templates",
		Data:  map[string]any{"Templates": templates},
	})
}

// AdminTemplateEdit renders the template editor, blank for a new one.
func (h *Handler) AdminTemplateEdit(w http.ResponseWriter, r *http.Request) {
	tpl := &models.PostTemplate{}

	if idStr := chi.URLParam(r, "id"); idStr != "" {
		id, err := idParam(r)
		if err != nil {
			h.renderNotFound(w, r)
			return
		}
		tpl, err = h.site.GetTemplate(r.Context(), id)
		if errors.Is(err, site.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		if err != nil {
			h.serverError(w, r, err, "load template")
			return
		}
	}

	h.Render(w, r, "pages/admin/template-edit", PageData{
		Title: "Edit Template",
		Data:  map[string]any{"Template": tpl},
	})
}

// AdminTemplateSave creates or updates a post template.
func (h *Handler) AdminTemplateSave(w http.ResponseWriter, r *http.Request) {
	tpl := &models.PostTemplate{
		Name:            strings.TrimSpace(r.FormValue("name")),
		Description:     strings.TrimSpace(r.FormValue("description")),
		ContentTemplate: r.FormValue("content_template"),
	}
	if id, err := idParam(r); err == nil {
		tpl.ID = id
	}
	if tpl.Name == "" {
		h.redirect(w, r, "/admin/templates")
		return
	}

	if err := h.site.SaveTemplate(r.Context(), tpl); err != nil {
		h.serverError(w, r, err, "save template")
		return
	}

	h.record(r, activity.ActionTemplateSave, fmt.Sprintf("Saved template %q", tpl.Name))
	h.redirect(w, r, "/admin/templates")
}

// AdminTemplateDelete removes a template unless a post still uses it.
func (h *Handler) AdminTemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	err = h.site.DeleteTemplate(r.Context(), id)
	switch {
	case errors.Is(err, site.ErrNotFound):
		h.renderNotFound(w, r)
		return
	case errors.Is(err, site.ErrTemplateInUse):
		http.Error(w, "Template is still used by posts", http.StatusConflict)
		return
	case err != nil:
		h.serverError(w, r, err, "delete template")
		return
	}

	h.record(r, activity.ActionTemplateDelete, fmt.Sprintf("Deleted template #%d", id))
	h.redirect(w, r, "/admin/templates")
}
