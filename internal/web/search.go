/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/models"
)

// SearchPage runs a search over published posts and renders results.
// With no filters beyond q it is a plain search; the advanced fields
// narrow by category, tag, date range and sort order.
func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := content.SearchOptions{
		Query:        strings.TrimSpace(q.Get("q")),
		CategorySlug: q.Get("category"),
		TagSlug:      q.Get("tag"),
		SortBy:       q.Get("sort"),
		Page:         pageParam(r),
		PerPage:      12,
	}
	if from, err := time.Parse(models.DateLayout, q.Get("from")); err == nil {
		opts.DateFrom = from
	}
	if to, err := time.Parse(models.DateLayout, q.Get("to")); err == nil {
		opts.DateTo = to
	}

	posts, pagination, err := h.content.AdvancedSearch(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Str("query", opts.Query).Msg("search failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("load categories")
	}

	if opts.Query != "" {
		h.trackView(r, "Search", nil)
	}
	h.Render(w, r, "pages/public/search", PageData{
		Title: "Search",
		Data: map[string]any{
			"Query":      opts.Query,
			"Options":    opts,
			"Posts":      posts,
			"Pagination": pagination,
			"Categories": categories,
		},
	})
}

// SearchSuggest returns typeahead suggestions as JSON.
func (h *Handler) SearchSuggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	suggestions, err := h.content.Suggestions(r.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Str("query", query).Msg("suggestions failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if suggestions == nil {
		suggestions = []content.Suggestion{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(suggestions); err != nil {
		h.logger.Error().Err(err).Msg("encode suggestions")
	}
}
