/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"net/http"
	"time"

	"github.com/friendsincode/storyhub/internal/models"
)

// AdminAnalytics renders the traffic dashboard. The range defaults to
// the last 30 days and accepts from/to query parameters.
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if t, err := time.Parse(models.DateLayout, q.Get("from")); err == nil {
		from = t
	}
	if t, err := time.Parse(models.DateLayout, q.Get("to")); err == nil {
		to = t
	}

	daily, err := h.analytics.DailySummary(ctx,
		from.Format(models.DateLayout), to.Format(models.DateLayout))
	if err != nil {
		h.serverError(w, r, err, "daily summary")
		return
	}

	topPosts, err := h.analytics.TopPosts(ctx, 10)
	if err != nil {
		h.serverError(w, r, err, "top posts")
		return
	}

	totalViews, err := h.analytics.TotalViews(ctx)
	if err != nil {
		h.serverError(w, r, err, "total views")
		return
	}

	recent, err := h.analytics.RecentViews(ctx, 25)
	if err != nil {
		h.serverError(w, r, err, "recent views")
		return
	}

	h.Render(w, r, "pages/admin/analytics", PageData{
		Title: "Analytics",
		Data: map[string]any{
			"Daily":      daily,
			"TopPosts":   topPosts,
			"TotalViews": totalViews,
			"Recent":     recent,
			"From":       from.Format(models.DateLayout),
			"To":         to.Format(models.DateLayout),
		},
	})
}
