/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"net/http"
	"strconv"
)

// AdminActivity renders the activity log, optionally filtered to one
// admin user.
func (h *Handler) AdminActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 100
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 500 {
		limit = n
	}

	var (
		entries any
		err     error
	)
	if username := q.Get("user"); username != "" {
		entries, err = h.activity.ForUser(r.Context(), username, limit)
	} else {
		entries, err = h.activity.Recent(r.Context(), limit)
	}
	if err != nil {
		h.serverError(w, r, err, "activity log")
		return
	}

	h.Render(w, r, "pages/admin/activity", PageData{
		Title: "Activity Log",
		Data: map[string]any{
			"Entries": entries,
			"User":    q.Get("user"),
		},
	})
}
