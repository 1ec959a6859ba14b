/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/site"
)

// AdminMessages lists contact form submissions, newest first.
func (h *Handler) AdminMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.site.ListContactMessages(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list messages")
		return
	}

	h.Render(w, r, "pages/admin/messages", PageData{
		Title: "Messages",
		Data:  map[string]any{"Messages": messages},
	})
}

// AdminMessageDelete removes a contact message.
func (h *Handler) AdminMessageDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.site.DeleteContactMessage(r.Context(), id); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete message")
		return
	}

	h.record(r, activity.ActionMessageDelete, fmt.Sprintf("Deleted message #%d", id))
	h.redirect(w, r, "/admin/messages")
}
