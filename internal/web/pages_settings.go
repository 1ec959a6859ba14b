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

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/site"
)

func formInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.FormValue(name))
	return n
}

func formBool(r *http.Request, name string) bool {
	switch strings.ToLower(r.FormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// AdminQuotes lists every quote for management.
func (h *Handler) AdminQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.site.ListQuotes(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list quotes")
		return
	}

	h.Render(w, r, "pages/admin/quotes", PageData{
		Title: "Quotes",
		Data:  map[string]any{"Quotes": quotes},
	})
}

// AdminQuoteSave creates or updates a quote.
func (h *Handler) AdminQuoteSave(w http.ResponseWriter, r *http.Request) {
	quote := &models.Quote{
		Text:         strings.TrimSpace(r.FormValue("text")),
		Author:       strings.TrimSpace(r.FormValue("author")),
		Source:       strings.TrimSpace(r.FormValue("source")),
		Language:     strings.TrimSpace(r.FormValue("language")),
		IsActive:     formBool(r, "is_active"),
		DisplayOrder: formInt(r, "display_order"),
	}
	if quote.Language == "" {
		quote.Language = "en"
	}
	if id, err := strconv.ParseInt(r.FormValue("id"), 10, 64); err == nil {
		quote.ID = id
	}
	if quote.Text == "" {
		h.redirect(w, r, "/admin/quotes")
		return
	}

	if err := h.site.SaveQuote(r.Context(), quote); err != nil {
		h.serverError(w, r, err, "save quote")
		return
	}

	h.record(r, activity.ActionQuoteSave, fmt.Sprintf("Saved quote #%d", quote.ID))
	h.redirect(w, r, "/admin/quotes")
}

// AdminQuoteDelete removes a quote.
func (h *Handler) AdminQuoteDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.site.DeleteQuote(r.Context(), id); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete quote")
		return
	}

	h.record(r, activity.ActionQuoteDelete, fmt.Sprintf("Deleted quote #%d", id))
	h.redirect(w, r, "/admin/quotes")
}

// AdminSocialLinks lists the footer social links.
func (h *Handler) AdminSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.site.ListSocialLinks(r.Context())
	if err != nil {
		h.serverError(w, r, err, "list social links")
		return
	}

	h.Render(w, r, "pages/admin/social-links", PageData{
		Title: "Social Links",
		Data:  map[string]any{"Links": links},
	})
}

// AdminSocialLinkSave creates or updates a social link.
func (h *Handler) AdminSocialLinkSave(w http.ResponseWriter, r *http.Request) {
	link := &models.SocialLink{
		Name:         strings.TrimSpace(r.FormValue("name")),
		URL:          strings.TrimSpace(r.FormValue("url")),
		IconClass:    strings.TrimSpace(r.FormValue("icon_class")),
		DisplayOrder: formInt(r, "display_order"),
		IsActive:     formBool(r, "is_active"),
	}
	if id, err := strconv.ParseInt(r.FormValue("id"), 10, 64); err == nil {
		link.ID = id
	}
	if link.Name == "" {
		h.redirect(w, r, "/admin/social-links")
		return
	}

	if err := h.site.SaveSocialLink(r.Context(), link); err != nil {
		h.serverError(w, r, err, "save social link")
		return
	}

	h.record(r, activity.ActionSocialSave, fmt.Sprintf("Saved social link %q", link.Name))
	h.redirect(w, r, "/admin/social-links")
}

// AdminSocialLinkDelete removes a social link.
func (h *Handler) AdminSocialLinkDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	if err := h.site.DeleteSocialLink(r.Context(), id); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		h.serverError(w, r, err, "delete social link")
		return
	}

	h.record(r, activity.ActionSocialSave, fmt.Sprintf("Deleted social link #%d", id))
	h.redirect(w, r, "/admin/social-links")
}

// AdminAbout renders the about-page editor.
func (h *Handler) AdminAbout(w http.ResponseWriter, r *http.Request) {
	about, err := h.site.AboutInfo(r.Context())
	if err != nil && !errors.Is(err, site.ErrNotFound) {
		h.serverError(w, r, err, "load about")
		return
	}
	if about == nil {
		about = &models.AboutInfo{}
	}

	h.Render(w, r, "pages/admin/about", PageData{
		Title: "About Page",
		Data:  map[string]any{"About": about},
	})
}

// AdminAboutSave stores the about-page content.
func (h *Handler) AdminAboutSave(w http.ResponseWriter, r *http.Request) {
	about := &models.AboutInfo{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Email:         strings.TrimSpace(r.FormValue("email")),
		Bio:           r.FormValue("bio"),
		ImageFilename: r.FormValue("image_filename"),
		WebsiteURL:    strings.TrimSpace(r.FormValue("website_url")),
		GithubURL:     strings.TrimSpace(r.FormValue("github_url")),
		LinkedinURL:   strings.TrimSpace(r.FormValue("linkedin_url")),
		TwitterURL:    strings.TrimSpace(r.FormValue("twitter_url")),
	}

	if err := h.site.SaveAboutInfo(r.Context(), about); err != nil {
		h.serverError(w, r, err, "save about")
		return
	}

	h.record(r, activity.ActionAboutSave, "Updated the about page")
	h.redirect(w, r, "/admin/about")
}

// AdminEmailConfig renders the SMTP settings form.
func (h *Handler) AdminEmailConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.site.EmailConfig(r.Context())
	if err != nil && !errors.Is(err, site.ErrNotFound) {
		h.serverError(w, r, err, "load email config")
		return
	}
	if cfg == nil {
		cfg = &models.EmailConfig{SMTPPort: 587, UseTLS: true}
	}

	h.Render(w, r, "pages/admin/email-config", PageData{
		Title: "Email Settings",
		Data:  map[string]any{"Config": cfg},
	})
}

// AdminEmailConfigSave stores the SMTP settings.
func (h *Handler) AdminEmailConfigSave(w http.ResponseWriter, r *http.Request) {
	cfg := &models.EmailConfig{
		SMTPServer:   strings.TrimSpace(r.FormValue("smtp_server")),
		SMTPPort:     formInt(r, "smtp_port"),
		SMTPUsername: strings.TrimSpace(r.FormValue("smtp_username")),
		SMTPPassword: r.FormValue("smtp_password"),
		FromEmail:    strings.TrimSpace(r.FormValue("from_email")),
		ToEmail:      strings.TrimSpace(r.FormValue("to_email")),
		UseTLS:       formBool(r, "use_tls"),
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}

	if err := h.site.SaveEmailConfig(r.Context(), cfg); err != nil {
		h.serverError(w, r, err, "save email config")
		return
	}

	h.record(r, activity.ActionEmailSave, "Updated email settings")
	h.redirect(w, r, "/admin/email-config")
}

// AdminEmailTest sends a test message with the stored settings.
func (h *Handler) AdminEmailTest(w http.ResponseWriter, r *http.Request) {
	to := strings.TrimSpace(r.FormValue("to"))

	if err := h.notifier.SendTest(r.Context(), to); err != nil {
		h.logger.Warn().Err(err).Msg("test email failed")
		http.Error(w, "Test email failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	h.redirect(w, r, "/admin/email-config")
}
