/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/storyhub/internal/analytics"
	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/site"
)

func pageParam(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// trackView records a public page view. Best effort; render never
// fails because tracking did.
func (h *Handler) trackView(r *http.Request, title string, postID *int64) {
	view := analytics.View{
		URL:       r.URL.Path,
		PageTitle: title,
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
		Referrer:  r.Referer(),
		PostID:    postID,
	}
	if err := h.analytics.TrackPageView(r.Context(), view); err != nil {
		h.logger.Error().Err(err).Str("url", view.URL).Msg("page view tracking failed")
	}
}

// Home renders the landing page: featured post, latest posts, a quote.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	featured, err := h.content.FeaturedPost(ctx)
	if err != nil && !errors.Is(err, content.ErrPostNotFound) {
		h.logger.Error().Err(err).Msg("load featured post")
	}

	posts, _, err := h.content.ListPosts(ctx, content.ListOptions{
		PublicOnly: true,
		Page:       1,
		PerPage:    6,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("load recent posts")
	}

	var quote *models.Quote
	if q, err := h.site.RandomQuote(ctx); err == nil {
		quote = q
	}

	categories, err := h.content.ListCategories(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("load categories")
	}

	h.trackView(r, "Home", nil)
	h.Render(w, r, "pages/public/home", PageData{
		Title: "Home",
		Data: map[string]any{
			"Featured":   featured,
			"Posts":      posts,
			"Quote":      quote,
			"Categories": categories,
		},
	})
}

// PostDetail renders one published post by slug.
func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	post, err := h.content.GetPublishedPostBySlug(ctx, slug)
	if errors.Is(err, content.ErrPostNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("load post")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	related, err := h.content.RelatedPosts(ctx, post, 3)
	if err != nil {
		h.logger.Error().Err(err).Int64("post_id", post.ID).Msg("load related posts")
	}

	h.trackView(r, post.Title, &post.ID)
	h.Render(w, r, "pages/public/post", PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":        post,
			"Related":     related,
			"ReadingTime": content.EstimateReadingTime(post.Content),
		},
	})
}

// Archive lists all published posts, paginated, optionally filtered by
// type.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	postType := r.URL.Query().Get("type")
	if postType != models.TypeArticle && postType != models.TypeStory {
		postType = ""
	}

	posts, pagination, err := h.content.ListPosts(r.Context(), content.ListOptions{
		PublicOnly: true,
		PostType:   postType,
		Page:       pageParam(r),
		PerPage:    12,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("load archive")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.trackView(r, "Archive", nil)
	h.Render(w, r, "pages/public/archive", PageData{
		Title: "Archive",
		Data: map[string]any{
			"Posts":      posts,
			"Pagination": pagination,
			"PostType":   postType,
		},
	})
}

// CategoryPage lists published posts in one category.
func (h *Handler) CategoryPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	category, err := h.content.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, content.ErrCategoryNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("load category")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	posts, pagination, err := h.content.ListPosts(ctx, content.ListOptions{
		PublicOnly:   true,
		CategorySlug: slug,
		Page:         pageParam(r),
		PerPage:      12,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("load category posts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.trackView(r, "Category: "+category.Name, nil)
	h.Render(w, r, "pages/public/category", PageData{
		Title: category.Name,
		Data: map[string]any{
			"Category":   category,
			"Posts":      posts,
			"Pagination": pagination,
		},
	})
}

// TagPage lists published posts carrying one tag.
func (h *Handler) TagPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	tag, err := h.content.GetTagBySlug(ctx, slug)
	if errors.Is(err, content.ErrTagNotFound) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("load tag")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	posts, pagination, err := h.content.ListPosts(ctx, content.ListOptions{
		PublicOnly: true,
		TagSlug:    slug,
		Page:       pageParam(r),
		PerPage:    12,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("slug", slug).Msg("load tag posts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.trackView(r, "Tag: "+tag.Name, nil)
	h.Render(w, r, "pages/public/tag", PageData{
		Title: "#" + tag.Name,
		Data: map[string]any{
			"Tag":        tag,
			"Posts":      posts,
			"Pagination": pagination,
		},
	})
}

// About renders the about page from the stored about info.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	about, err := h.site.AboutInfo(r.Context())
	if err != nil && !errors.Is(err, site.ErrNotFound) {
		h.logger.Error().Err(err).Msg("load about info")
	}

	h.trackView(r, "About", nil)
	h.Render(w, r, "pages/public/about", PageData{
		Title: "About",
		Data:  map[string]any{"About": about},
	})
}

// ContactPage renders the contact form.
func (h *Handler) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.trackView(r, "Contact", nil)
	h.Render(w, r, "pages/public/contact", PageData{
		Title:     "Contact",
		CSRFToken: ensureCSRFCookie(w, r),
	})
}

// ContactSubmit stores the message and notifies the site owner.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	msg := models.ContactMessage{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		h.Render(w, r, "pages/public/contact", PageData{
			Title: "Contact",
			Flash: &FlashMessage{Type: "error", Message: "Name, email and message are required"},
			Data:  map[string]any{"Form": msg},
		})
		return
	}

	if err := h.site.SaveContactMessage(r.Context(), &msg); err != nil {
		h.logger.Error().Err(err).Msg("save contact message")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.notifier.NotifyContactMessage(r.Context(), &msg)

	h.Render(w, r, "pages/public/contact", PageData{
		Title: "Contact",
		Flash: &FlashMessage{Type: "success", Message: "Thanks, your message has been sent."},
	})
}
