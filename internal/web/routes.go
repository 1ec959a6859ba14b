/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers all web UI routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	// Static files and uploads
	r.Handle("/static/*", h.StaticHandler())
	r.Handle("/uploads/*", h.UploadsHandler())

	// Favicon - simple SVG book icon
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect x="5" y="4" width="22" height="24" rx="2" fill="#b45309"/><rect x="8" y="4" width="19" height="24" rx="2" fill="#fbbf24"/><line x1="11" y1="11" x2="24" y2="11" stroke="#b45309" stroke-width="2"/><line x1="11" y1="16" x2="24" y2="16" stroke="#b45309" stroke-width="2"/><line x1="11" y1="21" x2="20" y2="21" stroke="#b45309" stroke-width="2"/></svg>`))
	})

	// SEO endpoints
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	r.Get("/feed.xml", h.Feed)
	r.Get("/.well-known/security.txt", h.SecurityTxt)

	// Public routes (with optional auth context)
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		r.Use(h.EnsureCSRF)
		r.Use(h.CSRFMiddleware)

		r.Get("/", h.Home)
		r.Get("/post/{slug}", h.PostDetail)
		r.Get("/archive", h.Archive)
		r.Get("/category/{slug}", h.CategoryPage)
		r.Get("/tag/{slug}", h.TagPage)
		r.Get("/search", h.SearchPage)
		r.Get("/search/suggest", h.SearchSuggest)
		r.Get("/about", h.About)
		r.Get("/contact", h.ContactPage)
		r.Post("/contact", h.ContactSubmit)

		// Auth pages
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.LoginSubmit)
		r.Get("/logout", h.Logout)
	})

	// Admin routes (require authentication)
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		r.Use(h.RequireAuth)
		r.Use(h.EnsureCSRF)
		r.Use(h.CSRFMiddleware)

		r.Get("/", h.Dashboard)

		// Posts
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.AdminPosts)
			r.Get("/new", h.AdminPostNew)
			r.Post("/", h.AdminPostCreate)
			r.Get("/{id}/edit", h.AdminPostEdit)
			r.Post("/{id}", h.AdminPostUpdate)
			r.Post("/{id}/delete", h.AdminPostDelete)
			r.Post("/{id}/feature", h.AdminPostFeature)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.AdminCategories)
			r.Post("/", h.AdminCategoryCreate)
			r.Post("/{id}", h.AdminCategoryUpdate)
			r.Post("/{id}/delete", h.AdminCategoryDelete)
		})

		// Tags
		r.Get("/tags", h.AdminTags)
		r.Post("/tags/{id}/delete", h.AdminTagDelete)

		// Post templates
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.AdminTemplates)
			r.Get("/new", h.AdminTemplateEdit)
			r.Post("/", h.AdminTemplateSave)
			r.Get("/{id}/edit", h.AdminTemplateEdit)
			r.Post("/{id}", h.AdminTemplateSave)
			r.Post("/{id}/delete", h.AdminTemplateDelete)
		})

		// Image gallery
		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", h.AdminGallery)
			r.Post("/upload", h.AdminGalleryUpload)
			r.Post("/{id}", h.AdminGalleryUpdate)
			r.Post("/{id}/delete", h.AdminGalleryDelete)
		})

		// Quotes
		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", h.AdminQuotes)
			r.Post("/", h.AdminQuoteSave)
			r.Post("/{id}/delete", h.AdminQuoteDelete)
		})

		// Social links
		r.Route("/social-links", func(r chi.Router) {
			r.Get("/", h.AdminSocialLinks)
			r.Post("/", h.AdminSocialLinkSave)
			r.Post("/{id}/delete", h.AdminSocialLinkDelete)
		})

		// About page
		r.Get("/about", h.AdminAbout)
		r.Post("/about", h.AdminAboutSave)

		// Email settings
		r.Get("/email-config", h.AdminEmailConfig)
		r.Post("/email-config", h.AdminEmailConfigSave)
		r.Post("/email-config/test", h.AdminEmailTest)

		// Contact messages
		r.Get("/messages", h.AdminMessages)
		r.Post("/messages/{id}/delete", h.AdminMessageDelete)

		// Activity log and analytics
		r.Get("/activity", h.AdminActivity)
		r.Get("/analytics", h.AdminAnalytics)

		// Content export and combined backup download
		r.Route("/export", func(r chi.Router) {
			r.Get("/posts.json", h.AdminExportPosts)
			r.Get("/categories.json", h.AdminExportCategories)
			r.Get("/tags.json", h.AdminExportTags)
			r.Get("/backup.zip", h.AdminExportBackup)
		})
	})
}
