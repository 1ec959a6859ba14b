/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/models"
)

const feedPostLimit = 20

func (h *Handler) absoluteURL(path string) string {
	return h.baseURL + path
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap serves /sitemap.xml covering the static pages, posts,
// categories and tags.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.absoluteURL("/"), ChangeFreq: "daily", Priority: "1.0"},
			{Loc: h.absoluteURL("/archive"), ChangeFreq: "daily", Priority: "0.8"},
			{Loc: h.absoluteURL("/about"), ChangeFreq: "monthly", Priority: "0.5"},
			{Loc: h.absoluteURL("/contact"), ChangeFreq: "monthly", Priority: "0.4"},
		},
	}

	posts, _, err := h.content.ListPosts(ctx, content.ListOptions{PublicOnly: true, Page: 1, PerPage: 1000})
	if err != nil {
		h.logger.Error().Err(err).Msg("sitemap posts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	for _, p := range posts {
		u := sitemapURL{
			Loc:        h.absoluteURL("/post/" + p.Slug),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		}
		if !p.UpdatedAt.IsZero() {
			u.LastMod = p.UpdatedAt.Format(models.DateLayout)
		}
		set.URLs = append(set.URLs, u)
	}

	if categories, err := h.content.ListCategories(ctx); err == nil {
		for _, c := range categories {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        h.absoluteURL("/category/" + c.Slug),
				ChangeFreq: "weekly",
				Priority:   "0.6",
			})
		}
	}
	if tags, err := h.content.ListTags(ctx, 0); err == nil {
		for _, t := range tags {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        h.absoluteURL("/tag/" + t.Slug),
				ChangeFreq: "weekly",
				Priority:   "0.5",
			})
		}
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		h.logger.Error().Err(err).Msg("encode sitemap")
	}
}

// Robots serves /robots.txt. Admin and auth routes are excluded from
// crawling.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nDisallow: /admin/\nDisallow: /login\nDisallow: /logout\n\nSitemap: %s\n",
		h.absoluteURL("/sitemap.xml"))
}

// SecurityTxt serves /.well-known/security.txt.
func (h *Handler) SecurityTxt(w http.ResponseWriter, r *http.Request) {
	contact := "mailto:security@example.com"
	if about, err := h.site.AboutInfo(r.Context()); err == nil && about.Email != "" {
		contact = "mailto:" + about.Email
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Contact: %s\nExpires: %s\nPreferred-Languages: en\n",
		contact, time.Now().AddDate(1, 0, 0).Format(time.RFC3339))
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// Feed serves /feed.xml, an RSS 2.0 feed of the newest published
// posts.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, _, err := h.content.ListPosts(r.Context(), content.ListOptions{
		PublicOnly: true,
		Page:       1,
		PerPage:    feedPostLimit,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("feed posts")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         h.siteName,
			Link:          h.absoluteURL("/"),
			Description:   h.siteName + " - stories and articles",
			Language:      "en",
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}

	for _, p := range posts {
		item := rssItem{
			Title:       p.Title,
			Link:        h.absoluteURL("/post/" + p.Slug),
			Description: excerptText(p),
			GUID:        h.absoluteURL("/post/" + p.Slug),
			PubDate:     p.PublishDate.Format(time.RFC1123Z),
		}
		if p.Category != nil {
			item.Category = p.Category.Name
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		h.logger.Error().Err(err).Msg("encode feed")
	}
}
