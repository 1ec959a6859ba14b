/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/friendsincode/storyhub/internal/models"
)

// Sort orders accepted by AdvancedSearch.
const (
	SortDateDesc  = "date_desc"
	SortDateAsc   = "date_asc"
	SortTitle     = "title"
	SortRelevance = "relevance"
)

// SearchOptions filters an advanced search.
type SearchOptions struct {
	Query        string
	CategorySlug string
	TagSlug      string
	DateFrom     time.Time
	DateTo       time.Time
	SortBy       string // one of the Sort constants, default SortDateDesc
	Page         int
	PerPage      int
}

// Search runs a case-insensitive substring search over published posts.
func (s *Service) Search(ctx context.Context, query string, page, perPage int) ([]models.Post, *Pagination, error) {
	return s.AdvancedSearch(ctx, SearchOptions{Query: query, Page: page, PerPage: perPage})
}

// AdvancedSearch combines the text query with category, tag and date
// range filters.
func (s *Service) AdvancedSearch(ctx context.Context, opts SearchOptions) ([]models.Post, *Pagination, error) {
	q := publishedScope(s.db.WithContext(ctx).Model(&models.Post{}))

	if text := strings.TrimSpace(opts.Query); text != "" {
		needle := "%" + strings.ToLower(text) + "%"
		q = q.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.excerpt) LIKE ?",
			needle, needle, needle)
	}
	if opts.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", opts.CategorySlug)
	}
	if opts.TagSlug != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", opts.TagSlug)
	}
	if !opts.DateFrom.IsZero() {
		q = q.Where("posts.publish_date >= ?", opts.DateFrom)
	}
	if !opts.DateTo.IsZero() {
		q = q.Where("posts.publish_date <= ?", opts.DateTo)
	}

	var total int64
	if err := q.Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("count search: %w", err)
	}
	page := NewPagination(opts.Page, opts.PerPage, total)

	switch opts.SortBy {
	case SortDateAsc:
		q = q.Order("posts.publish_date ASC")
	case SortTitle:
		q = q.Order("posts.title ASC")
	case SortRelevance:
		// Title hits rank above body-only hits.
		if text := strings.TrimSpace(opts.Query); text != "" {
			needle := "%" + strings.ToLower(text) + "%"
			q = q.Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "CASE WHEN LOWER(posts.title) LIKE ? THEN 0 ELSE 1 END, posts.publish_date DESC",
				Vars:               []any{needle},
				WithoutParentheses: true,
			}})
		} else {
			q = q.Order("posts.publish_date DESC")
		}
	default:
		q = q.Order("posts.publish_date DESC")
	}

	var posts []models.Post
	err := q.Distinct().
		Preload("Category").Preload("Tags").
		Offset(page.Offset()).Limit(page.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, page, nil
}

// Suggestion is one typeahead entry for the search box.
type Suggestion struct {
	Kind  string `json:"kind"` // "post" or "tag"
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Suggestions returns up to five title matches and three tag matches
// for the search box typeahead.
func (s *Service) Suggestions(ctx context.Context, query string) ([]Suggestion, error) {
	text := strings.TrimSpace(query)
	if text == "" {
		return nil, nil
	}
	needle := "%" + strings.ToLower(text) + "%"

	var posts []models.Post
	err := publishedScope(s.db.WithContext(ctx).Model(&models.Post{})).
		Where("LOWER(posts.title) LIKE ?", needle).
		Order("posts.publish_date DESC").
		Limit(5).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("post suggestions: %w", err)
	}

	var tags []models.Tag
	err = s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", needle).
		Order("name ASC").
		Limit(3).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("tag suggestions: %w", err)
	}

	out := make([]Suggestion, 0, len(posts)+len(tags))
	for _, p := range posts {
		out = append(out, Suggestion{Kind: "post", Label: p.Title, URL: "/post/" + p.Slug})
	}
	for _, t := range tags {
		out = append(out, Suggestion{Kind: "tag", Label: t.Name, URL: "/tag/" + t.Slug})
	}
	return out, nil
}
