/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package content is the post, tag and category layer behind both the
// public site and the dashboard.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrCategoryInUse    = errors.New("category still has posts")
)

// Service handles content persistence and queries.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a content service.
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "content").Logger(),
	}
}

// PostInput carries the editable post fields from the dashboard forms.
type PostInput struct {
	Title           string
	Content         string
	Excerpt         string
	ImageFilename   string
	ImagePositionX  string
	ImagePositionY  string
	PostType        string
	CategoryID      *int64
	Status          string
	PublishDate     time.Time
	TemplateID      *int64
	MetaDescription string
	MetaKeywords    string
	CanonicalURL    string
	Tags            string // comma separated, parsed with ParseTags
}

// CreatePost stores a new post, generating a unique slug from the title.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	post := &models.Post{
		Title:           strings.TrimSpace(in.Title),
		Content:         in.Content,
		Excerpt:         in.Excerpt,
		ImageFilename:   in.ImageFilename,
		ImagePositionX:  defaultPosition(in.ImagePositionX),
		ImagePositionY:  defaultPosition(in.ImagePositionY),
		PostType:        defaultString(in.PostType, models.TypeArticle),
		CategoryID:      in.CategoryID,
		Status:          defaultString(in.Status, models.StatusPublished),
		PublishDate:     defaultTime(in.PublishDate),
		TemplateID:      in.TemplateID,
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
		CanonicalURL:    in.CanonicalURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := s.uniquePostSlug(tx, post.Title, 0)
		if err != nil {
			return err
		}
		post.Slug = slug

		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return s.setPostTags(tx, post, ParseTags(in.Tags))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("post_id", post.ID).Str("slug", post.Slug).Msg("post created")
	return post, nil
}

// UpdatePost applies the input to an existing post. The slug is
// regenerated only when the title changed.
func (s *Service) UpdatePost(ctx context.Context, id int64, in PostInput) (*models.Post, error) {
	var post models.Post

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}

		newTitle := strings.TrimSpace(in.Title)
		if newTitle != post.Title {
			slug, err := s.uniquePostSlug(tx, newTitle, post.ID)
			if err != nil {
				return err
			}
			post.Slug = slug
		}

		post.Title = newTitle
		post.Content = in.Content
		post.Excerpt = in.Excerpt
		post.ImageFilename = in.ImageFilename
		post.ImagePositionX = defaultPosition(in.ImagePositionX)
		post.ImagePositionY = defaultPosition(in.ImagePositionY)
		post.PostType = defaultString(in.PostType, models.TypeArticle)
		post.CategoryID = in.CategoryID
		post.Status = defaultString(in.Status, models.StatusPublished)
		post.PublishDate = defaultTime(in.PublishDate)
		post.TemplateID = in.TemplateID
		post.MetaDescription = in.MetaDescription
		post.MetaKeywords = in.MetaKeywords
		post.CanonicalURL = in.CanonicalURL

		if err := tx.Save(&post).Error; err != nil {
			return fmt.Errorf("save post: %w", err)
		}
		return s.setPostTags(tx, &post, ParseTags(in.Tags))
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and its tag links.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("delete post tags: %w", err)
		}
		return nil
	})
}

// GetPost loads a post with its category, template and tags.
func (s *Service) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Category").Preload("Template").Preload("Tags").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

// GetPublishedPostBySlug loads a post for the public site. Drafts and
// posts scheduled in the future are treated as missing.
func (s *Service) GetPublishedPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := publishedScope(s.db.WithContext(ctx)).
		Preload("Category").Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

// FeaturePost makes the given post the single featured one. Both
// updates run in one transaction so readers never see two featured
// posts.
func (s *Service) FeaturePost(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("featured = ?", true).
			Update("featured", false).Error; err != nil {
			return fmt.Errorf("clear featured: %w", err)
		}
		res := tx.Model(&models.Post{}).Where("id = ?", id).Update("featured", true)
		if res.Error != nil {
			return fmt.Errorf("set featured: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

// FeaturedPost returns the currently featured published post, or nil.
func (s *Service) FeaturedPost(ctx context.Context) (*models.Post, error) {
	var post models.Post
	err := publishedScope(s.db.WithContext(ctx)).
		Preload("Category").Preload("Tags").
		Where("featured = ?", true).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load featured post: %w", err)
	}
	return &post, nil
}

// ListOptions filters ListPosts.
type ListOptions struct {
	Status       string // empty means any
	PostType     string // empty means any
	CategorySlug string
	TagSlug      string
	PublicOnly   bool // published and due
	Page         int
	PerPage      int
}

// ListPosts returns a page of posts, newest publish date first.
func (s *Service) ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, *Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})

	if opts.PublicOnly {
		q = publishedScope(q)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	if opts.PostType != "" {
		q = q.Where("post_type = ?", opts.PostType)
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

	var total int64
	if err := q.Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("count posts: %w", err)
	}

	page := NewPagination(opts.Page, opts.PerPage, total)

	var posts []models.Post
	err := q.Distinct().
		Preload("Category").Preload("Tags").
		Order("posts.publish_date DESC").
		Offset(page.Offset()).Limit(page.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, page, nil
}

// publishedScope restricts a post query to publicly visible rows.
func publishedScope(q *gorm.DB) *gorm.DB {
	return q.Where("posts.status = ?", models.StatusPublished).
		Where("posts.publish_date <= ?", time.Now())
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func defaultPosition(v string) string {
	return defaultString(v, "center")
}

func defaultTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// EstimateReadingTime returns the minutes a typical reader needs for
// the content, never less than one.
func EstimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := words / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
