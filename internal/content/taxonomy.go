/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

// CategoryCount pairs a category with its published post count.
type CategoryCount struct {
	models.Category
	PostCount int64
}

// TagCount pairs a tag with its published post count.
type TagCount struct {
	models.Tag
	PostCount int64
}

// CreateCategory stores a new category with a slug from its name.
func (s *Service) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	cat := &models.Category{
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// UpdateCategory renames a category, regenerating its slug.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name, description string) (*models.Category, error) {
	var cat models.Category
	if err := s.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	cat.Name = name
	cat.Slug = slug.Make(name)
	cat.Description = description
	if err := s.db.WithContext(ctx).Save(&cat).Error; err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory removes a category. Its posts keep existing with no
// category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

// GetCategoryBySlug loads one category.
func (s *Service) GetCategoryBySlug(ctx context.Context, catSlug string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).Where("slug = ?", catSlug).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &cat, nil
}

// ListCategories returns every category with its published post count.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]CategoryCount, 0, len(cats))
	for _, cat := range cats {
		var count int64
		if err := publishedScope(s.db.WithContext(ctx).Model(&models.Post{})).
			Where("category_id = ?", cat.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count posts of %s: %w", cat.Slug, err)
		}
		out = append(out, CategoryCount{Category: cat, PostCount: count})
	}
	return out, nil
}

// ListTags returns every tag with its published post count, most used
// first.
func (s *Service) ListTags(ctx context.Context, limit int) ([]TagCount, error) {
	q := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.status = ? AND posts.publish_date <= CURRENT_TIMESTAMP", models.StatusPublished).
		Group("tags.id").
		Order("post_count DESC, tags.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var tags []TagCount
	if err := q.Scan(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetTagBySlug loads one tag.
func (s *Service) GetTagBySlug(ctx context.Context, tagSlug string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("slug = ?", tagSlug).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load tag: %w", err)
	}
	return &tag, nil
}

// DeleteTag removes a tag and its post links.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return fmt.Errorf("delete tag links: %w", err)
		}
		if err := tx.Delete(&models.Tag{}, id).Error; err != nil {
			return fmt.Errorf("delete tag: %w", err)
		}
		return nil
	})
}
