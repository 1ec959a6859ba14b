/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package content

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

// uniquePostSlug slugifies the title and appends -2, -3, ... until the
// slug is free among posts. excludeID skips the post being updated.
func (s *Service) uniquePostSlug(tx *gorm.DB, title string, excludeID int64) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		q := tx.Model(&models.Post{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id != ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// ParseTags splits a comma separated tag string, trims each entry and
// drops case-insensitive duplicates while preserving first-seen order.
func ParseTags(raw string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

// setPostTags replaces the post's tag set, creating missing tags.
func (s *Service) setPostTags(tx *gorm.DB, post *models.Post, names []string) error {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: name, Slug: slug.Make(name)}
			if err := tx.Create(&tag).Error; err != nil {
				return fmt.Errorf("create tag %q: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("find tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}
	post.Tags = tags
	return nil
}
