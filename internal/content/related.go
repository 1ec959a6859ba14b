/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/friendsincode/storyhub/internal/models"
)

// Relevance weights for related post ranking.
const (
	sameCategoryScore = 10
	sharedTagScore    = 3
)

// RelatedPosts ranks published posts of the same type by relevance to
// the given post: sameCategoryScore for a category match plus
// sharedTagScore per shared tag. Zero-score posts are excluded and ties
// break on newest created_at.
func (s *Service) RelatedPosts(ctx context.Context, post *models.Post, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 3
	}

	// -1 never matches a real category id.
	categoryID := int64(-1)
	if post.CategoryID != nil {
		categoryID = *post.CategoryID
	}

	type rankedRow struct {
		ID    int64
		Score int
	}

	var rows []rankedRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT id, score FROM (
			SELECT p.id AS id,
			       p.created_at AS created_at,
			       (CASE WHEN p.category_id = ? THEN ? ELSE 0 END)
			       + ? * COALESCE(shared.cnt, 0) AS score
			FROM posts p
			LEFT JOIN (
				SELECT pt.post_id AS post_id, COUNT(*) AS cnt
				FROM post_tags pt
				WHERE pt.tag_id IN (SELECT tag_id FROM post_tags WHERE post_id = ?)
				GROUP BY pt.post_id
			) shared ON shared.post_id = p.id
			WHERE p.id != ?
			  AND p.post_type = ?
			  AND p.status = ?
			  AND p.publish_date <= ?
		) ranked
		WHERE score > 0
		ORDER BY score DESC, created_at DESC
		LIMIT ?`,
		categoryID, sameCategoryScore, sharedTagScore,
		post.ID, post.ID, post.PostType, models.StatusPublished, time.Now(), limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank related posts: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Preload("Category").Preload("Tags").
		Find(&posts, ids).Error; err != nil {
		return nil, fmt.Errorf("load related posts: %w", err)
	}

	// Restore ranking order lost by the IN query.
	byID := make(map[int64]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
