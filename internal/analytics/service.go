/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package analytics tracks page views and maintains the daily and
// per-post rollups. Rollups are recomputed from the raw page_views
// rows inside the tracking transaction, so they always equal what a
// full rebuild would produce.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
	"github.com/friendsincode/storyhub/internal/telemetry"
)

// Service records views and serves the dashboard analytics queries.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates an analytics service.
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
}

// View is one page view to record.
type View struct {
	URL       string
	PageTitle string
	UserAgent string
	IPAddress string
	Referrer  string
	PostID    *int64
	At        time.Time // zero means now
}

// TrackPageView stores the raw event and refreshes the affected
// rollup rows in the same transaction.
func (s *Service) TrackPageView(ctx context.Context, v View) error {
	at := v.At
	if at.IsZero() {
		at = time.Now()
	}
	date := at.Format(models.DateLayout)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pv := models.PageView{
			URL:       v.URL,
			PageTitle: v.PageTitle,
			UserAgent: v.UserAgent,
			IPAddress: v.IPAddress,
			Referrer:  v.Referrer,
			PostID:    v.PostID,
			ViewDate:  date,
			CreatedAt: at,
		}
		if err := tx.Create(&pv).Error; err != nil {
			return fmt.Errorf("insert page view: %w", err)
		}

		if err := refreshDailyRollup(tx, date); err != nil {
			return err
		}
		if v.PostID != nil {
			if err := refreshPostRollup(tx, *v.PostID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	telemetry.PageViewsTotal.Inc()
	return nil
}

// refreshDailyRollup recomputes one daily_analytics row from page_views.
func refreshDailyRollup(tx *gorm.DB, date string) error {
	var totals struct {
		Total       int64
		DistinctIPs int64 `gorm:"column:distinct_ips"`
	}
	err := tx.Model(&models.PageView{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT ip_address) AS distinct_ips").
		Where("view_date = ?", date).
		Scan(&totals).Error
	if err != nil {
		return fmt.Errorf("aggregate day %s: %w", date, err)
	}

	var row models.DailyAnalytics
	err = tx.Where("date = ?", date).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.DailyAnalytics{Date: date, TotalViews: totals.Total, UniqueVisitors: totals.DistinctIPs}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create daily rollup: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load daily rollup: %w", err)
	}

	row.TotalViews = totals.Total
	row.UniqueVisitors = totals.DistinctIPs
	if err := tx.Save(&row).Error; err != nil {
		return fmt.Errorf("save daily rollup: %w", err)
	}
	return nil
}

// refreshPostRollup recomputes one post_analytics row from page_views.
func refreshPostRollup(tx *gorm.DB, postID int64) error {
	var totals struct {
		Total       int64
		DistinctIPs int64 `gorm:"column:distinct_ips"`
		Last        *time.Time
	}
	err := tx.Model(&models.PageView{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT ip_address) AS distinct_ips, MAX(created_at) AS last").
		Where("post_id = ?", postID).
		Scan(&totals).Error
	if err != nil {
		return fmt.Errorf("aggregate post %d: %w", postID, err)
	}

	var row models.PostAnalytics
	err = tx.Where("post_id = ?", postID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.PostAnalytics{PostID: postID, ViewsCount: totals.Total, UniqueViews: totals.DistinctIPs, LastViewed: totals.Last}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create post rollup: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load post rollup: %w", err)
	}

	row.ViewsCount = totals.Total
	row.UniqueViews = totals.DistinctIPs
	row.LastViewed = totals.Last
	if err := tx.Save(&row).Error; err != nil {
		return fmt.Errorf("save post rollup: %w", err)
	}
	return nil
}

// RebuildRollups recomputes every rollup row from the raw events.
func (s *Service) RebuildRollups(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("date NOT IN (?)",
			tx.Model(&models.PageView{}).Distinct().Select("view_date")).
			Delete(&models.DailyAnalytics{}).Error
		if err != nil {
			return fmt.Errorf("drop stale daily rollups: %w", err)
		}
		err = tx.Where("post_id NOT IN (?)",
			tx.Model(&models.PageView{}).Where("post_id IS NOT NULL").Distinct().Select("post_id")).
			Delete(&models.PostAnalytics{}).Error
		if err != nil {
			return fmt.Errorf("drop stale post rollups: %w", err)
		}

		var dates []string
		if err := tx.Model(&models.PageView{}).Distinct().Pluck("view_date", &dates).Error; err != nil {
			return fmt.Errorf("list view dates: %w", err)
		}
		for _, date := range dates {
			if err := refreshDailyRollup(tx, date); err != nil {
				return err
			}
		}

		var postIDs []int64
		if err := tx.Model(&models.PageView{}).Where("post_id IS NOT NULL").
			Distinct().Pluck("post_id", &postIDs).Error; err != nil {
			return fmt.Errorf("list viewed posts: %w", err)
		}
		for _, id := range postIDs {
			if err := refreshPostRollup(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// DailySummary returns the rollups between from and to inclusive,
// oldest first.
func (s *Service) DailySummary(ctx context.Context, from, to string) ([]models.DailyAnalytics, error) {
	var rows []models.DailyAnalytics
	q := s.db.WithContext(ctx).Order("date ASC")
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	return rows, nil
}

// PostViews pairs a rollup with its post title for the dashboard.
type PostViews struct {
	models.PostAnalytics
	Title string
	Slug  string
}

// TopPosts returns the most viewed posts.
func (s *Service) TopPosts(ctx context.Context, limit int) ([]PostViews, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []PostViews
	err := s.db.WithContext(ctx).Model(&models.PostAnalytics{}).
		Select("post_analytics.*, posts.title AS title, posts.slug AS slug").
		Joins("JOIN posts ON posts.id = post_analytics.post_id").
		Order("post_analytics.views_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top posts: %w", err)
	}
	return rows, nil
}

// TotalViews returns the all-time page view count.
func (s *Service) TotalViews(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.PageView{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("total views: %w", err)
	}
	return total, nil
}

// RecentViews returns the newest raw events for the dashboard feed.
func (s *Service) RecentViews(ctx context.Context, limit int) ([]models.PageView, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.PageView
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent views: %w", err)
	}
	return rows, nil
}

// PruneViews deletes raw events older than cutoff and rebuilds the
// rollups so they stay consistent with what remains.
func (s *Service) PruneViews(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.PageView{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune views: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		if err := s.RebuildRollups(ctx); err != nil {
			return res.RowsAffected, err
		}
	}
	return res.RowsAffected, nil
}
