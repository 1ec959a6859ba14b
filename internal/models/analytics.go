/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"time"
)

// DateLayout is the canonical day key used by the analytics rollups.
// Dates are stored as strings so the same value round-trips identically
// across sqlite, postgres and mysql.
const DateLayout = "2006-01-02"

// PageView is one raw visit event. The rollup tables below are derived
// from these rows and can always be rebuilt from them.
type PageView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	PageTitle string    `gorm:"size:200" json:"page_title"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	IPAddress string    `gorm:"size:45;index:idx_page_views_ip_date,priority:1" json:"ip_address"`
	Referrer  string    `gorm:"size:500" json:"referrer"`
	PostID    *int64    `gorm:"index:idx_page_views_post_id" json:"post_id,omitempty"`
	ViewDate  string    `gorm:"type:varchar(10);index:idx_page_views_date;index:idx_page_views_ip_date,priority:2;not null" json:"view_date"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (PageView) TableName() string {
	return "page_views"
}

// DailyAnalytics is the per-day rollup of page views.
type DailyAnalytics struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date           string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	TotalViews     int64     `gorm:"default:0" json:"total_views"`
	UniqueVisitors int64     `gorm:"default:0" json:"unique_visitors"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (DailyAnalytics) TableName() string {
	return "daily_analytics"
}

// PostAnalytics is the per-post rollup of page views.
type PostAnalytics struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID      int64      `gorm:"uniqueIndex;not null" json:"post_id"`
	ViewsCount  int64      `gorm:"default:0" json:"views_count"`
	UniqueViews int64      `gorm:"default:0" json:"unique_views"`
	LastViewed  *time.Time `json:"last_viewed,omitempty"`
}

// TableName returns the table name for GORM.
func (PostAnalytics) TableName() string {
	return "post_analytics"
}
