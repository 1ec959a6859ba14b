/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package activity records the admin action trail shown on the
// dashboard. Entries are written inline from the handlers; a write
// failure is logged and swallowed so it never fails the action itself.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

// Actions recorded by the admin handlers.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionPostCreate     = "post_create"
	ActionPostUpdate     = "post_update"
	ActionPostDelete     = "post_delete"
	ActionPostFeature    = "post_feature"
	ActionCategoryCreate = "category_create"
	ActionCategoryUpdate = "category_update"
	ActionCategoryDelete = "category_delete"
	ActionTagDelete      = "tag_delete"
	ActionTemplateSave   = "template_save"
	ActionTemplateDelete = "template_delete"
	ActionImageUpload    = "image_upload"
	ActionImageDelete    = "image_delete"
	ActionQuoteSave      = "quote_save"
	ActionQuoteDelete    = "quote_delete"
	ActionSocialSave     = "social_save"
	ActionAboutSave      = "about_save"
	ActionEmailSave      = "email_config_save"
	ActionMessageDelete  = "message_delete"
	ActionExport         = "export"
)

// DefaultRetention is how long entries are kept before Prune removes them.
const DefaultRetention = 30 * 24 * time.Hour

// Recorder writes and reads activity log entries.
type Recorder struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRecorder creates an activity recorder.
func NewRecorder(db *gorm.DB, logger zerolog.Logger) *Recorder {
	return &Recorder{
		db:     db,
		logger: logger.With().Str("component", "activity").Logger(),
	}
}

// Record stores one entry. Errors are logged, not returned, so a full
// activity table never blocks the admin action being recorded.
func (r *Recorder) Record(ctx context.Context, username, action, details, ip string) {
	entry := models.ActivityLog{
		AdminUsername: username,
		Action:        action,
		Details:       details,
		IPAddress:     ip,
		Timestamp:     time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.logger.Error().Err(err).
			Str("action", action).
			Str("username", username).
			Msg("failed to record activity")
		return
	}
	r.logger.Debug().
		Str("action", action).
		Str("username", username).
		Msg("activity recorded")
}

// Recent returns the newest entries, capped at limit.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

// ForUser returns the newest entries for one admin user.
func (r *Recorder) ForUser(ctx context.Context, username string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("admin_username = ?", username).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list activity for %s: %w", username, err)
	}
	return entries, nil
}

// Prune deletes entries older than the retention window and returns
// how many were removed.
func (r *Recorder) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := time.Now().Add(-retention)
	res := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.ActivityLog{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune activity: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.logger.Info().Int64("removed", res.RowsAffected).Msg("pruned activity log")
	}
	return res.RowsAffected, nil
}
