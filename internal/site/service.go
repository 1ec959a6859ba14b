/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package site manages the auxiliary site data behind the admin
// dashboard: quotes, social links, about info, email config, post
// templates and contact messages.
package site

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTemplateInUse is returned when deleting a template still
	// referenced by posts.
	ErrTemplateInUse = errors.New("template is used by posts")
)

// Service reads and writes the site settings tables.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a site settings service.
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "site").Logger(),
	}
}

// --- Quotes ---

// ActiveQuotes returns the active quotes in display order.
func (s *Service) ActiveQuotes(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("list active quotes: %w", err)
	}
	return quotes, nil
}

// RandomQuote picks one active quote for the public pages. Returns
// ErrNotFound when no quote is active.
func (s *Service) RandomQuote(ctx context.Context) (*models.Quote, error) {
	var quote models.Quote
	// RANDOM() works on sqlite and postgres; mysql spells it RAND().
	order := "RANDOM()"
	if s.db.Dialector.Name() == "mysql" {
		order = "RAND()"
	}
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(order).
		First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("random quote: %w", err)
	}
	return &quote, nil
}

// ListQuotes returns all quotes for the admin view.
func (s *Service) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// SaveQuote creates or updates a quote.
func (s *Service) SaveQuote(ctx context.Context, quote *models.Quote) error {
	if err := s.db.WithContext(ctx).Save(quote).Error; err != nil {
		return fmt.Errorf("save quote: %w", err)
	}
	return nil
}

// DeleteQuote removes a quote by id.
func (s *Service) DeleteQuote(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Quote{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete quote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Social links ---

// ActiveSocialLinks returns the links shown in the public footer.
func (s *Service) ActiveSocialLinks(ctx context.Context) ([]models.SocialLink, error) {
	var links []models.SocialLink
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list active social links: %w", err)
	}
	return links, nil
}

// ListSocialLinks returns all links for the admin view.
func (s *Service) ListSocialLinks(ctx context.Context) ([]models.SocialLink, error) {
	var links []models.SocialLink
	err := s.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	return links, nil
}

// SaveSocialLink creates or updates a social link.
func (s *Service) SaveSocialLink(ctx context.Context, link *models.SocialLink) error {
	if err := s.db.WithContext(ctx).Save(link).Error; err != nil {
		return fmt.Errorf("save social link: %w", err)
	}
	return nil
}

// DeleteSocialLink removes a link by id.
func (s *Service) DeleteSocialLink(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.SocialLink{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete social link: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- About info ---

// AboutInfo returns the single about row, or ErrNotFound before it is
// first saved.
func (s *Service) AboutInfo(ctx context.Context) (*models.AboutInfo, error) {
	var about models.AboutInfo
	err := s.db.WithContext(ctx).Order("id ASC").First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load about info: %w", err)
	}
	return &about, nil
}

// SaveAboutInfo writes the single about row, creating it on first save.
func (s *Service) SaveAboutInfo(ctx context.Context, about *models.AboutInfo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AboutInfo
		err := tx.Order("id ASC").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first save
		case err != nil:
			return fmt.Errorf("load about info: %w", err)
		default:
			about.ID = existing.ID
		}
		if err := tx.Save(about).Error; err != nil {
			return fmt.Errorf("save about info: %w", err)
		}
		return nil
	})
}

// --- Email config ---

// EmailConfig returns the single SMTP config row, or ErrNotFound when
// none is saved yet.
func (s *Service) EmailConfig(ctx context.Context) (*models.EmailConfig, error) {
	var cfg models.EmailConfig
	err := s.db.WithContext(ctx).Order("id ASC").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load email config: %w", err)
	}
	return &cfg, nil
}

// SaveEmailConfig writes the single SMTP config row.
func (s *Service) SaveEmailConfig(ctx context.Context, cfg *models.EmailConfig) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.EmailConfig
		err := tx.Order("id ASC").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("load email config: %w", err)
		default:
			cfg.ID = existing.ID
		}
		if err := tx.Save(cfg).Error; err != nil {
			return fmt.Errorf("save email config: %w", err)
		}
		return nil
	})
}

// --- Post templates ---

// ListTemplates returns all post templates.
func (s *Service) ListTemplates(ctx context.Context) ([]models.PostTemplate, error) {
	var templates []models.PostTemplate
	err := s.db.WithContext(ctx).Order("name ASC").Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// GetTemplate returns one template by id.
func (s *Service) GetTemplate(ctx context.Context, id int64) (*models.PostTemplate, error) {
	var tpl models.PostTemplate
	err := s.db.WithContext(ctx).First(&tpl, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return &tpl, nil
}

// SaveTemplate creates or updates a post template.
func (s *Service) SaveTemplate(ctx context.Context, tpl *models.PostTemplate) error {
	if err := s.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template unless posts still reference it.
func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("template_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count template posts: %w", err)
		}
		if count > 0 {
			return ErrTemplateInUse
		}
		res := tx.Delete(&models.PostTemplate{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete template: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Contact messages ---

// SaveContactMessage stores a message from the public contact form.
func (s *Service) SaveContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	s.logger.Info().Str("from", msg.Email).Msg("contact message received")
	return nil
}

// ListContactMessages returns all messages, newest first.
func (s *Service) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

// DeleteContactMessage removes a message by id.
func (s *Service) DeleteContactMessage(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete contact message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
