/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package seed installs the default rows a fresh database needs:
// an admin account, starter categories, post templates, placeholder
// social links and a quote collection. Every step is idempotent and
// only fires when its table is empty, so seeding an existing database
// is a no-op.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

// DefaultAdminUsername is the account created on first boot.
const DefaultAdminUsername = "admin"

// DefaultAdminPassword must be changed after first login.
const DefaultAdminPassword = "admin123"

var defaultCategories = []models.Category{
	{Name: "History", Slug: "history", Description: "Historical events and the periods that shaped them"},
	{Name: "Culture", Slug: "culture", Description: "Traditions, customs and cultural practices"},
	{Name: "Art", Slug: "art", Description: "Traditional and modern arts and crafts"},
	{Name: "Religion", Slug: "religion", Description: "Faiths, beliefs and spiritual practices"},
	{Name: "Politics", Slug: "politics", Description: "Government, politics and political history"},
	{Name: "Society", Slug: "society", Description: "Social structures and daily life"},
}

var defaultTemplates = []models.PostTemplate{
	{
		Name:        "Basic Article",
		Description: "Standard article template with introduction, body, and conclusion",
		ContentTemplate: "<h2>Introduction</h2>\n<p>[Write your introduction here]</p>\n\n" +
			"<h2>Main Content</h2>\n<p>[Write your main content here]</p>\n\n" +
			"<h2>Conclusion</h2>\n<p>[Write your conclusion here]</p>",
	},
	{
		Name:        "Historical Timeline",
		Description: "Template for historical events with timeline structure",
		ContentTemplate: "<h2>Historical Context</h2>\n<p>[Provide background information]</p>\n\n" +
			"<h2>Timeline of Events</h2>\n<ul>\n<li><strong>[Date]:</strong> [Event description]</li>\n" +
			"<li><strong>[Date]:</strong> [Event description]</li>\n</ul>\n\n" +
			"<h2>Significance</h2>\n<p>[Explain the historical significance]</p>",
	},
	{
		Name:        "Cultural Deep Dive",
		Description: "Template for exploring cultural topics",
		ContentTemplate: "<h2>Cultural Overview</h2>\n<p>[Introduction to the cultural topic]</p>\n\n" +
			"<h2>Historical Origins</h2>\n<p>[Explain the historical background]</p>\n\n" +
			"<h2>Modern Practice</h2>\n<p>[Describe how it's practiced today]</p>\n\n" +
			"<h2>Cultural Impact</h2>\n<p>[Discuss its significance today]</p>",
	},
	{
		Name:        "Biography",
		Description: "Template for writing about historical figures",
		ContentTemplate: "<h2>Early Life</h2>\n<p>[Describe their early life and background]</p>\n\n" +
			"<h2>Rise to Prominence</h2>\n<p>[Explain how they became important]</p>\n\n" +
			"<h2>Major Achievements</h2>\n<p>[List and describe their key accomplishments]</p>\n\n" +
			"<h2>Legacy</h2>\n<p>[Discuss their lasting impact]</p>",
	},
}

// Placeholder links start inactive so nothing renders until real URLs
// are filled in.
var defaultSocialLinks = []models.SocialLink{
	{Name: "Twitter", URL: "#", IconClass: "fab fa-twitter", DisplayOrder: 1},
	{Name: "Facebook", URL: "#", IconClass: "fab fa-facebook", DisplayOrder: 2},
	{Name: "Instagram", URL: "#", IconClass: "fab fa-instagram", DisplayOrder: 3},
	{Name: "YouTube", URL: "#", IconClass: "fab fa-youtube", DisplayOrder: 4},
}

var defaultQuotes = []models.Quote{
	{Text: "A journey of a thousand miles begins with a single step.", Author: "Lao Tzu", Source: "Tao Te Ching"},
	{Text: "Fall seven times, stand up eight.", Author: "Japanese Proverb", Source: "Traditional wisdom"},
	{Text: "The cherry blossoms fall, but the tree remains.", Author: "Japanese Saying", Source: "Buddhist philosophy"},
	{Text: "Even monkeys fall from trees.", Author: "Japanese Proverb", Source: "Traditional wisdom"},
	{Text: "To know and to act are one and the same.", Author: "Wang Yangming", Source: "Confucian philosophy"},
	{Text: "Be like water making its way through cracks.", Author: "Bruce Lee", Source: "Martial arts philosophy"},
	{Text: "History is not just what happened, but what we choose to remember and how we choose to tell it.", Author: "Historical Reflection", Source: "Modern thought"},
}

// Run installs any missing defaults. Safe to call on every boot.
func Run(ctx context.Context, db *gorm.DB, logger zerolog.Logger) error {
	log := logger.With().Str("component", "seed").Logger()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedAdminUser(tx, log); err != nil {
			return err
		}
		if err := seedWhenEmpty(tx, log, &models.Category{}, "categories", func(tx *gorm.DB) error {
			cats := make([]models.Category, len(defaultCategories))
			copy(cats, defaultCategories)
			return tx.Create(&cats).Error
		}); err != nil {
			return err
		}
		if err := seedWhenEmpty(tx, log, &models.PostTemplate{}, "post templates", func(tx *gorm.DB) error {
			tpls := make([]models.PostTemplate, len(defaultTemplates))
			copy(tpls, defaultTemplates)
			return tx.Create(&tpls).Error
		}); err != nil {
			return err
		}
		if err := seedWhenEmpty(tx, log, &models.SocialLink{}, "social links", func(tx *gorm.DB) error {
			links := make([]models.SocialLink, len(defaultSocialLinks))
			copy(links, defaultSocialLinks)
			for i := range links {
				links[i].IsActive = false
			}
			return tx.Create(&links).Error
		}); err != nil {
			return err
		}
		return seedWhenEmpty(tx, log, &models.Quote{}, "quotes", func(tx *gorm.DB) error {
			quotes := make([]models.Quote, len(defaultQuotes))
			copy(quotes, defaultQuotes)
			for i := range quotes {
				quotes[i].IsActive = true
				quotes[i].Language = "en"
				quotes[i].DisplayOrder = i + 1
			}
			return tx.Create(&quotes).Error
		})
	})
}

func seedAdminUser(tx *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := tx.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}
	user := models.AdminUser{Username: DefaultAdminUsername, PasswordHash: string(hash)}
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Warn().
		Str("username", DefaultAdminUsername).
		Msg("created default admin account, change the password after first login")
	return nil
}

func seedWhenEmpty(tx *gorm.DB, log zerolog.Logger, model any, what string, create func(tx *gorm.DB) error) error {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return fmt.Errorf("count %s: %w", what, err)
	}
	if count > 0 {
		return nil
	}
	if err := create(tx); err != nil {
		return fmt.Errorf("seed %s: %w", what, err)
	}
	log.Info().Str("table", what).Msg("seeded defaults")
	return nil
}
