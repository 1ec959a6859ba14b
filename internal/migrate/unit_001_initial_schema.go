/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package migrate

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

// initialSchema creates every content table. Table existence is checked
// before each create so a half-applied unit can be retried.
var initialSchema = Migration{
	Version: "001",
	Name:    "initial_schema",
	Apply: func(tx *gorm.DB) error {
		tables := []any{
			&models.Category{},
			&models.Tag{},
			&models.AdminUser{},
			&models.PostTemplate{},
			&models.Post{},
			&models.PostTag{},
			&models.GalleryImage{},
			&models.Quote{},
			&models.EmailConfig{},
			&models.ContactMessage{},
			&models.SocialLink{},
			&models.AboutInfo{},
			&models.ActivityLog{},
		}
		for _, table := range tables {
			if tx.Migrator().HasTable(table) {
				continue
			}
			if err := tx.Migrator().CreateTable(table); err != nil {
				return fmt.Errorf("create table: %w", err)
			}
		}
		return nil
	},
	Revert: func(tx *gorm.DB) error {
		// Reverse dependency order: join table and posts before the
		// tables they reference.
		tables := []any{
			&models.PostTag{},
			&models.Post{},
			&models.Tag{},
			&models.Category{},
			&models.PostTemplate{},
			&models.AdminUser{},
			&models.GalleryImage{},
			&models.Quote{},
			&models.EmailConfig{},
			&models.ContactMessage{},
			&models.SocialLink{},
			&models.AboutInfo{},
			&models.ActivityLog{},
		}
		for _, table := range tables {
			if !tx.Migrator().HasTable(table) {
				continue
			}
			if err := tx.Migrator().DropTable(table); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
		return nil
	},
}
