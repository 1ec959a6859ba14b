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

// analyticsTables adds the raw page_views event table, the daily and
// per-post rollups, and the query indexes on page_views.
var analyticsTables = Migration{
	Version: "002",
	Name:    "analytics_tables",
	Apply: func(tx *gorm.DB) error {
		tables := []any{
			&models.PageView{},
			&models.DailyAnalytics{},
			&models.PostAnalytics{},
		}
		for _, table := range tables {
			if tx.Migrator().HasTable(table) {
				continue
			}
			if err := tx.Migrator().CreateTable(table); err != nil {
				return fmt.Errorf("create table: %w", err)
			}
		}
		for _, idx := range pageViewIndexes {
			if tx.Migrator().HasIndex(&models.PageView{}, idx) {
				continue
			}
			if err := tx.Migrator().CreateIndex(&models.PageView{}, idx); err != nil {
				return fmt.Errorf("create index %s: %w", idx, err)
			}
		}
		return nil
	},
	Revert: func(tx *gorm.DB) error {
		for _, idx := range pageViewIndexes {
			if !tx.Migrator().HasIndex(&models.PageView{}, idx) {
				continue
			}
			if err := tx.Migrator().DropIndex(&models.PageView{}, idx); err != nil {
				return fmt.Errorf("drop index %s: %w", idx, err)
			}
		}
		tables := []any{
			&models.PostAnalytics{},
			&models.DailyAnalytics{},
			&models.PageView{},
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

var pageViewIndexes = []string{
	"idx_page_views_date",
	"idx_page_views_post_id",
	"idx_page_views_ip_date",
}
