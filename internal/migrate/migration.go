/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package migrate is the versioned schema migration engine. Migration
// units are compiled into the binary and listed in a static registry;
// nothing is discovered at runtime. A ledger table records which
// versions have been applied.
package migrate

import (
	"time"

	"gorm.io/gorm"
)

// Migration is one schema change unit. Versions are zero-padded
// three-digit strings, so lexical order is chronological order. That
// assumption holds through version 999; the generator enforces the
// padding.
type Migration struct {
	Version string
	Name    string
	Apply   func(tx *gorm.DB) error
	Revert  func(tx *gorm.DB) error
}

// Record is one ledger row in schema_migrations. A version appears at
// most once; reverting a migration deletes its row.
type Record struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Version   string `gorm:"size:10;uniqueIndex;not null"`
	Name      string `gorm:"size:100"`
	AppliedAt time.Time
}

// TableName returns the table name for GORM.
func (Record) TableName() string {
	return "schema_migrations"
}

// HasTable reports whether the table behind model exists.
func HasTable(db *gorm.DB, model any) bool {
	return db.Migrator().HasTable(model)
}

// HasColumn reports whether the model's table has the named column.
func HasColumn(db *gorm.DB, model any, column string) bool {
	return db.Migrator().HasColumn(model, column)
}

// HasIndex reports whether the model's table has the named index.
func HasIndex(db *gorm.DB, model any, name string) bool {
	return db.Migrator().HasIndex(model, name)
}
