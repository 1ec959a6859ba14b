/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/config"
)

// Backup writes a point-in-time copy of a sqlite database into destDir
// and returns the backup path. Other backends have their own dump
// tooling and are rejected here.
func Backup(database *gorm.DB, cfg *config.Config, destDir string) (string, error) {
	if cfg.DBBackend != config.DatabaseSQLite {
		return "", fmt.Errorf("backup is only supported for the sqlite backend, use your %s dump tooling instead", cfg.DBBackend)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	dest := filepath.Join(destDir, fmt.Sprintf("storyhub_backup_%s.db", time.Now().Format("20060102_150405")))
	if err := database.Exec("VACUUM INTO ?", dest).Error; err != nil {
		return "", fmt.Errorf("vacuum into backup: %w", err)
	}
	return dest, nil
}

// TableInfo describes one table for the schema CLI output.
type TableInfo struct {
	Name    string
	Columns []string
}

// Schema lists every table with its columns and column types.
func Schema(database *gorm.DB) ([]TableInfo, error) {
	tables, err := database.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	infos := make([]TableInfo, 0, len(tables))
	for _, table := range tables {
		columnTypes, err := database.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("columns of %s: %w", table, err)
		}
		info := TableInfo{Name: table}
		for _, col := range columnTypes {
			info.Columns = append(info.Columns, fmt.Sprintf("%s %s", col.Name(), col.DatabaseTypeName()))
		}
		infos = append(infos, info)
	}
	return infos, nil
}
