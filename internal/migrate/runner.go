/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package migrate

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Runner applies and reverts migration units against one database.
type Runner struct {
	db         *gorm.DB
	logger     zerolog.Logger
	migrations []Migration
}

// NewRunner creates a runner over the compiled registry.
func NewRunner(db *gorm.DB, logger zerolog.Logger) *Runner {
	return &Runner{
		db:         db,
		logger:     logger.With().Str("component", "migrate").Logger(),
		migrations: All(),
	}
}

// Status summarizes the ledger against the registry.
type Status struct {
	AppliedCount int
	PendingCount int
	Applied      []Record
	Pending      []Migration
}

// EnsureLedger creates the schema_migrations table when missing.
func (r *Runner) EnsureLedger() error {
	if r.db.Migrator().HasTable(&Record{}) {
		return nil
	}
	if err := r.db.Migrator().CreateTable(&Record{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (r *Runner) appliedVersions() (map[string]Record, error) {
	var records []Record
	if err := r.db.Order("version ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := make(map[string]Record, len(records))
	for _, rec := range records {
		applied[rec.Version] = rec
	}
	return applied, nil
}

// Up applies pending migrations in version order. With a non-empty
// target only versions up to and including it are applied. Each unit
// runs inside one transaction together with its ledger insert; the run
// stops at the first failure, leaving earlier units applied.
func (r *Runner) Up(target string) ([]string, error) {
	if err := r.EnsureLedger(); err != nil {
		return nil, err
	}
	applied, err := r.appliedVersions()
	if err != nil {
		return nil, err
	}

	var results []string
	for _, m := range r.migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if target != "" && m.Version > target {
			continue
		}

		m := m
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Apply(tx); err != nil {
				return err
			}
			rec := Record{Version: m.Version, Name: m.Name, AppliedAt: time.Now()}
			return tx.Create(&rec).Error
		})
		if err != nil {
			results = append(results, fmt.Sprintf("Failed to apply migration %s: %v", m.Version, err))
			r.logger.Error().Err(err).Str("version", m.Version).Msg("migration failed")
			return results, fmt.Errorf("apply migration %s: %w", m.Version, err)
		}

		results = append(results, fmt.Sprintf("Applied migration %s: %s", m.Version, m.Name))
		r.logger.Info().Str("version", m.Version).Str("name", m.Name).Msg("migration applied")
	}

	if len(results) == 0 {
		results = append(results, "No pending migrations.")
	}
	return results, nil
}

// Down reverts applied migrations with a version greater than target,
// newest first. Each unit's Revert runs in one transaction with its
// ledger delete.
func (r *Runner) Down(target string) ([]string, error) {
	if err := r.EnsureLedger(); err != nil {
		return nil, err
	}
	applied, err := r.appliedVersions()
	if err != nil {
		return nil, err
	}

	all := r.migrations
	var results []string
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if _, ok := applied[m.Version]; !ok {
			continue
		}
		if m.Version <= target {
			continue
		}

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Revert(tx); err != nil {
				return err
			}
			return tx.Where("version = ?", m.Version).Delete(&Record{}).Error
		})
		if err != nil {
			results = append(results, fmt.Sprintf("Failed to revert migration %s: %v", m.Version, err))
			r.logger.Error().Err(err).Str("version", m.Version).Msg("revert failed")
			return results, fmt.Errorf("revert migration %s: %w", m.Version, err)
		}

		results = append(results, fmt.Sprintf("Reverted migration %s: %s", m.Version, m.Name))
		r.logger.Info().Str("version", m.Version).Str("name", m.Name).Msg("migration reverted")
	}

	if len(results) == 0 {
		results = append(results, "No migrations to revert.")
	}
	return results, nil
}

// Status reports applied and pending migrations.
func (r *Runner) Status() (*Status, error) {
	if err := r.EnsureLedger(); err != nil {
		return nil, err
	}
	applied, err := r.appliedVersions()
	if err != nil {
		return nil, err
	}

	st := &Status{}
	for _, m := range r.migrations {
		if rec, ok := applied[m.Version]; ok {
			st.Applied = append(st.Applied, rec)
		} else {
			st.Pending = append(st.Pending, m)
		}
	}
	st.AppliedCount = len(st.Applied)
	st.PendingCount = len(st.Pending)
	return st, nil
}
