package migrate

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/models"
)

func openMigrateTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func TestUpAppliesAllInOrder(t *testing.T) {
	db := openMigrateTestDB(t)
	r := NewRunner(db, zerolog.Nop())

	results, err := r.Up("")
	if err != nil {
		t.Fatalf("up failed: %v", err)
	}

	want := []string{
		"Applied migration 001: initial_schema",
		"Applied migration 002: analytics_tables",
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d: %v", len(want), len(results), results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("result %d: got %q want %q", i, results[i], want[i])
		}
	}

	for _, table := range []any{&models.Post{}, &models.PostTag{}, &models.PageView{}, &models.PostAnalytics{}} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table for %T to exist", table)
		}
	}
	for _, idx := range pageViewIndexes {
		if !db.Migrator().HasIndex(&models.PageView{}, idx) {
			t.Errorf("expected index %s to exist", idx)
		}
	}

	var records []Record
	if err := db.Order("version ASC").Find(&records).Error; err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(records) != 2 || records[0].Version != "001" || records[1].Version != "002" {
		t.Fatalf("unexpected ledger contents: %+v", records)
	}
}

func TestUpIsIdempotent(t *testing.T) {
	db := openMigrateTestDB(t)
	r := NewRunner(db, zerolog.Nop())

	if _, err := r.Up(""); err != nil {
		t.Fatalf("first up failed: %v", err)
	}
	results, err := r.Up("")
	if err != nil {
		t.Fatalf("second up failed: %v", err)
	}
	if len(results) != 1 || results[0] != "No pending migrations." {
		t.Fatalf("expected no-pending signal, got %v", results)
	}
}

func TestUpToTarget(t *testing.T) {
	db := openMigrateTestDB(t)
	r := NewRunner(db, zerolog.Nop())

	results, err := r.Up("001")
	if err != nil {
		t.Fatalf("up to 001 failed: %v", err)
	}
	if len(results) != 1 || results[0] != "Applied migration 001: initial_schema" {
		t.Fatalf("unexpected results: %v", results)
	}
	if db.Migrator().HasTable(&models.PageView{}) {
		t.Fatal("page_views should not exist before 002")
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if st.AppliedCount != 1 || st.PendingCount != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Pending[0].Version != "002" {
		t.Fatalf("expected 002 pending, got %s", st.Pending[0].Version)
	}
}

func TestDownRevertsNewestFirst(t *testing.T) {
	db := openMigrateTestDB(t)
	r := NewRunner(db, zerolog.Nop())

	if _, err := r.Up(""); err != nil {
		t.Fatalf("up failed: %v", err)
	}

	results, err := r.Down("001")
	if err != nil {
		t.Fatalf("down to 001 failed: %v", err)
	}
	if len(results) != 1 || results[0] != "Reverted migration 002: analytics_tables" {
		t.Fatalf("unexpected results: %v", results)
	}
	if db.Migrator().HasTable(&models.PageView{}) {
		t.Fatal("page_views should be dropped")
	}
	if !db.Migrator().HasTable(&models.Post{}) {
		t.Fatal("posts should survive a down to 001")
	}

	var count int64
	if err := db.Model(&Record{}).Count(&count).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 ledger row, got %d", count)
	}

	results, err = r.Down("")
	if err != nil {
		t.Fatalf("down all failed: %v", err)
	}
	if len(results) != 1 || results[0] != "Reverted migration 001: initial_schema" {
		t.Fatalf("unexpected results: %v", results)
	}
	if db.Migrator().HasTable(&models.Post{}) {
		t.Fatal("posts should be dropped after full down")
	}
}

func TestDownWithNothingApplied(t *testing.T) {
	db := openMigrateTestDB(t)
	r := NewRunner(db, zerolog.Nop())

	results, err := r.Down("")
	if err != nil {
		t.Fatalf("down failed: %v", err)
	}
	if len(results) != 1 || results[0] != "No migrations to revert." {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestUpStopsAtFirstFailure(t *testing.T) {
	db := openMigrateTestDB(t)

	type canary struct {
		ID int64 `gorm:"primaryKey"`
	}
	boom := errors.New("boom")

	r := &Runner{
		db:     db,
		logger: zerolog.Nop(),
		migrations: []Migration{
			{
				Version: "001",
				Name:    "ok_unit",
				Apply:   func(tx *gorm.DB) error { return nil },
				Revert:  func(tx *gorm.DB) error { return nil },
			},
			{
				Version: "002",
				Name:    "failing_unit",
				Apply: func(tx *gorm.DB) error {
					if err := tx.Migrator().CreateTable(&canary{}); err != nil {
						return err
					}
					return boom
				},
				Revert: func(tx *gorm.DB) error { return nil },
			},
			{
				Version: "003",
				Name:    "never_reached",
				Apply: func(tx *gorm.DB) error {
					t.Fatal("unit after a failure must not run")
					return nil
				},
				Revert: func(tx *gorm.DB) error { return nil },
			},
		},
	}

	results, err := r.Up("")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 result lines, got %v", results)
	}
	if results[0] != "Applied migration 001: ok_unit" {
		t.Errorf("unexpected first result: %q", results[0])
	}
	if results[1] != "Failed to apply migration 002: boom" {
		t.Errorf("unexpected failure result: %q", results[1])
	}

	// The failing unit's work is rolled back with its ledger row.
	if db.Migrator().HasTable(&canary{}) {
		t.Error("failing unit's table should have been rolled back")
	}
	var versions []string
	if err := db.Model(&Record{}).Pluck("version", &versions).Error; err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(versions) != 1 || versions[0] != "001" {
		t.Fatalf("expected only 001 in ledger, got %v", versions)
	}
}

func TestDownStopsAtFirstFailure(t *testing.T) {
	db := openMigrateTestDB(t)
	boom := errors.New("boom")

	r := &Runner{
		db:     db,
		logger: zerolog.Nop(),
		migrations: []Migration{
			{
				Version: "001",
				Name:    "never_reached",
				Apply:   func(tx *gorm.DB) error { return nil },
				Revert: func(tx *gorm.DB) error {
					t.Fatal("unit below a failure must not revert")
					return nil
				},
			},
			{
				Version: "002",
				Name:    "failing_unit",
				Apply:   func(tx *gorm.DB) error { return nil },
				Revert:  func(tx *gorm.DB) error { return boom },
			},
			{
				Version: "003",
				Name:    "ok_unit",
				Apply:   func(tx *gorm.DB) error { return nil },
				Revert:  func(tx *gorm.DB) error { return nil },
			},
		},
	}

	if _, err := r.Up(""); err != nil {
		t.Fatalf("up failed: %v", err)
	}

	results, err := r.Down("")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 result lines, got %v", results)
	}
	if results[0] != "Reverted migration 003: ok_unit" {
		t.Errorf("unexpected first result: %q", results[0])
	}
	if results[1] != "Failed to revert migration 002: boom" {
		t.Errorf("unexpected failure result: %q", results[1])
	}

	// 001 and 002 stay in the ledger; only 003 is gone.
	var versions []string
	if err := db.Model(&Record{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(versions) != 2 || versions[0] != "001" || versions[1] != "002" {
		t.Fatalf("expected 001 and 002 in ledger, got %v", versions)
	}
}
