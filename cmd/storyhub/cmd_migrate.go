/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/storyhub/internal/db"
	"github.com/friendsincode/storyhub/internal/migrate"
)

var (
	migrateUpTarget   string
	migrateDownTarget string
	migrateNewDir     string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
	Long: `Apply, revert and inspect schema migrations.

Migration units are compiled into the binary; the schema_migrations
table records which versions have been applied.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migrations down to --to",
	RunE:  runMigrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE:  runMigrateStatus,
}

var migrateNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Generate a skeleton migration unit",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrateNew,
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrateUpTarget, "to", "", "Stop after this version (default: apply all)")
	migrateDownCmd.Flags().StringVar(&migrateDownTarget, "to", "", "Revert versions above this one (empty: revert all)")
	migrateNewCmd.Flags().StringVar(&migrateNewDir, "dir", "internal/migrate", "Directory for the generated unit file")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateNewCmd)
	rootCmd.AddCommand(migrateCmd)
}

func migrateRunner() (*migrate.Runner, func() error, error) {
	if err := loadConfig(); err != nil {
		return nil, nil, err
	}
	database, err := initDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return migrate.NewRunner(database, logger), func() error { return db.Close(database) }, nil
}

// printResults echoes per-unit outcome lines. Called before error
// handling so the lines for units that did commit, and the failure
// line itself, stay visible when a run stops partway.
func printResults(lines []string) {
	for _, line := range lines {
		fmt.Println(line)
	}
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	runner, closeDB, err := migrateRunner()
	if err != nil {
		return err
	}
	defer closeDB()

	applied, err := runner.Up(migrateUpTarget)
	printResults(applied)
	return err
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	runner, closeDB, err := migrateRunner()
	if err != nil {
		return err
	}
	defer closeDB()

	reverted, err := runner.Down(migrateDownTarget)
	printResults(reverted)
	return err
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	runner, closeDB, err := migrateRunner()
	if err != nil {
		return err
	}
	defer closeDB()

	st, err := runner.Status()
	if err != nil {
		return err
	}

	fmt.Printf("Applied: %d  Pending: %d\n", st.AppliedCount, st.PendingCount)
	for _, rec := range st.Applied {
		fmt.Printf("  [x] %s %s (applied %s)\n", rec.Version, rec.Name, rec.AppliedAt.Format("2006-01-02 15:04"))
	}
	for _, m := range st.Pending {
		fmt.Printf("  [ ] %s %s\n", m.Version, m.Name)
	}
	return nil
}

func runMigrateNew(cmd *cobra.Command, args []string) error {
	path, err := migrate.Generate(migrateNewDir, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	fmt.Println("Remember to append the new unit to the registry in internal/migrate/registry.go.")
	return nil
}
