/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/friendsincode/storyhub/internal/db"
	"github.com/friendsincode/storyhub/internal/migrate"
	"github.com/friendsincode/storyhub/internal/seed"
)

var (
	backupDir  string
	resetForce bool
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database administration commands",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Apply all migrations and seed default content",
	RunE:  runDBInit,
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every table and reinitialize from scratch",
	Long: `Reset Story Hub to a fresh state.

All migrations are reverted (dropping every table), reapplied, and the
default content is seeded again.

WARNING: This action is irreversible! All data will be lost.`,
	RunE: runDBReset,
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a point-in-time copy of the sqlite database",
	RunE:  runDBBackup,
}

var dbSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print every table with its columns",
	RunE:  runDBSchema,
}

func init() {
	dbBackupCmd.Flags().StringVar(&backupDir, "dir", "./backups", "Directory to write the backup into")
	dbResetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")

	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbResetCmd)
	dbCmd.AddCommand(dbBackupCmd)
	dbCmd.AddCommand(dbSchemaCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBInit(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)

	applied, err := migrate.NewRunner(database, logger).Up("")
	printResults(applied)
	if err != nil {
		return err
	}

	if err := seed.Run(context.Background(), database, logger); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	fmt.Println("Database initialized.")
	return nil
}

func runDBReset(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	if !resetForce {
		fmt.Println("This will delete ALL data from Story Hub. This action cannot be undone.")
		fmt.Print("Type 'yes' to confirm reset: ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(strings.ToLower(response)) != "yes" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)

	runner := migrate.NewRunner(database, logger)
	reverted, err := runner.Down("")
	printResults(reverted)
	if err != nil {
		return err
	}

	applied, err := runner.Up("")
	printResults(applied)
	if err != nil {
		return err
	}

	if err := seed.Run(context.Background(), database, logger); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	fmt.Println("Database reset and reinitialized.")
	return nil
}

func runDBBackup(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)

	dest, err := db.Backup(database, cfg, backupDir)
	if err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", dest)
	return nil
}

func runDBSchema(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close(database)

	tables, err := db.Schema(database)
	if err != nil {
		return err
	}
	for _, table := range tables {
		fmt.Println(table.Name)
		for _, col := range table.Columns {
			fmt.Printf("  %s\n", col)
		}
	}
	return nil
}
