package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/uno/pkg/db/migrations"
)

type MigrateCmd struct {
	DB     string `help:"Path to SQLite database (defaults to SQLITE_PATH)"`
	Dir    string `help:"Directory containing migrations (defaults to the built-in set)"`
	Create string `help:"Write a new empty migration with this description into --dir instead of migrating"`
}

func (c *MigrateCmd) Run(g *Globals) error {
	if c.Create != "" {
		return createMigration(c.Dir, c.Create)
	}

	dbPath := c.DB
	if dbPath == "" {
		cfg, _, err := g.load("")
		if err != nil {
			return err
		}
		dbPath = cfg.SQLitePath
	}

	var source fs.FS = migrations.Embedded()
	if c.Dir != "" {
		source = os.DirFS(c.Dir)
	}
	return applyMigrations(dbPath, source)
}

func createMigration(dir, description string) error {
	if dir == "" {
		return fmt.Errorf("--dir is required with --create")
	}
	path, err := migrations.CreateMigration(dir, description, time.Now())
	if err != nil {
		return fmt.Errorf("error creating migration: %w", err)
	}

	fmt.Printf("Created migration file: %s\n", path)
	fmt.Println("Edit this file to add your database schema changes.")
	return nil
}

func applyMigrations(dbPath string, source fs.FS) error {
	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	applied, err := migrations.NewMigrator(db, source).MigrateUp()
	if err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	fmt.Printf("Applied %d migrations to %s\n", applied, dbPath)
	return nil
}
