package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY
)`

// MigrateUp applies every embedded migration not yet recorded in
// schema_migrations, oldest first. Each one runs in its own transaction.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(createVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := appliedSet(db)
	if err != nil {
		return err
	}
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	for _, version := range versions {
		if applied[version] {
			continue
		}
		if err := runMigration(db, version, ".up.sql", `INSERT INTO schema_migrations (version) VALUES (?)`); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	if _, err := db.Exec(createVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := AppliedMigrations(db)
	if err != nil {
		return err
	}
	slices.Reverse(applied)
	for _, version := range applied {
		if err := runMigration(db, version, ".down.sql", `DELETE FROM schema_migrations WHERE version = ?`); err != nil {
			return err
		}
	}
	return nil
}

// AppliedMigrations lists recorded versions in ascending order.
func AppliedMigrations(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func appliedSet(db *sql.DB) (map[string]bool, error) {
	versions, err := AppliedMigrations(db)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}
	return set, nil
}

func migrationVersions() ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, name := range entries {
		out = append(out, strings.TrimSuffix(path.Base(name), ".up.sql"))
	}
	slices.Sort(out)
	return out, nil
}

func runMigration(db *sql.DB, version, suffix, record string) error {
	name := "migrations/" + version + suffix
	body, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := tx.Exec(record, version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	return tx.Commit()
}
