// Command generate_schema applies every migration to an in-memory database
// and writes the resulting schema to internal/database/sqlc/schema.sql,
// which sqlc and the tests consume. With -check it only reports whether
// the file is out of date.
package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlite/internal/database"
	"gitlite/internal/database/migrations"
)

const header = `-- Generated from internal/database/migrations/files/*.sql.
-- Do not edit; run 'go generate ./internal/database' instead.

`

func main() {
	out := flag.String("out", filepath.Join("internal", "database", "sqlc", "schema.sql"), "schema file to write")
	check := flag.Bool("check", false, "exit non-zero when the schema file is stale instead of writing it")
	flag.Parse()

	if err := run(*out, *check); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
}

func run(out string, check bool) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	schema, err := dumpSchema(db)
	if err != nil {
		return err
	}

	if check {
		current, err := os.ReadFile(out)
		if err != nil {
			return fmt.Errorf("reading %s: %w", out, err)
		}
		if !bytes.Equal(current, []byte(schema)) {
			return fmt.Errorf("%s is stale", out)
		}
		fmt.Printf("%s is up to date\n", out)
		return nil
	}

	if err := os.WriteFile(out, []byte(schema), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

// dumpSchema returns the CREATE statements of every user table, index and
// trigger, tables first. The migration bookkeeping table is skipped.
func dumpSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT sql FROM sqlite_master
		WHERE sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 0 WHEN 'index' THEN 1 ELSE 2 END, name`)
	if err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	b.WriteString(header)
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning statement: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
