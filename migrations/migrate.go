// Package migrations embeds the goose SQL migrations for both supported
// database backends. The schema is identical across backends; only the DDL
// dialect differs, so each driver gets its own migration directory.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

func Migrate(db *sql.DB, driver string) error {
	dir := "postgres"
	dialect := "pgx"
	if driver == "sqlite3" {
		dir = "sqlite"
		dialect = "sqlite3"
	}

	sub, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("migration error resolving %s dir: %w", dir, err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
