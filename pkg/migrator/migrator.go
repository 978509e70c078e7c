package migrator

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/ghuser/shoppinglist/pkg/database"
)

// Up applies all pending goose migrations found in dir of files to db.
// dialect is a goose dialect name ("postgres" or "sqlite3").
func Up(db *sql.DB, dialect string, files fs.FS, dir string) error {
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to up migrations: %w", err)
	}
	return nil
}

// Apply migrates d using the embedded migration set matching its driver.
func Apply(d *database.Database, files fs.FS) error {
	return Up(d.DB(), d.Dialect(), files, dirFor(d.Driver()))
}

func dirFor(driver string) string {
	if driver == database.DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}
