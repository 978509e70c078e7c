// Package database wraps *sql.DB for both supported stores: Postgres through the pgx
// stdlib driver and the on-device SQLite file through modernc.org/sqlite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/ghuser/shoppinglist/pkg/config"
	"github.com/ghuser/shoppinglist/pkg/logger"
)

// database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Database is a connection pool plus the driver it was opened with.
type Database struct {
	db     *sql.DB
	driver string
}

// Open connects using the store selected in cfg and verifies connectivity.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Database, error) {
	if cfg.UsesPostgres() {
		return NewPool(ctx, DriverPostgres, cfg.DatabaseURL, log)
	}
	return NewPool(ctx, DriverSQLite, cfg.SQLitePath, log)
}

// NewPool opens a pool for driver/dsn and pings it with a 5s deadline.
// SQLite pools are pinned to a single connection so ":memory:" databases and
// file locks behave like one session.
func NewPool(ctx context.Context, driver, dsn string, log logger.Logger) (*Database, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}

	switch driver {
	case DriverSQLite:
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		for _, pragma := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("database: %s: %w", pragma, err)
			}
		}
	}

	log.Debug("database pool opened", "driver", driver)
	return &Database{db: db, driver: driver}, nil
}

// DB returns the underlying pool for non-transactional queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Driver returns the database/sql driver name the pool was opened with.
func (d *Database) Driver() string {
	return d.driver
}

// Dialect returns the goose dialect matching the driver.
func (d *Database) Dialect() string {
	if d.driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("database: commit tx: %w", err)
	}
	return nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close closes the pool.
func (d *Database) Close() error {
	return d.db.Close()
}
