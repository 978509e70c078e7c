package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ghuser/shoppinglist/migrations"
	"github.com/ghuser/shoppinglist/pkg/config"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/logger"
	"github.com/ghuser/shoppinglist/pkg/migrator"
)

// migrate applies the embedded migrations for the configured store and exits.
// Use it when AUTO_MIGRATE is off.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	pool, err := database.Open(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to open store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer pool.Close() //nolint:errcheck

	if err := migrator.Apply(pool, migrations.FS); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("migrations applied", "driver", pool.Driver())
}
