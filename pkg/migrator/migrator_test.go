package migrator_test

import (
	"context"
	"testing"

	"github.com/ghuser/shoppinglist/migrations"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/logger"
	"github.com/ghuser/shoppinglist/pkg/migrator"
)

func TestApply_SQLite(t *testing.T) {
	d, err := database.NewPool(context.Background(), database.DriverSQLite, ":memory:", logger.Discard())
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer d.Close() //nolint:errcheck

	if err := migrator.Apply(d, migrations.FS); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	for _, table := range []string{"items", "settings"} {
		var name string
		err := d.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("%s table not created: %v", table, err)
		}
	}

	// A second run has nothing pending and must succeed.
	if err := migrator.Apply(d, migrations.FS); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
}
