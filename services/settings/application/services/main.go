package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/shoppinglist/pkg/app"
	"github.com/ghuser/shoppinglist/pkg/database"
	settingsdomain "github.com/ghuser/shoppinglist/services/settings/domain"
	"github.com/ghuser/shoppinglist/services/settings/domain/repositories"
	"github.com/ghuser/shoppinglist/services/settings/infrastructure/persistence/postgres"
	"github.com/ghuser/shoppinglist/services/settings/infrastructure/persistence/sqlite"
)

// Services is the application-layer service container for the settings context.
type Services struct {
	Store *SettingsStore
}

// New wires the settings store and loads it, creating the defaults on first launch.
// Defaults that could not be written are still served.
func New(ctx context.Context, a *app.Application) (*Services, error) {
	var mirror ImageMirror
	if a.Blob != nil {
		mirror = a.Blob
	}

	store := NewSettingsStore(newRepository(a), mirror, a.Logger.With("component", "settings_store"))
	if _, err := store.Load(ctx); err != nil {
		if !errors.Is(err, settingsdomain.ErrPersistence) {
			return nil, fmt.Errorf("settings services: %w", err)
		}
		a.Logger.Warn("settings loaded with persistence error", "error", err)
	}
	return &Services{Store: store}, nil
}

func newRepository(a *app.Application) repositories.SettingsRepository {
	if a.Db.Driver() == database.DriverSQLite {
		return sqlite.NewSettingsRepository(a.Db)
	}
	return postgres.NewSettingsRepository(a.Db)
}
