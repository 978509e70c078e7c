package services

import (
	"context"
	"fmt"

	"github.com/ghuser/shoppinglist/pkg/app"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/services/item/domain/repositories"
	"github.com/ghuser/shoppinglist/services/item/infrastructure/persistence/postgres"
	"github.com/ghuser/shoppinglist/services/item/infrastructure/persistence/sqlite"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Store       *ItemStore
	Controller  *ListController
	BoughtLimit int
}

// New wires the item store on the configured repository, loads it and builds the
// controller on top.
func New(ctx context.Context, a *app.Application) (*Services, error) {
	store := NewItemStore(newRepository(a), a.Logger.With("component", "item_store"))
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("item services: %w", err)
	}

	boughtLimit, suggestionLimit := DefaultBoughtLimit, 0
	if a.Config != nil {
		boughtLimit = a.Config.BoughtListLimit
		suggestionLimit = a.Config.SuggestionLimit
	}

	return &Services{
		Store:       store,
		Controller:  NewListController(store, suggestionLimit, a.Logger),
		BoughtLimit: boughtLimit,
	}, nil
}

func newRepository(a *app.Application) repositories.ItemRepository {
	if a.Db.Driver() == database.DriverSQLite {
		return sqlite.NewItemRepository(a.Db)
	}
	return postgres.NewItemRepository(a.Db, a.EventBus)
}
