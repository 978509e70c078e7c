package repositories

import (
	"context"

	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

// ItemRepository persists the item collection. The domain layer owns this
// interface; infrastructure implements it.
type ItemRepository interface {
	// FindAll returns every stored item in creation order.
	FindAll(ctx context.Context) ([]*models.Item, error)

	// Save inserts a new item.
	Save(ctx context.Context, item *models.Item) error

	// Update overwrites the mutable fields of an existing item.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes item. Deleting a missing item is not an error.
	Delete(ctx context.Context, item *models.Item) error
}
