// Package sqlite stores items in the on-device SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/database"
	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
	"github.com/ghuser/shoppinglist/services/item/domain/repositories"
)

const (
	selectItems = `SELECT id, name, quantity, bought, bought_at_ns, bought_seq, created_at_ns
		FROM items ORDER BY created_at_ns, id`
	insertItem = `INSERT INTO items (id, name, quantity, bought, bought_at_ns, bought_seq, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	updateItem = `UPDATE items SET name = ?, quantity = ?, bought = ?, bought_at_ns = ?, bought_seq = ?
		WHERE id = ?`
	deleteItem = `DELETE FROM items WHERE id = ?`
)

// ItemRepository implements repositories.ItemRepository on SQLite.
type ItemRepository struct {
	db *database.Database
}

// NewItemRepository returns an ItemRepository on d.
func NewItemRepository(d *database.Database) *ItemRepository {
	return &ItemRepository{db: d}
}

// FindAll returns every item in creation order.
func (r *ItemRepository) FindAll(ctx context.Context) ([]*models.Item, error) {
	rows, err := r.db.DB().QueryContext(ctx, selectItems)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		var (
			id                  string
			name                string
			it                  models.Item
			boughtAt, createdAt int64
		)
		if err := rows.Scan(&id, &name, &it.Quantity, &it.Bought, &boughtAt, &it.BoughtSeq, &createdAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if it.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse item id %q: %w", id, err)
		}
		it.Name = models.ItemName(name)
		it.BoughtAt = fromNanos(boughtAt)
		it.CreatedAt = fromNanos(createdAt)
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Save inserts a new item.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	if _, err := r.db.DB().ExecContext(ctx, insertItem,
		item.ID.String(), item.Name.String(), item.Quantity, item.Bought,
		toNanos(item.BoughtAt), item.BoughtSeq, toNanos(item.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	res, err := r.db.DB().ExecContext(ctx, updateItem,
		item.Name.String(), item.Quantity, item.Bought,
		toNanos(item.BoughtAt), item.BoughtSeq, item.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", itemdomain.ErrItemNotFound, item.ID)
	}
	return nil
}

// Delete removes item. Deleting a missing row is not an error.
func (r *ItemRepository) Delete(ctx context.Context, item *models.Item) error {
	if _, err := r.db.DB().ExecContext(ctx, deleteItem, item.ID.String()); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)
