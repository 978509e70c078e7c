package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/events"
	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	domainevents "github.com/ghuser/shoppinglist/services/item/domain/events"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

const (
	selectItems = `SELECT id, name, quantity, bought, bought_at, bought_seq, created_at
		FROM items ORDER BY created_at, id`
	insertItem = `INSERT INTO items (id, name, quantity, bought, bought_at, bought_seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateItem = `UPDATE items SET name = $2, quantity = $3, bought = $4, bought_at = $5, bought_seq = $6
		WHERE id = $1`
	deleteItem = `DELETE FROM items WHERE id = $1`
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// Every write publishes an ItemChangedEvent in the same transaction when a bus is set.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
	now func() time.Time
}

// NewItemRepository returns an ItemRepository backed by the given pool. bus may be nil.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus, now: time.Now}
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
			it       models.Item
			name     string
			boughtAt sql.NullTime
		)
		if err := rows.Scan(&it.ID, &name, &it.Quantity, &it.Bought, &boughtAt, &it.BoughtSeq, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Name = models.ItemName(name)
		it.CreatedAt = it.CreatedAt.UTC()
		if boughtAt.Valid {
			it.BoughtAt = boughtAt.Time.UTC()
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Save inserts a new item.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertItem,
			item.ID, item.Name.String(), item.Quantity, item.Bought,
			nullTime(item.BoughtAt), item.BoughtSeq, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		return r.publish(ctx, tx, domainevents.ChangeCreated, item)
	})
}

// Update overwrites the mutable fields of an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateItem,
			item.ID, item.Name.String(), item.Quantity, item.Bought,
			nullTime(item.BoughtAt), item.BoughtSeq,
		)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if err := expectOne(res, item.ID); err != nil {
			return err
		}
		return r.publish(ctx, tx, domainevents.ChangeUpdated, item)
	})
}

// Delete removes item. Deleting a missing row is not an error.
func (r *ItemRepository) Delete(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteItem, item.ID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return r.publish(ctx, tx, domainevents.ChangeDeleted, item)
	})
}

func (r *ItemRepository) publish(ctx context.Context, tx *sql.Tx, kind domainevents.ChangeKind, item *models.Item) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.NewItemChangedEvent(kind, item, r.now())
	msg, err := events.NewEventMessage(event.EventID, event.Version, event)
	if err != nil {
		return err
	}
	pub, err := r.bus.TxPublisher(tx)
	if err != nil {
		return err
	}
	if err := events.PublishWith(ctx, pub, kind.Topic(), msg); err != nil {
		return fmt.Errorf("publish item %s: %w", kind, err)
	}
	return nil
}

func expectOne(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", itemdomain.ErrItemNotFound, id)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
