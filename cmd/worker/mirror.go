package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/pkg/cache"
	"github.com/ghuser/shoppinglist/pkg/events"
	"github.com/ghuser/shoppinglist/pkg/logger"
	itemEvents "github.com/ghuser/shoppinglist/services/item/domain/events"
)

// itemMirror is the part of cache.ItemMirror the projection writes to.
type itemMirror interface {
	Put(ctx context.Context, item *cache.MirroredItem) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// mirrorHandler applies item change events to the mirror.
// Handlers must be idempotent: EventBus retries up to 3x on failure, and the
// mirror write is a full overwrite keyed by item id.
func mirrorHandler(mirror itemMirror, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// A payload that never decodes would be retried forever.
			log.ErrorContext(ctx, "dropping undecodable item event", "message_uuid", msg.UUID, "error", err)
			return nil
		}

		if evt.Kind == itemEvents.ChangeDeleted {
			if err := mirror.Remove(ctx, evt.ItemID); err != nil {
				return fmt.Errorf("mirror remove %s: %w", evt.ItemID, err)
			}
			log.DebugContext(ctx, "item removed from mirror", "item_id", evt.ItemID)
			return nil
		}

		if err := mirror.Put(ctx, mirroredItem(evt)); err != nil {
			return fmt.Errorf("mirror put %s: %w", evt.ItemID, err)
		}
		log.DebugContext(ctx, "item mirrored", "item_id", evt.ItemID, "kind", evt.Kind)
		return nil
	}
}

func mirroredItem(evt itemEvents.ItemChangedEvent) *cache.MirroredItem {
	item := &cache.MirroredItem{
		ID:        evt.ItemID,
		Name:      evt.Name,
		Quantity:  evt.Quantity,
		Bought:    evt.Bought,
		BoughtSeq: evt.BoughtSeq,
		CreatedAt: evt.CreatedAt,
	}
	if evt.BoughtAt != nil {
		item.BoughtAt = *evt.BoughtAt
	}
	return item
}
