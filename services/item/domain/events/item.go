package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

// Watermill topics carrying ItemChangedEvent.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// ItemChangedEventVersion is the payload schema version.
const ItemChangedEventVersion = 1

// ChangeKind classifies a mutation of the item collection.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Topic returns the bus topic for k.
func (k ChangeKind) Topic() string {
	switch k {
	case ChangeCreated:
		return TopicItemCreated
	case ChangeDeleted:
		return TopicItemDeleted
	default:
		return TopicItemUpdated
	}
}

// Topics lists every item topic, for subscribers.
func Topics() []string {
	return []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}
}

// ItemChangedEvent is published in the same transaction as the row change.
// Deleted events carry the last known state of the item.
type ItemChangedEvent struct {
	EventID    uuid.UUID  `json:"event_id"`
	Version    int        `json:"version"`
	Kind       ChangeKind `json:"kind"`
	ItemID     uuid.UUID  `json:"item_id"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	Bought     bool       `json:"bought"`
	BoughtSeq  int64      `json:"bought_seq"`
	BoughtAt   *time.Time `json:"bought_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewItemChangedEvent snapshots item for kind.
func NewItemChangedEvent(kind ChangeKind, item *models.Item, now time.Time) ItemChangedEvent {
	ev := ItemChangedEvent{
		EventID:    uuid.New(),
		Version:    ItemChangedEventVersion,
		Kind:       kind,
		ItemID:     item.ID,
		Name:       item.Name.String(),
		Quantity:   item.Quantity,
		Bought:     item.Bought,
		BoughtSeq:  item.BoughtSeq,
		CreatedAt:  item.CreatedAt,
		OccurredAt: now.UTC(),
	}
	if !item.BoughtAt.IsZero() {
		at := item.BoughtAt
		ev.BoughtAt = &at
	}
	return ev
}
