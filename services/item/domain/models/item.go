package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemState is the position of an item in the list lifecycle.
type ItemState string

const (
	StateActive ItemState = "active"
	StateBought ItemState = "bought"
)

// DefaultQuantity is assigned to items created from typed input.
const DefaultQuantity = 1

// Item is the aggregate for one shopping list entry.
type Item struct {
	ID       uuid.UUID
	Name     ItemName
	Quantity int
	Bought   bool
	// BoughtSeq orders the bought list; larger is more recent. Zero when never bought.
	BoughtSeq int64
	BoughtAt  time.Time
	CreatedAt time.Time
}

// NewItem constructs an active Item with a generated ID.
func NewItem(name ItemName, quantity int, now time.Time) (*Item, error) {
	if name == "" {
		return nil, fmt.Errorf("item name must not be empty")
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Quantity:  quantity,
		CreatedAt: now.UTC(),
	}, nil
}

// State reports whether the item is active or bought.
func (i *Item) State() ItemState {
	if i.Bought {
		return StateBought
	}
	return StateActive
}

// Key is the case-folded identity used for duplicate detection.
func (i *Item) Key() string {
	return i.Name.Key()
}

// Clone returns a copy that shares nothing with i.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
