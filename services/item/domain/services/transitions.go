// Package services contains stateless domain services for the item bounded context.
package services

import (
	"fmt"

	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	"github.com/ghuser/shoppinglist/services/item/domain/models"
)

// Action is a user intent that may move an item between states.
type Action string

const (
	ActionIncrement  Action = "increment"
	ActionDecrement  Action = "decrement"
	ActionMarkBought Action = "mark_bought"
	ActionReactivate Action = "reactivate"
)

// transitions maps each action to the states it may start from and the state
// it leads to. Decrementing the last unit is expressed as ActionMarkBought.
var transitions = map[Action]map[models.ItemState]models.ItemState{
	ActionIncrement: {
		models.StateActive: models.StateActive,
	},
	ActionDecrement: {
		models.StateActive: models.StateActive,
	},
	ActionMarkBought: {
		models.StateActive: models.StateBought,
		models.StateBought: models.StateBought,
	},
	ActionReactivate: {
		models.StateBought: models.StateActive,
		models.StateActive: models.StateActive,
	},
}

// CanTransition reports whether action is allowed from state from.
func CanTransition(action Action, from models.ItemState) bool {
	_, ok := transitions[action][from]
	return ok
}

// NextState returns the state action leads to from from, or ErrInvalidTransition.
func NextState(action Action, from models.ItemState) (models.ItemState, error) {
	to, ok := transitions[action][from]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s item", itemdomain.ErrInvalidTransition, action, from)
	}
	return to, nil
}

// ValidateQuantity rejects quantities below one.
func ValidateQuantity(q int) error {
	if q < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", itemdomain.ErrInvalidInput, q)
	}
	return nil
}
