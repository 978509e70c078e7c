package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidInput indicates an empty name or a quantity below one.
	ErrInvalidInput = errors.New("invalid item input")

	// ErrInvalidTransition indicates the action is not allowed in the item's current state.
	ErrInvalidTransition = errors.New("invalid item state transition")

	// ErrPersistence indicates the in-memory change was applied but could not be stored.
	ErrPersistence = errors.New("item persistence failed")
)
