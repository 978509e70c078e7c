package domain

import "errors"

// Sentinel errors for the settings domain. Use errors.Is() to check these.
var (
	// ErrSettingsNotFound indicates no settings record has been stored yet.
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrInvalidInput indicates an unknown theme, a malformed color or an opacity outside [0,1].
	ErrInvalidInput = errors.New("invalid settings input")

	// ErrPersistence indicates the in-memory change was applied but could not be stored.
	ErrPersistence = errors.New("settings persistence failed")
)
