package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrAuthEventExists is returned when inserting an event whose ID is
	// already recorded.
	ErrAuthEventExists = errors.New("auth event already exists")
	// ErrAuthEventInvalid is returned when an event is missing required fields.
	ErrAuthEventInvalid = errors.New("auth event is invalid")
)
