package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("animal not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
	ErrEmptyID      = errors.New("empty animal id")
)
