package service

import "errors"

// Service-level sentinel errors.
var (
	// ErrInvalidJob marks a prediction job missing required fields.
	ErrInvalidJob = errors.New("invalid prediction job")

	// ErrUnknownBreed marks a breed id or name absent from the catalog.
	ErrUnknownBreed = errors.New("unknown breed")

	// ErrNotStarted marks calls into a service that was never started.
	ErrNotStarted = errors.New("service not started")
)
