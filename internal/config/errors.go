package config

import "errors"

// Error kinds wrapped by Load. Callers distinguish a file/env read
// failure from a value that fails validation via errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid service config")
	ErrLoadConfig    = errors.New("config load failed")
)
