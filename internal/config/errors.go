package config

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Load and Validate.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	// ErrInvalidSource wraps ErrInvalidConfig for problems in the sources list.
	ErrInvalidSource = fmt.Errorf("%w: bad source", ErrInvalidConfig)
)
