package repository

import "errors"

// Sentinel kinds for output errors.
var (
	ErrWriteOutput = errors.New("write graph output")
	ErrOpenStore   = errors.New("open graph store")
)
