package taxonomy

import "errors"

var (
	// ErrLoadTaxonomy is returned when the taxonomy file cannot be read or decoded.
	ErrLoadTaxonomy = errors.New("load taxonomy")
	// ErrInvalidTaxonomy is returned when the taxonomy fails validation.
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")
)
