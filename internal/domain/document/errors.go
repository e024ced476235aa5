package document

import "errors"

// Sentinel kinds for document errors.
var (
	ErrReadSource = errors.New("read source document failed")
)
