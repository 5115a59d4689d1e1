// Package apperr defines the sentinel errors shared across layers. Handlers
// map them to status codes; everything else just wraps and re-returns.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
