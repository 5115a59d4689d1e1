package ai

import "errors"

var (
	// ErrNotConfigured means no provider credential is available. This is a
	// normal operating mode, not a startup failure: the store and keyword
	// search stay fully functional with zero enrichment.
	ErrNotConfigured = errors.New("ai: provider not configured")

	// ErrEmptyInput means the text to derive from was empty or whitespace.
	ErrEmptyInput = errors.New("ai: empty input")

	// ErrProvider wraps remote failures, including timeouts and transient
	// network errors. Callers must treat it as non-fatal to the surrounding
	// operation.
	ErrProvider = errors.New("ai: provider error")
)
