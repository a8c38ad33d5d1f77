package models

import "errors"

// Typed failures shared by both backends. Callers branch with errors.Is; only
// ErrConflict and (on write paths) ErrUnavailable are actionable for API
// clients, everything else degrades inside the service layer.
var (
	// ErrNotFound means neither backend has a record for the requested key.
	ErrNotFound = errors.New("article not found")

	// ErrConflict means a write violated the (channel_id, slug) uniqueness
	// invariant.
	ErrConflict = errors.New("article already exists")

	// ErrUnavailable means the backing store could not answer at all
	// (connectivity, timeout, malformed data). Read paths recover from it via
	// the markdown fallback; write paths surface it.
	ErrUnavailable = errors.New("article store unavailable")
)
