package engine

import "errors"

var (
	// ErrInvalidState reports an operation that is illegal in the session's
	// current phase.
	ErrInvalidState = errors.New("invalid session state")

	// ErrSessionNotActive reports a keystroke delivered while the session is
	// not Running. The session is left untouched.
	ErrSessionNotActive = errors.New("session not active")

	// ErrEmptyText reports a session started with a zero-length target.
	ErrEmptyText = errors.New("target text is empty")
)
