package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict means a conditional booking write lost the race:
	// the stored version no longer matches the one that was read.
	ErrVersionConflict = errors.New("booking version conflict")

	// ErrAlreadyDecided means an accept/reject hit a booking that already
	// left the pending state.
	ErrAlreadyDecided = errors.New("booking already decided")

	// ErrUnknownRoom means a booking references a room id the catalog no
	// longer resolves. Pricing treats this as a hard failure.
	ErrUnknownRoom = errors.New("unknown room")
)
