package domain

import "errors"

// Error kinds for the workflow engine. Every error returned by a service or
// repository wraps exactly one of these; layers add context (task id,
// attempted transition, missing flag) with %w and never change the kind.
var (
	// ErrValidation covers malformed or missing input, not lifecycle violations.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers unknown task, event, user, resource or assignment ids.
	ErrNotFound = errors.New("not found")

	// ErrForbidden covers callers lacking a required permission or organizer role.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState covers transitions not legal from the current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict covers concurrent-write races and duplicate active assignments.
	ErrConflict = errors.New("conflict")
)
