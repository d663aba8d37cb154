package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotAuthorized = errors.New("not authorized for room")
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotBound      = errors.New("not in a room")
	ErrRateLimited   = errors.New("rate limited")
)

// Invalid wraps ErrValidation with the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// CollaboratorError reports a failed, timed out or malformed call
// to an external recognition, translation or synthesis service.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
