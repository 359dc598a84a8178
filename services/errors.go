package services

import (
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy surfaced to the transport layer. Store-level errors are
// translated at the lookup/create sites; anything unrecognized propagates
// unchanged and is fatal to the request.
var (
	ErrDuplicateEnrollment = errors.New("user is already enrolled in this course")
	ErrNotFound            = errors.New("record not found")
	ErrInvalidState        = errors.New("cannot create certificate for incomplete enrollment")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrUnsupportedEvent    = errors.New("unsupported event type")
)

// translateNotFound maps the store's miss sentinel to the service taxonomy
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
