package service

import "errors"

// Rejections are reported to callers as client errors; the document is left
// unchanged.
var (
	ErrUserExists     = errors.New("user already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrInvalidAction  = errors.New("invalid action")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidStatus  = errors.New("invalid status")
)

// ErrStorage wraps failures of the underlying document store.
var ErrStorage = errors.New("storage failure")

// IsRejection reports whether err is a validation rejection rather than an
// internal failure.
func IsRejection(err error) bool {
	for _, target := range []error{ErrUserExists, ErrEmailExists, ErrInvalidAction, ErrInvalidPayload, ErrInvalidStatus} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
