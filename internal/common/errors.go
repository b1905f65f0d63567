// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Acquisition errors.
	ErrAcquisition = errors.New("image acquisition failed")

	// Asset store errors.
	ErrUpload      = errors.New("asset upload failed")
	ErrStaleHandle = errors.New("asset handle is stale")
	ErrDeletion    = errors.New("asset deletion failed")

	// Classification errors.
	ErrClassify = errors.New("classification failed")
	ErrNotReady = errors.New("classifier is not ready")

	// Orchestration errors.
	ErrBusy    = errors.New("a classification cycle is already in flight")
	ErrTimeout = errors.New("operation timed out")

	// Collection errors.
	ErrUnknownSite  = errors.New("unknown site")
	ErrUploadPaused = errors.New("uploads are rate limited")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
