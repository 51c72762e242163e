package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProfileNotFound is returned when a user has neither a color analysis nor a style DNA
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrNoWardrobeItems is returned when style DNA is requested for an empty wardrobe
	ErrNoWardrobeItems = errors.New("no wardrobe items found")

	// ErrNotFound is returned by storage when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrModelFailure is returned when the vision model request fails
	ErrModelFailure = errors.New("vision model request failed")

	// ErrMalformedModelResponse is returned when the model answer cannot be parsed
	ErrMalformedModelResponse = errors.New("failed to parse AI response")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownStore is returned by a catalog source for a store it cannot query
	ErrUnknownStore = errors.New("unknown store")
)

// ValidationError reports a malformed product or shopping intent field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidRequest) match any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// UpstreamError marks a failure of a collaborator (profile lookup, catalog).
// The collaborator's error is kept as-is and reachable through errors.Is / errors.As.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err passed through an UpstreamError.
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}
