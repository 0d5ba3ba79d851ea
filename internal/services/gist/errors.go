package gist

import (
	"errors"
	"fmt"
)

// Failure classes of the remote document transport. Callers pick the
// user-facing treatment per class: not-found means "no remote yet"
// during a full sync, unauthorized means the credential must be
// corrected, forbidden covers rate limiting.
var (
	ErrNotFound     = errors.New("gist not found")
	ErrUnauthorized = errors.New("gist credential rejected")
	ErrForbidden    = errors.New("gist access forbidden or rate limited")
	ErrBadRequest   = errors.New("gist request malformed")
)

// classifyStatus maps an HTTP status code to a transport error
func classifyStatus(status int, body string) error {
	switch status {
	case 404:
		return ErrNotFound
	case 401:
		return ErrUnauthorized
	case 403, 429:
		return ErrForbidden
	case 400, 422:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	default:
		return fmt.Errorf("gist API returned status %d: %s", status, body)
	}
}
