package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when no API key is supplied
	ErrMissingCredential = errors.New("missing MTA API key")

	// ErrInvalidParameters is returned for unusable caller input
	ErrInvalidParameters = errors.New("invalid parameters")
)

// UpstreamError reports a failed call to a Bus Time endpoint.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
