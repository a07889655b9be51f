package mta

import "github.com/jusunglee/mta-bustime/internal/feed"

var (
	// ErrMissingCredential is returned when no API key is supplied
	ErrMissingCredential = feed.ErrMissingCredential

	// ErrInvalidParameters is returned for unusable coordinates or spans
	ErrInvalidParameters = feed.ErrInvalidParameters
)

// UpstreamError reports a failed stops-for-location call
type UpstreamError = feed.UpstreamError
