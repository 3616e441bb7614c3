package config

import "errors"

// Configuration validation errors.
// They are returned by Config.Validate() so callers can match them with
// errors.Is() while still printing a readable message.
var (
	// ErrNoBaseURL is returned when the base URL is empty.
	ErrNoBaseURL = errors.New("no base URL configured")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory configured")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingRoute is returned when both a proxy route and the
	// embedded Tor daemon are configured.
	ErrConflictingRoute = errors.New("proxy route and embedded Tor are mutually exclusive")

	// ErrInvalidRate is returned when the request rate is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidConcurrency is returned when the seed concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPageSize is returned when the list page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidLimit is returned when a record, ship or page cap is negative.
	// Use 0 for no cap.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrEmptySelector is returned when a required CSS selector is empty.
	ErrEmptySelector = errors.New("empty selector")
)
