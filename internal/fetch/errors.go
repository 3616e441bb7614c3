package fetch

import (
	"errors"
	"fmt"
)

// Fetch errors.
var (
	// ErrInvalidRoute is returned when the egress route is not a usable proxy
	// URL. Supported forms are http://host:port, https://host:port,
	// socks5://[user:pass@]host:port and a bare host:port (HTTP proxy).
	ErrInvalidRoute = errors.New("invalid route: expected http://, https:// or socks5:// proxy URL")

	// ErrEmptyURL is returned when Fetch is called without a URL.
	ErrEmptyURL = errors.New("empty URL")
)

// StatusError describes a response outside the 2xx range.
// Fetch never returns it. Callers build it from a Page to report the outcome.
type StatusError struct {
	// URL is the fetched URL.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d for %s", e.StatusCode, e.URL)
}
