package answer

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates no API credential is available. Surfaced as
// a service misconfiguration, never retried.
var ErrNotConfigured = errors.New("answer provider API key is not set")

// UpstreamError indicates the provider responded with a non-success
// status. Status and body are kept so callers can log the cause.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("answer provider returned %d: %s", e.Status, e.Body)
}

// TransportError indicates the request never produced a response:
// network failure, DNS error, or timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("answer provider unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
