package backend

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBackendStatus marks a non-2xx answer from the completions endpoint.
	ErrBackendStatus = errors.New("backend returned an error status")

	// ErrMalformedStream marks a streamed chunk that could not be decoded.
	ErrMalformedStream = errors.New("malformed completion stream")
)

// StatusError carries the status and body of a failed backend call.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", ErrBackendStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrBackendStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrBackendStatus
}
