package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks a request rejected before any network call.
	ErrInvalidRequest = errors.New("invalid solve request")
	// ErrTimeout is returned when the solve deadline expires.
	ErrTimeout = errors.New("solver did not answer in time")
	// ErrTransport is returned when no response could be obtained.
	ErrTransport = errors.New("solver transport failed")
)

// HTTPError is a non-success reply from the solver. Report is set when the
// reply still carried a (partial) report. StatusCode is zero when the
// transport has no status codes (Socket.IO) and the peer did not send one.
type HTTPError struct {
	StatusCode int
	Message    string
	Report     *Report
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return "solver rejected the request: " + e.Message
	}
	if e.Message == "" {
		return fmt.Sprintf("solver replied with status %d", e.StatusCode)
	}
	return fmt.Sprintf("solver replied with status %d: %s", e.StatusCode, e.Message)
}
