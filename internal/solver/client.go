// Package solver defines the wire contract with the remote scheduling solver:
// the request and response records, status classification, request
// validation, and the Client interface implemented by transports.
package solver

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single solve.
const DefaultTimeout = 180 * time.Second

// Client submits a request to a solver. Implementations must return promptly
// once ctx is done; a deadline expiry is reported as ErrTimeout.
type Client interface {
	Solve(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// Endpoint describes where and how to reach the solver.
type Endpoint struct {
	Transport          string
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Factory builds a Client for an endpoint. ctx carries the logger the client
// should use; it does not bound the client's lifetime.
type Factory func(ctx context.Context, ep Endpoint) (Client, error)
