// Package socketio_solver submits solve requests over Socket.IO. The client
// connects to the configured namespace, emits a "solve" event carrying the
// request and waits for either "solution" or "solve_error".
package socketio_solver

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/solver"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Name is the transport name used in plans and on the command line.
const Name = "socketio"

// Event names of the solve exchange.
const (
	EventSolve      = "solve"
	EventSolution   = "solution"
	EventSolveError = "solve_error"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the transport with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransport(Name, New)
}

// Client is a solver.Client that opens one Socket.IO connection per solve.
type Client struct {
	baseURL   string
	path      string
	namespace string
	insecure  bool
	logger    *slog.Logger
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value *solver.Response
	err   error
}

// errorPayload is the body of a solve_error event.
type errorPayload struct {
	Code   int            `json:"code"`
	Error  string         `json:"error"`
	Report *solver.Report `json:"report"`
}

// New creates a Socket.IO solver client. ep.URL may use the http(s) or
// ws(s) scheme; its path selects the Socket.IO endpoint path.
func New(ctx context.Context, ep solver.Endpoint) (solver.Client, error) {
	if ep.URL == "" {
		return nil, errors.New("socketio solver: url is required")
	}
	parsedURL, err := url.Parse(ep.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch parsedURL.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("socketio solver: unsupported scheme %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("socketio solver: url %q has no host", ep.URL)
	}

	namespace := ep.Namespace
	if namespace == "" {
		namespace = "/"
	}

	return &Client{
		baseURL:   fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:      parsedURL.Path,
		namespace: namespace,
		insecure:  ep.InsecureSkipVerify,
		logger:    ctxlog.FromContext(ctx).With("transport", Name, "url", ep.URL, "namespace", namespace),
	}, nil
}

// Solve connects, emits the request and waits for the reply. The socket is
// disconnected when ctx is done, so an expired deadline abandons the
// exchange and is reported as solver.ErrTimeout.
func (c *Client) Solve(ctx context.Context, req *solver.Request) (*solver.Response, error) {
	logger := c.logger
	logger.Debug("Solve started")
	defer logger.Debug("Solve finished")

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	deliver := func(res opResult) {
		select {
		case done <- res:
		default:
		}
	}

	opts := socket.DefaultOptions()
	if c.path != "" {
		opts.SetPath(c.path)
	}
	if c.insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(c.baseURL, opts)
	io := manager.Socket(c.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "sid", io.Id())
		if err := io.Emit(EventSolve, req); err != nil {
			deliver(opResult{err: fmt.Errorf("%w: %w", solver.ErrTransport, err)})
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		deliver(opResult{err: fmt.Errorf("%w: %w", solver.ErrTransport, firstError(errs))})
	})

	io.On(types.EventName(EventSolution), func(data ...any) {
		resp, err := decodeSolution(data)
		deliver(opResult{value: resp, err: err})
	})

	io.On(types.EventName(EventSolveError), func(data ...any) {
		deliver(opResult{err: decodeSolveError(data)})
	})

	io.Connect()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		if isConnected.Load() {
			return nil, fmt.Errorf("%w: connected but no %q event arrived", solver.ErrTimeout, EventSolution)
		}
		return nil, fmt.Errorf("%w: timed out while waiting for initial connection", solver.ErrTimeout)
	case res := <-done:
		return res.value, res.err
	}
}

// Close is a no-op; every solve owns its own connection.
func (c *Client) Close() error {
	return nil
}

func firstError(args []any) error {
	if len(args) == 0 {
		return errors.New("connection failed")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", args[0])
}

// payload re-encodes the first event argument so it can be decoded into a
// typed value.
func payload(data []any) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("event carried no data")
	}
	switch v := data[0].(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func decodeSolution(data []any) (*solver.Response, error) {
	raw, err := payload(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", solver.ErrTransport, err)
	}
	var resp solver.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: undecodable reply: %w", solver.ErrTransport, err)
	}
	return &resp, nil
}

func decodeSolveError(data []any) error {
	raw, err := payload(data)
	if err != nil {
		return &solver.HTTPError{Message: "solve failed"}
	}
	var p errorPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// A bare string is accepted as the message.
		return &solver.HTTPError{Message: string(raw)}
	}
	if p.Error == "" {
		p.Error = "solve failed"
	}
	return &solver.HTTPError{StatusCode: p.Code, Message: p.Error, Report: p.Report}
}
