// Package http_solver submits solve requests to the solver over plain HTTP:
// the request is POSTed as JSON and the reply decoded into a solver.Response.
package http_solver

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/solver"
	"resty.dev/v3"
)

// Name is the transport name used in plans and on the command line.
const Name = "http"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the transport with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransport(Name, New)
}

// Client is a solver.Client backed by a resty client.
type Client struct {
	url       string
	rc        *resty.Client
	logger    *slog.Logger
	closeOnce sync.Once
}

// New creates an HTTP solver client for ep.URL.
func New(ctx context.Context, ep solver.Endpoint) (solver.Client, error) {
	if ep.URL == "" {
		return nil, errors.New("http solver: url is required")
	}
	if !strings.HasPrefix(ep.URL, "http://") && !strings.HasPrefix(ep.URL, "https://") {
		return nil, fmt.Errorf("http solver: url must be http(s), got %q", ep.URL)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	logger := ctxlog.FromContext(ctx).With("transport", Name, "url", ep.URL)
	if ep.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	rc := resty.NewWithClient(&http.Client{Transport: transport}).
		SetLogger(restyLogger{logger}).
		SetHeader("Accept", "application/json")

	return &Client{url: ep.URL, rc: rc, logger: logger}, nil
}

// Solve posts req and decodes the reply. The call is bounded by ctx; a
// deadline expiry is reported as solver.ErrTimeout.
func (c *Client) Solve(ctx context.Context, req *solver.Request) (*solver.Response, error) {
	c.logger.Debug("Posting solve request", "employees", req.Employees, "period", req.SchedulePeriod, "jobs", len(req.JobRequirements))

	res, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", solver.ErrTimeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", solver.ErrTransport, err)
	}

	c.logger.Debug("Received solver reply", "status", res.StatusCode())

	var resp solver.Response
	body := res.Bytes()
	decodeErr := json.Unmarshal(body, &resp)

	if !res.IsSuccess() {
		httpErr := &solver.HTTPError{StatusCode: res.StatusCode(), Message: http.StatusText(res.StatusCode())}
		if decodeErr == nil {
			if resp.Error != "" {
				httpErr.Message = resp.Error
			}
			httpErr.Report = resp.Report
		}
		return nil, httpErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: undecodable reply: %w", solver.ErrTransport, decodeErr)
	}
	return &resp, nil
}

// Close releases the underlying client. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.rc.Close()
	})
	return err
}

// restyLogger routes resty's own messages into slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
