package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/render"
	"github.com/vk/shiftgrid/internal/solver"
)

// Solve runs one solve-and-render cycle. Starting a cycle cancels the one in
// flight, and the cycle is bounded by the configured timeout; expiry aborts
// the transport call and is reported as solver.ErrTimeout.
//
// On success the view is stored in the state and returned. When the solver
// rejects the request but still sends a report, the report-only view is
// stored and returned together with the *solver.HTTPError. Every other
// failure leaves the state untouched.
func (a *App) Solve(ctx context.Context, req *solver.Request) (*render.View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ep, timeout := a.Endpoint()
	factory, err := a.registry.Transport(ep.Transport)
	if err != nil {
		return nil, err
	}

	logger := a.logger.With("cycle", uuid.NewString(), "transport", ep.Transport)
	ctx = ctxlog.WithLogger(ctx, logger)

	cycleCtx, seq, done := a.beginCycle(ctx, timeout)
	defer done()

	client, err := factory(cycleCtx, ep)
	if err != nil {
		return nil, fmt.Errorf("failed to create solver client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close solver client", "error", err)
		}
	}()

	logger.Info("⏳ Solving schedule...", "period", req.SchedulePeriod, "employees", req.Employees, "jobs", len(req.JobRequirements), "timeout", timeout)
	start := time.Now()
	resp, err := client.Solve(cycleCtx, req)
	elapsed := time.Since(start)

	if err != nil && !errors.Is(err, solver.ErrTimeout) && errors.Is(cycleCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("%w: %w", solver.ErrTimeout, err)
	}

	var httpErr *solver.HTTPError
	switch {
	case err == nil:
		view := render.Build(resp, req.SchedulePeriod, req.Employees)
		if !a.commitResult(seq, req, view) {
			logger.Debug("A newer cycle started, result not stored.")
		}
		logger.Info("🏁 Solve finished.", "status", view.Status, "elapsed", elapsed)
		return view, nil
	case errors.As(err, &httpErr) && httpErr.Report != nil:
		view := render.ReportOnly(httpErr.Report)
		if !a.commitResult(seq, req, view) {
			logger.Debug("A newer cycle started, report not stored.")
		}
		logger.Warn("Solver rejected the request, showing its report.", "error", err, "elapsed", elapsed)
		return view, err
	case errors.Is(err, solver.ErrTimeout):
		logger.Error("Solver did not answer in time.", "timeout", timeout)
		return nil, fmt.Errorf("solve abandoned after %s: %w", timeout, err)
	case errors.Is(err, context.Canceled):
		logger.Info("Solve cancelled.", "elapsed", elapsed)
		return nil, err
	default:
		logger.Error("Solve failed.", "error", err, "elapsed", elapsed)
		return nil, err
	}
}

// beginCycle cancels any cycle in flight and starts a new one bounded by
// timeout. done must be called when the cycle ends.
func (a *App) beginCycle(ctx context.Context, timeout time.Duration) (cycleCtx context.Context, seq uint64, done func()) {
	cycleCtx, cancel := context.WithTimeout(ctx, timeout)

	a.mu.Lock()
	if a.cancelCycle != nil {
		ctxlog.FromContext(ctx).Debug("Cancelling previous solve cycle.")
		a.cancelCycle()
	}
	a.cycleSeq++
	seq = a.cycleSeq
	a.cancelCycle = cancel
	a.mu.Unlock()

	return cycleCtx, seq, func() {
		cancel()
		a.mu.Lock()
		if a.cycleSeq == seq {
			a.cancelCycle = nil
		}
		a.mu.Unlock()
	}
}

// commitResult stores the outcome unless a newer cycle has started since.
// The check and the store happen under a.mu so a newer cycle cannot begin in
// between. It reports whether the outcome was stored.
func (a *App) commitResult(seq uint64, req *solver.Request, view *render.View) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cycleSeq != seq {
		return false
	}
	a.state.setResult(req, view)
	return true
}

// ShowResponse renders a solver response obtained elsewhere (for example a
// saved reply) and stores the view as the latest result.
func (a *App) ShowResponse(resp *solver.Response, period string, employees int) *render.View {
	view := render.Build(resp, period, employees)
	a.state.setResult(nil, view)
	return view
}
