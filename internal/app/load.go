package app

import (
	"context"
	"fmt"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/plan"
	"github.com/vk/shiftgrid/internal/solver"
)

// LoadPlan loads the plan at path, commits its jobs into the state and
// returns the request it describes. The plan's solver block fills whatever
// the flags left unset.
func (a *App) LoadPlan(ctx context.Context, path string) (*solver.Request, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	vars, err := a.registry.PlanVariables(ctx)
	if err != nil {
		return nil, err
	}

	p, err := plan.Load(ctx, path, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	timeout, err := p.Timeout()
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	req, err := a.state.ApplyPlan(p)
	if err != nil {
		return nil, fmt.Errorf("failed to apply plan: %w", err)
	}

	a.mu.Lock()
	a.planEndpoint = p.Endpoint()
	a.planTimeout = timeout
	a.mu.Unlock()

	a.logger.Debug("Plan applied.", "jobs", len(req.JobRequirements), "transport", p.Solver.Transport)
	return req, nil
}
