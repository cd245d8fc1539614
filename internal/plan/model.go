package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/shiftgrid/internal/jobs"
	"github.com/vk/shiftgrid/internal/solver"
)

// DefaultRestMinutes applies when a schedule omits rest_after_work_minutes.
const DefaultRestMinutes = 30

// fileContent is the decoding target for a single plan file.
type fileContent struct {
	Schedule *Schedule `hcl:"schedule,block"`
	Solver   *Solver   `hcl:"solver,block"`
	Jobs     []Job     `hcl:"job,block"`
}

// Schedule holds the staffing constraints.
type Schedule struct {
	Employees                 int    `hcl:"employees"`
	Period                    string `hcl:"period"`
	MaxConsecutiveWorkMinutes int    `hcl:"max_consecutive_work_minutes"`
	RestAfterWorkMinutes      int    `hcl:"rest_after_work_minutes,optional"`
	Break                     *Break `hcl:"break,block"`
}

// Break is the optional global break window.
type Break struct {
	Period     string `hcl:"period"`
	MinMinutes int    `hcl:"min_minutes"`
	Enabled    *bool  `hcl:"enabled,optional"`
}

// Solver overrides where the solve request is sent.
type Solver struct {
	Transport          string `hcl:"transport,optional"`
	URL                string `hcl:"url,optional"`
	Namespace          string `hcl:"namespace,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// Job is one job block; blocks sharing a code are merged.
type Job struct {
	Code  string   `hcl:"code,label"`
	Times []string `hcl:"times"`
}

// Plan is the merged content of every file that was loaded.
type Plan struct {
	Schedule Schedule
	Solver   Solver
	Jobs     []Job
	Files    []string
}

// BreakEnabled reports whether the break window applies.
func (p *Plan) BreakEnabled() bool {
	b := p.Schedule.Break
	return b != nil && (b.Enabled == nil || *b.Enabled)
}

// Apply commits every job block into store through a draft, so plan jobs
// obey the same range rules as jobs entered interactively.
func (p *Plan) Apply(store *jobs.Store) error {
	for _, j := range p.Jobs {
		var d jobs.Draft
		for _, t := range j.Times {
			if _, err := d.AddRange(t); err != nil && !errors.Is(err, jobs.ErrDuplicateRange) {
				return fmt.Errorf("job %q: %w", j.Code, err)
			}
		}
		if _, err := store.Commit(j.Code, d.Ranges()); err != nil {
			return fmt.Errorf("job %q: %w", j.Code, err)
		}
	}
	return nil
}

// Request builds the solve request from the schedule and the committed jobs.
// Break fields are left empty when the break is disabled.
func (p *Plan) Request(store *jobs.Store) *solver.Request {
	rest := p.Schedule.RestAfterWorkMinutes
	if rest == 0 {
		rest = DefaultRestMinutes
	}

	req := &solver.Request{
		Employees:                 p.Schedule.Employees,
		SchedulePeriod:            p.Schedule.Period,
		MaxConsecutiveWorkMinutes: p.Schedule.MaxConsecutiveWorkMinutes,
		RestAfterWorkMinutes:      rest,
		JobRequirements:           jobs.RequirementLines(store.Serialize()),
	}
	if p.BreakEnabled() {
		req.EnableMandatoryBreak = true
		req.BreakPeriod = p.Schedule.Break.Period
		req.MinMandatoryBreakMinutes = p.Schedule.Break.MinMinutes
	}
	return req
}

// Endpoint returns the solver endpoint declared by the plan. Empty fields are
// left for the caller to default.
func (p *Plan) Endpoint() solver.Endpoint {
	return solver.Endpoint{
		Transport:          p.Solver.Transport,
		URL:                p.Solver.URL,
		Namespace:          p.Solver.Namespace,
		InsecureSkipVerify: p.Solver.InsecureSkipVerify,
	}
}

// Timeout parses the solver timeout. Zero means none was given.
func (p *Plan) Timeout() (time.Duration, error) {
	if p.Solver.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Solver.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid solver timeout %q: %w", p.Solver.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("solver timeout must be positive, got %s", d)
	}
	return d, nil
}
