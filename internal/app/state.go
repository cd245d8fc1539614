package app

import (
	"sync"

	"github.com/vk/shiftgrid/internal/jobs"
	"github.com/vk/shiftgrid/internal/plan"
	"github.com/vk/shiftgrid/internal/render"
	"github.com/vk/shiftgrid/internal/solver"
)

// State is everything the operator builds up between solves: the pending
// ranges of the job being edited, the committed jobs and the last result.
// It is safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	draft   jobs.Draft
	store   jobs.Store
	request *solver.Request
	view    *render.View
}

// AddRange adds start–end to the pending ranges.
func (s *State) AddRange(start, end string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Add(start, end)
}

// AddRawRange adds a range given as one string.
func (s *State) AddRawRange(raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.AddRange(raw)
}

// RemoveRange drops the i-th pending range.
func (s *State) RemoveRange(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Remove(i)
}

// Pending returns the pending ranges in order.
func (s *State) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Ranges()
}

// CommitJob moves the pending ranges into the job named code. The pending
// list is only cleared when the commit succeeds.
func (s *State) CommitJob(code string) (merged bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged, err = s.store.Commit(code, s.draft.Ranges())
	if err != nil {
		return false, err
	}
	s.draft.Reset()
	return merged, nil
}

// ClearJobs drops every committed job and every pending range.
func (s *State) ClearJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
	s.draft.Reset()
}

// Jobs returns a copy of the committed jobs.
func (s *State) Jobs() []jobs.Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Definitions()
}

// Requirements returns the requirement lines of the serialized job text,
// one per committed job.
func (s *State) Requirements() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return jobs.RequirementLines(s.store.Serialize())
}

// Serialized returns the requirement lines as one text block.
func (s *State) Serialized() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Serialize()
}

// ApplyPlan commits the plan's jobs and builds the request from them. The
// jobs are applied to a copy of the store, which replaces it only when every
// job commits; a failing plan leaves the committed jobs untouched.
func (s *State) ApplyPlan(p *plan.Plan) (*solver.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scratch := s.store.Clone()
	if err := p.Apply(scratch); err != nil {
		return nil, err
	}
	s.store = *scratch
	return p.Request(&s.store), nil
}

// LastView returns the view of the last solve, or nil.
func (s *State) LastView() *render.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// LastRequest returns the request of the last solve that produced a view.
func (s *State) LastRequest() *solver.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.request
}

func (s *State) setResult(req *solver.Request, view *render.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.request = req
	s.view = view
}
