package solver

import (
	"encoding/json"
	"strings"
)

// Kind classifies the solver's status string.
type Kind int

const (
	// KindNone is a missing or empty status.
	KindNone Kind = iota
	// KindOther covers any status text the solver may add later.
	KindOther
	KindOptimal
	KindFeasible
	KindInfeasible
	KindInfeasiblePreSolve
	KindModelInvalid
	KindUnknown
)

var kindNames = map[string]Kind{
	"OPTIMAL":              KindOptimal,
	"FEASIBLE":             KindFeasible,
	"INFEASIBLE":           KindInfeasible,
	"INFEASIBLE_PRE_SOLVE": KindInfeasiblePreSolve,
	"MODEL_INVALID":        KindModelInvalid,
	"UNKNOWN":              KindUnknown,
}

// Status is the solver outcome. Raw keeps the text exactly as received so that
// unrecognized values can still be displayed.
type Status struct {
	Kind Kind
	Raw  string
}

// ParseStatus classifies raw. An empty string yields KindNone.
func ParseStatus(raw string) Status {
	if raw == "" {
		return Status{Kind: KindNone}
	}
	if k, ok := kindNames[raw]; ok {
		return Status{Kind: k, Raw: raw}
	}
	return Status{Kind: KindOther, Raw: raw}
}

// Optimal and Feasible are convenience constructors used by callers and tests.
var (
	Optimal    = ParseStatus("OPTIMAL")
	Feasible   = ParseStatus("FEASIBLE")
	Infeasible = ParseStatus("INFEASIBLE")
)

// IsSuccess reports whether the solver produced a usable schedule.
func (s Status) IsSuccess() bool {
	return s.Kind == KindOptimal || s.Kind == KindFeasible
}

// IsInfeasible reports whether the solver proved the inputs unsatisfiable.
// Status text containing INFEASIBLE counts even when not recognized.
func (s Status) IsInfeasible() bool {
	switch s.Kind {
	case KindInfeasible, KindInfeasiblePreSolve:
		return true
	}
	return strings.Contains(s.Raw, "INFEASIBLE")
}

// String returns the raw status text.
func (s Status) String() string {
	return s.Raw
}

// MarshalJSON encodes the status as its raw string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Raw)
}

// UnmarshalJSON accepts a string or null.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ParseStatus("")
		return nil
	}
	*s = ParseStatus(*raw)
	return nil
}
