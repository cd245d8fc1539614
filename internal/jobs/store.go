package jobs

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// ErrEmptyCode is returned when a job is committed without a code.
	ErrEmptyCode = errors.New("job code is required")
	// ErrNoRanges is returned when a job is committed without any range.
	ErrNoRanges = errors.New("job needs at least one time range")
)

// Definition is one committed job.
type Definition struct {
	Code  string   `json:"code"`
	Times []string `json:"times"`
}

// Line renders the requirement line sent to the solver.
func (d Definition) Line() string {
	return d.Code + " " + strings.Join(d.Times, ",")
}

// Store is the ordered collection of committed jobs.
type Store struct {
	defs []Definition
}

// Commit adds pending to the job named code. Codes are trimmed and upper-cased
// first. When the job already exists its ranges are merged and merged is true.
func (s *Store) Commit(code string, pending []string) (merged bool, err error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false, ErrEmptyCode
	}
	if len(pending) == 0 {
		return false, fmt.Errorf("%w: %s", ErrNoRanges, code)
	}

	idx := slices.IndexFunc(s.defs, func(d Definition) bool { return d.Code == code })
	if idx >= 0 {
		times := s.defs[idx].Times
		for _, r := range pending {
			if !slices.Contains(times, r) {
				times = append(times, r)
			}
		}
		slices.Sort(times)
		s.defs[idx].Times = times
		merged = true
	} else {
		times := slices.Clone(pending)
		slices.Sort(times)
		s.defs = append(s.defs, Definition{Code: code, Times: slices.Compact(times)})
	}

	order := CodeOrder()
	slices.SortStableFunc(s.defs, func(a, b Definition) int { return order(a.Code, b.Code) })
	return merged, nil
}

// Clear removes every job.
func (s *Store) Clear() {
	s.defs = nil
}

// Len is the number of committed jobs.
func (s *Store) Len() int {
	return len(s.defs)
}

// Definitions returns a deep copy of the committed jobs in display order.
func (s *Store) Definitions() []Definition {
	out := make([]Definition, len(s.defs))
	for i, d := range s.defs {
		out[i] = Definition{Code: d.Code, Times: slices.Clone(d.Times)}
	}
	return out
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{defs: s.Definitions()}
}

// Lines returns one requirement line per job.
func (s *Store) Lines() []string {
	lines := make([]string, len(s.defs))
	for i, d := range s.defs {
		lines[i] = d.Line()
	}
	return lines
}

// Serialize joins Lines with newlines.
func (s *Store) Serialize() string {
	return strings.Join(s.Lines(), "\n")
}

// RequirementLines extracts the requirement lines from free text: trimmed,
// non-empty lines that contain at least one space.
func RequirementLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && strings.Contains(line, " ") {
			out = append(out, line)
		}
	}
	return out
}

// CodeOrder returns a locale-aware comparison for job codes. The returned
// function holds its own collator and must not be shared between goroutines.
func CodeOrder() func(a, b string) int {
	c := collate.New(language.Und)
	return c.CompareString
}
