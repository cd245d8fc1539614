// Package grid compiles sparse solver output into a dense, rectangular
// schedule grid: one column per slot of the schedule period, one row per
// employee and a trailing shortage row listing the unstaffed job codes.
package grid

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/shiftgrid/internal/slot"
	"github.com/vk/shiftgrid/internal/solver"
)

var (
	// ErrNoData is returned when there is neither a solution nor a success
	// status to render.
	ErrNoData = errors.New("no schedule grid to display")
	// ErrInvalidPeriod is returned when the schedule period does not parse or
	// spans no slots.
	ErrInvalidPeriod = errors.New("invalid schedule period")
)

// ShortageLabel names the shortage row.
const ShortageLabel = "SD"

// Style is the presentation class of a cell.
type Style int

const (
	StyleEmpty Style = iota
	StyleRest
	StyleWork
	StyleUnfilled
)

var styleClasses = [...]string{
	StyleEmpty:    "task-empty",
	StyleRest:     "task-rest",
	StyleWork:     "task-work",
	StyleUnfilled: "task-unfilled",
}

func (s Style) String() string {
	if int(s) < len(styleClasses) {
		return styleClasses[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// MarshalText encodes the style as its CSS class.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Cell is one rendered slot. Full carries the untruncated value for tooltips.
type Cell struct {
	Text  string `json:"text"`
	Full  string `json:"full,omitempty"`
	Style Style  `json:"style"`
	// Code is the sanitized job code for work cells.
	Code string `json:"code,omitempty"`
}

// Class returns the CSS class list of the cell.
func (c Cell) Class() string {
	if c.Style == StyleWork && c.Code != "" {
		return c.Style.String() + " task-code-" + c.Code
	}
	return c.Style.String()
}

// Row is a labelled line of cells.
type Row struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Grid is the compiled schedule.
type Grid struct {
	Period   slot.Range `json:"period"`
	Headers  []string   `json:"headers"`
	Rows     []Row      `json:"rows"`
	Shortage Row        `json:"shortage"`
}

// Input is everything Compile consumes.
type Input struct {
	Period string
	// Solution maps "K1".."Kn" to one label per slot.
	Solution map[string][]string
	Unfilled []solver.UnfilledSlot
	// Employees is the configured head count. When not positive the number
	// of rows in Solution is used instead.
	Employees int
	Status    solver.Status
}

// EmployeeKey is the row key of the i-th employee, counting from zero.
func EmployeeKey(i int) string {
	return fmt.Sprintf("K%d", i+1)
}

// Compile builds the grid. It fails with ErrNoData when nothing can be shown
// and with ErrInvalidPeriod when the period has no rational column count or
// spans more than slot.MaxPeriodSlots.
func Compile(in Input) (*Grid, error) {
	if in.Solution == nil && !in.Status.IsSuccess() {
		return nil, ErrNoData
	}

	period, ok := slot.ParseRange(in.Period)
	if !ok || !period.Schedulable() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, in.Period)
	}
	numSlots := period.Len()

	g := &Grid{
		Period:  period,
		Headers: make([]string, numSlots),
	}
	for i := range numSlots {
		g.Headers[i] = slot.Label(period.Start + i)
	}

	n := in.Employees
	if n <= 0 {
		n = len(in.Solution)
	}
	g.Rows = make([]Row, n)
	for e := range n {
		key := EmployeeKey(e)
		labels := in.Solution[key]
		cells := make([]Cell, numSlots)
		for i := range numSlots {
			var label string
			if i < len(labels) {
				label = labels[i]
			}
			cells[i] = classify(label)
		}
		g.Rows[e] = Row{Label: key, Cells: cells}
	}

	g.Shortage = shortageRow(period, in.Unfilled)
	return g, nil
}

func classify(label string) Cell {
	switch {
	case label == "":
		return Cell{Style: StyleEmpty}
	case label == "R" || label == ".":
		return Cell{Text: ".", Full: label, Style: StyleRest}
	case strings.TrimSpace(label) == "":
		return Cell{Text: label, Full: label, Style: StyleEmpty}
	default:
		return Cell{Text: label, Full: label, Style: StyleWork, Code: SanitizeCode(label)}
	}
}

// SanitizeCode lower-cases code and strips everything outside [a-z0-9].
func SanitizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(code))
}

func shortageRow(period slot.Range, unfilled []solver.UnfilledSlot) Row {
	bySlot := make(map[int][]string)
	for _, u := range unfilled {
		s, ok := slot.TimeToSlot(u.TimeSlot)
		if !ok {
			continue
		}
		if !slices.Contains(bySlot[s], u.JobCode) {
			bySlot[s] = append(bySlot[s], u.JobCode)
		}
	}

	row := Row{Label: ShortageLabel, Cells: make([]Cell, period.Len())}
	for i := range row.Cells {
		codes := bySlot[period.Start+i]
		if len(codes) == 0 {
			row.Cells[i] = Cell{Style: StyleEmpty}
			continue
		}
		slices.Sort(codes)
		full := strings.Join(codes, ",")
		row.Cells[i] = Cell{Text: truncateShortage(full, len(codes)), Full: full, Style: StyleUnfilled}
	}
	return row
}

// truncateShortage keeps shortage cells at most four characters wide: more
// than one code shows three characters and "+", a single code is cut at four.
func truncateShortage(joined string, count int) string {
	runes := []rune(joined)
	switch {
	case len(runes) > 4 && count > 1:
		return string(runes[:3]) + "+"
	case len(runes) > 4:
		return string(runes[:4])
	default:
		return joined
	}
}
