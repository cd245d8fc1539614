// Package render assembles everything shown after a solve into one View:
// the status line, the compiled grid or a placeholder, the stat tables and
// any operator-facing notice.
package render

import (
	"errors"

	"github.com/vk/shiftgrid/internal/grid"
	"github.com/vk/shiftgrid/internal/report"
	"github.com/vk/shiftgrid/internal/solver"
)

// Placeholder and notice texts.
const (
	NoGridMessage        = "No schedule grid to display."
	BadPeriodMessage     = "Cannot parse the schedule period to build the grid."
	AllStaffedMessage    = "All job demands were staffed."
	NoUnfilledMessage    = "No unfilled job details."
	IncompleteStatusText = "API error / incomplete report"
	UnknownStatusText    = "unknown"
)

// View is the presentation model consumed by exporters.
type View struct {
	Status      string               `json:"status"`
	StatusClass string               `json:"status_class,omitempty"`
	Period      string               `json:"period,omitempty"`
	Grid        *grid.Grid           `json:"grid,omitempty"`
	GridMessage string               `json:"grid_message,omitempty"`
	Employees   []report.EmployeeRow `json:"employee_stats"`
	Jobs        []report.JobRow      `json:"job_stats"`
	Unfilled    []report.UnfilledRow `json:"unfilled"`
	UnfilledMsg string               `json:"unfilled_message,omitempty"`
	Notice      string               `json:"notice,omitempty"`
	ReportOnly  bool                 `json:"report_only"`
}

// statusClass mirrors the status line highlighting.
func statusClass(s solver.Status) string {
	switch {
	case s.IsSuccess():
		return "optimal"
	case s.IsInfeasible():
		return "infeasible"
	default:
		return ""
	}
}

// Build assembles the full result of a successful solver reply. The grid is
// replaced by a placeholder message when it cannot be compiled.
func Build(resp *solver.Response, period string, employees int) *View {
	rep := resp.Report
	if rep == nil {
		rep = &solver.Report{}
	}

	v := &View{
		Status:      rep.Status.Raw,
		StatusClass: statusClass(rep.Status),
		Period:      period,
	}
	if v.Status == "" {
		v.Status = UnknownStatusText
	}

	g, err := grid.Compile(grid.Input{
		Period:    period,
		Solution:  resp.SolutionGrid,
		Unfilled:  rep.UnfilledJobSlots,
		Employees: employees,
		Status:    rep.Status,
	})
	switch {
	case err == nil:
		v.Grid = g
	case errors.Is(err, grid.ErrInvalidPeriod):
		v.GridMessage = BadPeriodMessage
	default:
		v.GridMessage = NoGridMessage
	}

	v.Employees = report.EmployeeRows(rep.EmployeeStats)
	v.Jobs = report.JobRows(rep)
	v.Unfilled = report.UnfilledRows(rep.UnfilledJobSlots)

	success := rep.Status.IsSuccess()
	if len(v.Unfilled) == 0 {
		if success {
			v.UnfilledMsg = AllStaffedMessage
		} else {
			v.UnfilledMsg = NoUnfilledMessage
		}
	}
	if !success && rep.InfeasibleReason != "" {
		v.Notice = rep.InfeasibleReason
	}
	return v
}

// ReportOnly assembles the view for a failed reply that still carried a
// report. No grid is compiled.
func ReportOnly(rep *solver.Report) *View {
	if rep == nil {
		rep = &solver.Report{}
	}
	v := &View{
		Status:      rep.Status.Raw,
		GridMessage: NoGridMessage,
		ReportOnly:  true,
	}
	if v.Status == "" {
		v.Status = IncompleteStatusText
	}
	if rep.Status.IsInfeasible() {
		v.StatusClass = "infeasible"
	}

	v.Jobs = report.JobRows(rep)
	v.Unfilled = report.UnfilledRows(rep.UnfilledJobSlots)
	if len(v.Unfilled) == 0 {
		v.UnfilledMsg = NoUnfilledMessage
	}
	if rep.InfeasibleReason != "" {
		v.Notice = "Report note: " + rep.InfeasibleReason
	}
	return v
}

// HasGrid reports whether a compiled grid is available.
func (v *View) HasGrid() bool {
	return v != nil && v.Grid != nil
}
