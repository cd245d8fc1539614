package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shiftgrid/internal/solver"
)

func TestBuild_Success(t *testing.T) {
	// --- Arrange ---
	resp := &solver.Response{
		SolutionGrid: map[string][]string{"K1": {"A", "R"}},
		Report: &solver.Report{
			Status:              solver.Optimal,
			EmployeeStats:       []*solver.EmployeeStat{{Employee: "K1", WCount: 1, RCount: 1}},
			JobAssignmentsCount: map[string]int{"A": 1},
		},
	}

	// --- Act ---
	v := Build(resp, "09:00–10:00", 1)

	// --- Assert ---
	require.True(t, v.HasGrid())
	assert.Equal(t, "OPTIMAL", v.Status)
	assert.Equal(t, "optimal", v.StatusClass)
	assert.Empty(t, v.GridMessage)
	assert.Len(t, v.Employees, 1)
	assert.Len(t, v.Jobs, 1)
	assert.Empty(t, v.Unfilled)
	assert.Equal(t, AllStaffedMessage, v.UnfilledMsg)
	assert.Empty(t, v.Notice)
	assert.False(t, v.ReportOnly)
}

func TestBuild_InfeasibleShowsReason(t *testing.T) {
	resp := &solver.Response{
		Report: &solver.Report{
			Status:           solver.Infeasible,
			InfeasibleReason: "not enough employees",
		},
	}

	v := Build(resp, "09:00–10:00", 2)

	assert.False(t, v.HasGrid())
	assert.Equal(t, NoGridMessage, v.GridMessage)
	assert.Equal(t, "infeasible", v.StatusClass)
	assert.Equal(t, NoUnfilledMessage, v.UnfilledMsg)
	assert.Equal(t, "not enough employees", v.Notice)
}

func TestBuild_BadPeriodUsesPlaceholder(t *testing.T) {
	resp := &solver.Response{
		SolutionGrid: map[string][]string{"K1": {"A"}},
		Report:       &solver.Report{Status: solver.Feasible},
	}

	v := Build(resp, "10:00–09:00", 1)

	assert.False(t, v.HasGrid())
	assert.Equal(t, BadPeriodMessage, v.GridMessage)
}

func TestBuild_MissingReport(t *testing.T) {
	v := Build(&solver.Response{SolutionGrid: map[string][]string{}}, "09:00–10:00", 1)

	assert.Equal(t, UnknownStatusText, v.Status)
	assert.True(t, v.HasGrid())
	assert.Equal(t, NoUnfilledMessage, v.UnfilledMsg)
}

func TestReportOnly(t *testing.T) {
	rep := &solver.Report{
		Status:              solver.ParseStatus("INFEASIBLE_PRE_SOLVE"),
		JobAssignmentsCount: map[string]int{},
		UnfilledJobSlots:    []solver.UnfilledSlot{{TimeSlot: "10:00", JobCode: "B"}},
		InfeasibleReason:    "break overlaps every job",
	}

	v := ReportOnly(rep)

	assert.True(t, v.ReportOnly)
	assert.False(t, v.HasGrid())
	assert.Equal(t, NoGridMessage, v.GridMessage)
	assert.Equal(t, "infeasible", v.StatusClass)
	assert.Len(t, v.Jobs, 1)
	assert.Len(t, v.Unfilled, 1)
	assert.Empty(t, v.UnfilledMsg)
	assert.Equal(t, "Report note: break overlaps every job", v.Notice)
}

func TestReportOnly_EmptyReport(t *testing.T) {
	v := ReportOnly(nil)

	assert.Equal(t, IncompleteStatusText, v.Status)
	assert.Empty(t, v.StatusClass)
	assert.Nil(t, v.Jobs)
	assert.Equal(t, NoUnfilledMessage, v.UnfilledMsg)
}
