package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/vk/shiftgrid/internal/solver"
)

func TestEmployeeRows_SkipsMissing(t *testing.T) {
	stats := []*solver.EmployeeStat{
		{Employee: "K1", WCount: 6, RCount: 2},
		nil,
		{Employee: "K2", WCount: 4, RCount: 4},
	}

	expected := []EmployeeRow{
		{Employee: "K1", Work: 6, Rest: 2},
		{Employee: "K2", Work: 4, Rest: 4},
	}
	if diff := cmp.Diff(expected, EmployeeRows(stats)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, EmployeeRows(nil))
}

func TestJobRows(t *testing.T) {
	testCases := []struct {
		name     string
		report   *solver.Report
		expected []JobRow
	}{
		{
			name:     "no assignment counts",
			report:   &solver.Report{UnfilledJobSlots: []solver.UnfilledSlot{{TimeSlot: "09:00", JobCode: "A"}}},
			expected: nil,
		},
		{
			name:     "nil report",
			expected: nil,
		},
		{
			name: "union of assigned and unfilled codes",
			report: &solver.Report{
				JobAssignmentsCount: map[string]int{"B": 4, "A": 2},
				UnfilledJobSlots: []solver.UnfilledSlot{
					{TimeSlot: "09:00", JobCode: "A"},
					{TimeSlot: "09:30", JobCode: "C"},
					{TimeSlot: "10:00", JobCode: "C"},
				},
			},
			expected: []JobRow{
				{Code: "A", Assigned: 2, Demand: "3"},
				{Code: "B", Assigned: 4, Demand: "4"},
				{Code: "C", Assigned: 0, Demand: "2"},
			},
		},
		{
			name:     "zero demand is unknown",
			report:   &solver.Report{JobAssignmentsCount: map[string]int{"Z": 0}},
			expected: []JobRow{{Code: "Z", Assigned: 0, Demand: UnknownDemand}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, JobRows(tc.report)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnfilledRows_Order(t *testing.T) {
	slots := []solver.UnfilledSlot{
		{TimeSlot: "bad-1", JobCode: "Z"},
		{TimeSlot: "10:00", JobCode: "B"},
		{TimeSlot: "09:30", JobCode: "C"},
		{TimeSlot: "10:00", JobCode: "A"},
		{TimeSlot: "bad-2", JobCode: "A"},
		{TimeSlot: "9:30", JobCode: "A", Reason: "no staff"},
	}

	expected := []UnfilledRow{
		{TimeSlot: "9:30", JobCode: "A", Reason: "no staff"},
		{TimeSlot: "09:30", JobCode: "C"},
		{TimeSlot: "10:00", JobCode: "A"},
		{TimeSlot: "10:00", JobCode: "B"},
		{TimeSlot: "bad-1", JobCode: "Z"},
		{TimeSlot: "bad-2", JobCode: "A"},
	}
	if diff := cmp.Diff(expected, UnfilledRows(slots)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}
