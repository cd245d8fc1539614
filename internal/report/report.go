// Package report turns a solver report into display tables.
package report

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/vk/shiftgrid/internal/jobs"
	"github.com/vk/shiftgrid/internal/slot"
	"github.com/vk/shiftgrid/internal/solver"
)

// UnknownDemand is shown for a job whose demand cannot be estimated.
const UnknownDemand = "unknown"

// EmployeeRow is one line of the employee stats table.
type EmployeeRow struct {
	Employee string `json:"employee"`
	Work     int    `json:"work_slots"`
	Rest     int    `json:"rest_slots"`
}

// JobRow is one line of the job stats table.
type JobRow struct {
	Code     string `json:"code"`
	Assigned int    `json:"assigned_slots"`
	// Demand is assigned plus unfilled slots, or UnknownDemand when zero.
	Demand string `json:"estimated_demand"`
}

// UnfilledRow is one line of the unfilled detail table.
type UnfilledRow struct {
	TimeSlot string `json:"time_slot"`
	JobCode  string `json:"job_code"`
	Reason   string `json:"reason,omitempty"`
}

// EmployeeRows tabulates the employee stats, skipping missing entries.
func EmployeeRows(stats []*solver.EmployeeStat) []EmployeeRow {
	rows := make([]EmployeeRow, 0, len(stats))
	for _, s := range stats {
		if s == nil {
			continue
		}
		rows = append(rows, EmployeeRow{Employee: s.Employee, Work: s.WCount, Rest: s.RCount})
	}
	return rows
}

// JobRows estimates demand for every job code that was either assigned or
// left unfilled. It returns nil when the report has no assignment counts.
func JobRows(r *solver.Report) []JobRow {
	if r == nil || r.JobAssignmentsCount == nil {
		return nil
	}

	unfilled := make(map[string]int)
	for _, u := range r.UnfilledJobSlots {
		unfilled[u.JobCode]++
	}

	codes := make([]string, 0, len(r.JobAssignmentsCount)+len(unfilled))
	for code := range r.JobAssignmentsCount {
		codes = append(codes, code)
	}
	for code := range unfilled {
		if _, ok := r.JobAssignmentsCount[code]; !ok {
			codes = append(codes, code)
		}
	}
	slices.SortFunc(codes, jobs.CodeOrder())

	rows := make([]JobRow, len(codes))
	for i, code := range codes {
		assigned := r.JobAssignmentsCount[code]
		demand := UnknownDemand
		if total := assigned + unfilled[code]; total > 0 {
			demand = strconv.Itoa(total)
		}
		rows[i] = JobRow{Code: code, Assigned: assigned, Demand: demand}
	}
	return rows
}

// UnfilledRows sorts the unfilled records by slot then job code. Records
// whose time does not parse go last, keeping their relative order.
func UnfilledRows(slots []solver.UnfilledSlot) []UnfilledRow {
	type keyed struct {
		slot  int
		ok    bool
		entry solver.UnfilledSlot
	}
	items := make([]keyed, len(slots))
	for i, u := range slots {
		s, ok := slot.TimeToSlot(u.TimeSlot)
		items[i] = keyed{slot: s, ok: ok, entry: u}
	}

	order := jobs.CodeOrder()
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return 1
		case !b.ok:
			return -1
		}
		if c := cmp.Compare(a.slot, b.slot); c != 0 {
			return c
		}
		return order(a.entry.JobCode, b.entry.JobCode)
	})

	rows := make([]UnfilledRow, len(items))
	for i, it := range items {
		rows[i] = UnfilledRow{TimeSlot: it.entry.TimeSlot, JobCode: it.entry.JobCode, Reason: it.entry.Reason}
	}
	return rows
}
