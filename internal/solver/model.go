package solver

import "github.com/vk/shiftgrid/internal/slot"

// Request is the body posted to the solver.
type Request struct {
	Employees                 int      `json:"k_employees" validate:"gt=0"`
	SchedulePeriod            string   `json:"schedule_period" validate:"required,timerange"`
	MaxConsecutiveWorkMinutes int      `json:"max_consecutive_work_minutes" validate:"gt=0"`
	RestAfterWorkMinutes      int      `json:"rest_duration_minutes_after_work" validate:"oneof=30 60"`
	EnableMandatoryBreak      bool     `json:"enable_mandatory_break"`
	BreakPeriod               string   `json:"designated_global_break_period"`
	MinMandatoryBreakMinutes  int      `json:"min_mandatory_break_minutes"`
	JobRequirements           []string `json:"job_requirements" validate:"min=1,dive,required"`
}

// Period returns the parsed schedule period.
func (r *Request) Period() (slot.Range, bool) {
	return slot.ParseRange(r.SchedulePeriod)
}

// EmployeeStat is the per-employee slot count summary.
type EmployeeStat struct {
	Employee string `json:"employee"`
	WCount   int    `json:"W_count"`
	RCount   int    `json:"R_count"`
}

// UnfilledSlot is one job demand the solver could not staff.
type UnfilledSlot struct {
	TimeSlot string `json:"time_slot"`
	JobCode  string `json:"job_code"`
	Reason   string `json:"reason,omitempty"`
}

// Report is the solver's summary of a solve.
type Report struct {
	Status              Status          `json:"status"`
	EmployeeStats       []*EmployeeStat `json:"employee_stats,omitempty"`
	JobAssignmentsCount map[string]int  `json:"job_assignments_count,omitempty"`
	UnfilledJobSlots    []UnfilledSlot  `json:"unfilled_job_slots,omitempty"`
	InfeasibleReason    string          `json:"infeasible_reason,omitempty"`
}

// Response is the solver reply. SolutionGrid maps "K1".."Kn" to one label per
// slot of the requested period; it is nil when no schedule was produced.
type Response struct {
	SolutionGrid map[string][]string `json:"solution_grid"`
	Report       *Report             `json:"report,omitempty"`
	Error        string              `json:"error,omitempty"`
}
