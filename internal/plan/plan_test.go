package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shiftgrid/internal/jobs"
	"github.com/vk/shiftgrid/internal/solver"
	"github.com/zclconf/go-cty/cty"
)

const fullPlan = `
schedule {
  employees                    = 3
  period                       = "09:00–18:00"
  max_consecutive_work_minutes = 240
  rest_after_work_minutes      = 60

  break {
    period      = span("12:00", "14:00")
    min_minutes = 60
  }
}

solver {
  transport = "http"
  url       = env.SOLVER_URL
  timeout   = "90s"
}

job "a" {
  times = ["09:00-12:00", span("13:00", slot_time(36))]
}

job "b" {
  times = ["10:00–11:00"]
}

job "A" {
  times = ["09:00–12:00", "18:00–19:00"]
}
`

func writePlan(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to set up plan file")
	return path
}

func testVars() map[string]cty.Value {
	return map[string]cty.Value{
		"env": cty.ObjectVal(map[string]cty.Value{
			"SOLVER_URL": cty.StringVal("http://solver.local/schedule"),
		}),
	}
}

func TestLoad_FullPlan(t *testing.T) {
	// --- Arrange ---
	path := writePlan(t, t.TempDir(), "main.hcl", fullPlan)

	// --- Act ---
	p, err := Load(context.Background(), path, testVars())
	require.NoError(t, err)

	var store jobs.Store
	require.NoError(t, p.Apply(&store))
	req := p.Request(&store)

	// --- Assert ---
	expected := &solver.Request{
		Employees:                 3,
		SchedulePeriod:            "09:00–18:00",
		MaxConsecutiveWorkMinutes: 240,
		RestAfterWorkMinutes:      60,
		EnableMandatoryBreak:      true,
		BreakPeriod:               "12:00–14:00",
		MinMandatoryBreakMinutes:  60,
		JobRequirements: []string{
			"A 09:00–12:00,13:00–18:00,18:00–19:00",
			"B 10:00–11:00",
		},
	}
	if diff := cmp.Diff(expected, req); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, req.Validate())

	ep := p.Endpoint()
	assert.Equal(t, "http", ep.Transport)
	assert.Equal(t, "http://solver.local/schedule", ep.URL)

	timeout, err := p.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, timeout)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "a_schedule.hcl", `
schedule {
  employees                    = 2
  period                       = "08:00-12:00"
  max_consecutive_work_minutes = 120
}
`)
	writePlan(t, dir, "b_jobs.hcl", `
job "x" {
  times = ["08:00–10:00"]
}
`)
	writePlan(t, dir, "notes.txt", "ignored")

	p, err := Load(context.Background(), dir, nil)
	require.NoError(t, err)

	assert.Len(t, p.Files, 2)
	assert.False(t, p.BreakEnabled())

	var store jobs.Store
	require.NoError(t, p.Apply(&store))
	req := p.Request(&store)
	assert.Equal(t, DefaultRestMinutes, req.RestAfterWorkMinutes)
	assert.Empty(t, req.BreakPeriod)
	assert.Equal(t, []string{"X 08:00–10:00"}, req.JobRequirements)
}

func TestLoad_DisabledBreak(t *testing.T) {
	path := writePlan(t, t.TempDir(), "main.hcl", `
schedule {
  employees                    = 1
  period                       = "09:00–10:00"
  max_consecutive_work_minutes = 60
  break {
    enabled     = false
    period      = "09:00–09:30"
    min_minutes = 30
  }
}
`)

	p, err := Load(context.Background(), path, nil)
	require.NoError(t, err)

	req := p.Request(&jobs.Store{})
	assert.False(t, req.EnableMandatoryBreak)
	assert.Zero(t, req.MinMandatoryBreakMinutes)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expectErr string
	}{
		{
			name:      "syntax error",
			content:   `schedule {`,
			expectErr: "failed to parse HCL file",
		},
		{
			name:      "no schedule",
			content:   `job "a" { times = ["09:00–10:00"] }`,
			expectErr: ErrNoSchedule.Error(),
		},
		{
			name: "missing required attribute",
			content: `schedule {
  employees = 1
  period    = "09:00–10:00"
}`,
			expectErr: "max_consecutive_work_minutes",
		},
		{
			name: "bad time in span",
			content: `schedule {
  employees                    = 1
  period                       = span("9am", "10:00")
  max_consecutive_work_minutes = 60
}`,
			expectErr: "invalid time",
		},
		{
			name: "unknown variable",
			content: `schedule {
  employees                    = 1
  period                       = env.PERIOD
  max_consecutive_work_minutes = 60
}`,
			expectErr: "failed to decode plan file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writePlan(t, t.TempDir(), "main.hcl", tc.content)

			_, err := Load(context.Background(), path, nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestApply_RejectsInvalidRange(t *testing.T) {
	p := &Plan{Jobs: []Job{{Code: "a", Times: []string{"12:00–09:00"}}}}

	err := p.Apply(&jobs.Store{})

	require.ErrorIs(t, err, jobs.ErrInvalidRange)
	assert.Contains(t, err.Error(), `job "a"`)
}

func TestTimeout(t *testing.T) {
	_, err := (&Plan{Solver: Solver{Timeout: "soon"}}).Timeout()
	require.Error(t, err)

	_, err = (&Plan{Solver: Solver{Timeout: "-5s"}}).Timeout()
	require.Error(t, err)

	d, err := (&Plan{}).Timeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestFunctions(t *testing.T) {
	fns := Functions()

	v, err := fns["span"].Call([]cty.Value{cty.StringVal("9:00"), cty.StringVal("9:30")})
	require.NoError(t, err)
	assert.Equal(t, "09:00–09:30", v.AsString())

	v, err = fns["slot_time"].Call([]cty.Value{cty.NumberIntVal(19)})
	require.NoError(t, err)
	assert.Equal(t, "09:30", v.AsString())

	_, err = fns["slot_time"].Call([]cty.Value{cty.NumberFloatVal(3.5)})
	require.Error(t, err)

	v, err = fns["time_slot"].Call([]cty.Value{cty.StringVal("09:30")})
	require.NoError(t, err)
	n, _ := v.AsBigFloat().Int64()
	assert.Equal(t, int64(19), n)
}

func TestEncodeJobs_RoundTrip(t *testing.T) {
	// --- Arrange ---
	var store jobs.Store
	_, err := store.Commit("b", []string{"10:00–11:00"})
	require.NoError(t, err)
	_, err = store.Commit("a", []string{"09:00–10:00", "13:00–14:00"})
	require.NoError(t, err)

	// --- Act ---
	encoded := EncodeJobs(store.Definitions())

	// --- Assert ---
	assert.Contains(t, string(encoded), `job "A" {`)
	dir := t.TempDir()
	writePlan(t, dir, "jobs.hcl", string(encoded))
	writePlan(t, dir, "schedule.hcl", `
schedule {
  employees                    = 1
  period                       = "09:00–14:00"
  max_consecutive_work_minutes = 60
}
`)
	p, err := Load(context.Background(), dir, nil)
	require.NoError(t, err)

	var reloaded jobs.Store
	require.NoError(t, p.Apply(&reloaded))
	if diff := cmp.Diff(store.Lines(), reloaded.Lines()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
