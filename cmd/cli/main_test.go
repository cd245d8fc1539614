package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/shiftgrid/internal/cli"
)

const testPlan = `
schedule {
  employees                    = 1
  period                       = "09:00–10:00"
  max_consecutive_work_minutes = 60
}

job "b" {
  times = ["09:30–10:00"]
}

job "a" {
  times = ["09:00-09:30"]
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to set up test file")
	return path
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for -h")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_Version(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"--version"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), cli.Version)
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		args      []string
		expectErr string
	}{
		{name: "unknown flag", args: []string{"--this-is-not-a-valid-flag"}, expectErr: "unknown flag: --this-is-not-a-valid-flag"},
		{name: "unknown command", args: []string{"frobnicate"}, expectErr: "unknown command"},
		{name: "missing plan", args: []string{"solve"}, expectErr: "accepts 1 arg(s)"},
		{name: "bad log level", args: []string{"jobs", "--log-level", "loud", "plan.hcl"}, expectErr: "LogLevel"},
		{name: "render without period", args: []string{"render", "resp.json"}, expectErr: "period"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := run(context.Background(), &bytes.Buffer{}, tc.args)

			var exitErr *cli.ExitError
			require.True(t, errors.As(err, &exitErr), "expected a usage error, got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.expectErr)
		})
	}
}

func TestRun_Jobs(t *testing.T) {
	t.Parallel()
	plan := writeFile(t, "plan.hcl", testPlan)
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"jobs", "--log-level", "error", plan})

	require.NoError(t, err)
	assert.Equal(t, "A 09:00–09:30\nB 09:30–10:00\n", out.String())
}

func TestRun_JobsAsHCL(t *testing.T) {
	t.Parallel()
	plan := writeFile(t, "plan.hcl", testPlan)
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"jobs", "--hcl", "--log-level", "error", plan})

	require.NoError(t, err)
	assert.Contains(t, out.String(), `job "A" {`)
	assert.Contains(t, out.String(), `job "B" {`)
}

func TestRun_PlanError(t *testing.T) {
	t.Parallel()
	plan := writeFile(t, "plan.hcl", "schedule {\n")

	err := run(context.Background(), &bytes.Buffer{}, []string{"jobs", plan})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
	var exitErr *cli.ExitError
	assert.False(t, errors.As(err, &exitErr), "plan errors are not usage errors")
}

func TestRun_Render(t *testing.T) {
	t.Parallel()
	resp := writeFile(t, "resp.json", `{"solution_grid":{"K1":["A","R"]},"report":{"status":"OPTIMAL","job_assignments_count":{"A":1}}}`)
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"render", "--log-level", "error", "--period", "09:00–10:00", "--format", "csv", resp})

	require.NoError(t, err)
	assert.Equal(t, "employee,0900,0930\nK1,A,.\nSD,,\n", out.String())
}

func TestRun_FailedExportLeavesNoFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	resp := writeFile(t, "resp.json", `{"solution_grid":{"K1":["A","R"]},"report":{"status":"OPTIMAL"}}`)
	outFile := filepath.Join(t.TempDir(), "schedule.csv")

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, []string{"render", "--log-level", "error", "--period", "09:00–10:00", "--format", "nope", "--out", outFile, resp})

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	_, statErr := os.Stat(outFile)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "a failed export must not leave a file behind")
}

func TestRun_SolveAgainstHTTPSolver(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"solution_grid":{"K1":["A","B"]},"report":{"status":"OPTIMAL","job_assignments_count":{"A":1,"B":1}}}`)
	}))
	defer srv.Close()

	plan := writeFile(t, "plan.hcl", testPlan)
	outFile := filepath.Join(t.TempDir(), "schedule.json")

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, []string{"solve", "--solver-url", srv.URL, "--out", outFile, plan})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []any{"A 09:00–09:30", "B 09:30–10:00"}, received["job_requirements"])

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal(data, &view), "output format should follow the .json extension")
	assert.Equal(t, "OPTIMAL", view["status"])
}
