// Package plan loads HCL plan files: the schedule constraints, the optional
// solver endpoint and the job blocks an operator would otherwise enter by
// hand. Expressions may call span, slot_time and time_slot and may read the
// variables contributed by registered modules (e.g. env).
package plan

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the plan file suffix searched for in directories.
const Extension = ".hcl"

// ErrNoSchedule is returned when no loaded file declares a schedule block.
var ErrNoSchedule = errors.New("plan has no schedule block")

// Load reads a plan from a single file, or from every .hcl file under a
// directory. vars are exposed to expressions by name.
func Load(ctx context.Context, path string, vars map[string]cty.Value) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan...", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, fmt.Errorf("failed to search plan directory %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files found in %s", Extension, path)
		}
	}
	logger.Debug("Found plan files to load", "files", files)

	evalCtx := &hcl.EvalContext{
		Variables: vars,
		Functions: Functions(),
	}

	parser := hclparse.NewParser()
	p := &Plan{Files: files}
	var scheduleFile, solverFile string

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var content fileContent
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &content); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode plan file %s: %w", file, diags)
		}

		if content.Schedule != nil {
			if scheduleFile != "" {
				return nil, fmt.Errorf("duplicate schedule block in %s, already declared in %s", file, scheduleFile)
			}
			scheduleFile = file
			p.Schedule = *content.Schedule
		}
		if content.Solver != nil {
			if solverFile != "" {
				return nil, fmt.Errorf("duplicate solver block in %s, already declared in %s", file, solverFile)
			}
			solverFile = file
			p.Solver = *content.Solver
		}
		p.Jobs = append(p.Jobs, content.Jobs...)
		logger.Debug("Successfully loaded plan file", "file", file, "jobs", len(content.Jobs))
	}

	if scheduleFile == "" {
		return nil, ErrNoSchedule
	}

	logger.Info("Plan loaded successfully.", "files", len(files), "job_blocks", len(p.Jobs))
	return p, nil
}
