package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vk/shiftgrid/internal/app"
	"github.com/vk/shiftgrid/internal/plan"
	"github.com/vk/shiftgrid/internal/solver"
)

// usageArgs turns argument-count errors into usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func newSolveCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve PLAN",
		Short: "Load a plan, ask the solver for a schedule and render it",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			ctx := a.Context(cmd.Context())

			req, err := a.LoadPlan(ctx, args[0])
			if err != nil {
				return err
			}

			view, solveErr := a.Solve(ctx, req)
			if view == nil {
				return solveErr
			}
			if err := writeOutput(ctx, cmd, a, opts); err != nil {
				return err
			}
			return solveErr
		},
	}
	addSolverFlags(cmd, opts)
	addOutputFlags(cmd, opts)
	return cmd
}

func newRenderCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render RESPONSE.json",
		Short: "Render a saved solver response without contacting the solver",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.period == "" {
				return usageError(errors.New(`required flag "period" not set`))
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			ctx := a.Context(cmd.Context())

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read solver response: %w", err)
			}
			var resp solver.Response
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("failed to decode solver response %s: %w", args[0], err)
			}

			a.ShowResponse(&resp, opts.period, opts.employees)
			return writeOutput(ctx, cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.period, "period", "", `Schedule period the response was solved for, e.g. "09:00–18:00".`)
	cmd.Flags().IntVar(&opts.employees, "employees", 0, "Configured employee count (default: rows in the response).")
	addOutputFlags(cmd, opts)
	return cmd
}

func newJobsCommand(opts *options) *cobra.Command {
	var asHCL bool
	cmd := &cobra.Command{
		Use:   "jobs PLAN",
		Short: "Print the job requirement lines a plan produces",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := a.LoadPlan(a.Context(cmd.Context()), args[0]); err != nil {
				return err
			}
			if asHCL {
				_, err = cmd.OutOrStdout().Write(plan.EncodeJobs(a.State().Jobs()))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.State().Serialized())
			return err
		},
	}
	cmd.Flags().BoolVar(&asHCL, "hcl", false, "Print the merged jobs as HCL job blocks instead.")
	return cmd
}

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [PLAN]",
		Short: "Run the HTTP front end, optionally preloaded with a plan's jobs",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			ctx := a.Context(cmd.Context())
			if len(args) == 1 {
				if _, err := a.LoadPlan(ctx, args[0]); err != nil {
					return err
				}
			}
			return a.Serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&opts.port, "port", "p", 8080, "Port to listen on.")
	addSolverFlags(cmd, opts)
	return cmd
}

// writeOutput exports the latest view to --out (or stdout) and uploads it
// when --upload-url is set.
func writeOutput(ctx context.Context, cmd *cobra.Command, a *app.App, opts *options) error {
	format := opts.format
	if format == "" && opts.out != "" {
		format = formatForFile(a, opts.out)
	}

	if opts.out == "" {
		if err := a.Export(ctx, cmd.OutOrStdout(), format); err != nil {
			return err
		}
	} else if err := exportToFile(ctx, a, opts.out, format); err != nil {
		return err
	}

	if opts.uploadURL != "" {
		if err := a.Upload(ctx, opts.uploadURL, format); err != nil {
			return err
		}
	}
	return nil
}

// exportToFile writes the latest view to path. The file is removed when the
// export or the final close fails, so no partial output is left behind.
func exportToFile(ctx context.Context, a *app.App, path, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to write output file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return a.Export(ctx, f, format)
}

// formatForFile picks the exporter whose extension matches name.
func formatForFile(a *app.App, name string) string {
	ext := filepath.Ext(name)
	for _, format := range a.Registry().ExporterNames() {
		if e, _ := a.Registry().Exporter(format); e != nil && e.Extension == ext {
			return format
		}
	}
	return ""
}
