package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/shiftgrid/internal/app"
)

// Version is reported by --version. It is overridden at build time.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options collects every flag of the command tree.
type options struct {
	logLevel  string
	logFormat string

	transport string
	solverURL string
	namespace string
	insecure  bool
	timeout   time.Duration

	format    string
	out       string
	uploadURL string

	period    string
	employees int

	port int
}

// Execute runs the command tree with args. Command output and logs go to
// outW.
func Execute(ctx context.Context, outW io.Writer, args []string) error {
	slog.Debug("CLI parser started.")
	root := NewRootCommand()
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return err
}

// NewRootCommand builds the shiftgrid command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "shiftgrid",
		Short: "Build shift schedules with a remote solver and render them as grids",
		Long: `shiftgrid collects job requirements, submits them to a scheduling solver
and renders the returned assignment as a time-slot grid with staffing
statistics.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newSolveCommand(opts),
		newRenderCommand(opts),
		newJobsCommand(opts),
		newServeCommand(opts),
	)
	return root
}

func addSolverFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.transport, "transport", "", "Solver transport: 'http' or 'socketio'. Overrides the plan.")
	cmd.Flags().StringVar(&opts.solverURL, "solver-url", "", "Solver endpoint URL. Overrides the plan.")
	cmd.Flags().StringVar(&opts.namespace, "namespace", "", "Socket.IO namespace. Overrides the plan.")
	cmd.Flags().BoolVar(&opts.insecure, "insecure-skip-verify", false, "Skip TLS certificate verification.")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Upper bound on waiting for the solver (default 3m, or the plan's timeout).")
}

func addOutputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: text, html, csv, xlsx or json (default: from --out extension, else text).")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the output to this file instead of stdout.")
	cmd.Flags().StringVar(&opts.uploadURL, "upload-url", "", "Also upload the output to this pre-signed URL.")
}

// newApp validates the flags and builds the application.
func newApp(cmd *cobra.Command, opts *options) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		LogFormat:          strings.ToLower(opts.logFormat),
		LogLevel:           strings.ToLower(opts.logLevel),
		Transport:          opts.transport,
		SolverURL:          opts.solverURL,
		Namespace:          opts.namespace,
		InsecureSkipVerify: opts.insecure,
		Timeout:            opts.timeout,
		Format:             opts.format,
		UploadURL:          opts.uploadURL,
		Port:               opts.port,
	})
	if err != nil {
		return nil, usageError(err)
	}
	slog.Debug("CLI parser finished successfully.", "command", cmd.Name())
	return app.NewApp(cmd.ErrOrStderr(), cfg), nil
}
