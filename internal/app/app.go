package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/solver"
)

// DefaultTransport is used when neither the flags nor the plan name one.
const DefaultTransport = "http"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	state    *State

	mu           sync.Mutex
	planEndpoint solver.Endpoint
	planTimeout  time.Duration
	cancelCycle  context.CancelFunc
	cycleSeq     uint64
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// When no modules are given the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		// A broken module set is a programmer error, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		state:    &State{},
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// State returns the operator state.
func (a *App) State() *State {
	return a.state
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Endpoint resolves the solver endpoint and timeout: flags first, then the
// loaded plan, then the defaults.
func (a *App) Endpoint() (solver.Endpoint, time.Duration) {
	a.mu.Lock()
	ep, timeout := a.planEndpoint, a.planTimeout
	a.mu.Unlock()

	if a.config.Transport != "" {
		ep.Transport = a.config.Transport
	}
	if a.config.SolverURL != "" {
		ep.URL = a.config.SolverURL
	}
	if a.config.Namespace != "" {
		ep.Namespace = a.config.Namespace
	}
	if a.config.InsecureSkipVerify {
		ep.InsecureSkipVerify = true
	}
	if ep.Transport == "" {
		ep.Transport = DefaultTransport
	}

	if a.config.Timeout > 0 {
		timeout = a.config.Timeout
	}
	if timeout <= 0 {
		timeout = solver.DefaultTimeout
	}
	return ep, timeout
}
