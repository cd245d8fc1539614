package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/shiftgrid/internal/render"
	"github.com/vk/shiftgrid/internal/solver"
	"github.com/zclconf/go-cty/cty"
)

// Exporter writes a view in one output format.
type Exporter struct {
	Name        string
	ContentType string
	Extension   string
	Write       func(ctx context.Context, w io.Writer, v *render.View) error
}

// PlanVar produces the value of a variable exposed to plan files.
type PlanVar func(ctx context.Context) (cty.Value, error)

// Uploader sends an exported artifact to a pre-signed URL.
type Uploader func(ctx context.Context, url, contentType string, body []byte) error

// RegisterTransport registers a solver client factory under name.
func (r *Registry) RegisterTransport(name string, factory solver.Factory) {
	if _, exists := r.TransportRegistry[name]; exists {
		panic(fmt.Sprintf("solver transport with name '%s' already registered", name))
	}
	slog.Debug("Registering solver transport.", "name", name)
	r.TransportRegistry[name] = factory
}

// RegisterExporter registers an exporter under its Name.
func (r *Registry) RegisterExporter(exporter *Exporter) {
	if _, exists := r.ExporterRegistry[exporter.Name]; exists {
		panic(fmt.Sprintf("exporter with name '%s' already registered", exporter.Name))
	}
	slog.Debug("Registering exporter.", "name", exporter.Name, "contentType", exporter.ContentType)
	r.ExporterRegistry[exporter.Name] = exporter
}

// RegisterPlanVar exposes a variable to plan files.
func (r *Registry) RegisterPlanVar(name string, fn PlanVar) {
	if _, exists := r.PlanVarRegistry[name]; exists {
		panic(fmt.Sprintf("plan variable with name '%s' already registered", name))
	}
	slog.Debug("Registering plan variable.", "name", name)
	r.PlanVarRegistry[name] = fn
}

// RegisterUploader sets the artifact uploader. Only one may be registered.
func (r *Registry) RegisterUploader(u Uploader) {
	if r.Uploader != nil {
		panic("uploader already registered")
	}
	slog.Debug("Registering uploader.")
	r.Uploader = u
}

// PlanVariables evaluates every registered plan variable.
func (r *Registry) PlanVariables(ctx context.Context) (map[string]cty.Value, error) {
	vars := make(map[string]cty.Value, len(r.PlanVarRegistry))
	for name, fn := range r.PlanVarRegistry {
		val, err := fn(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate plan variable '%s': %w", name, err)
		}
		vars[name] = val
	}
	return vars, nil
}
