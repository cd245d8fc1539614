package registry

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/shiftgrid/internal/solver"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered transports, exporters and plan variables
// for a single application instance.
type Registry struct {
	TransportRegistry map[string]solver.Factory
	ExporterRegistry  map[string]*Exporter
	PlanVarRegistry   map[string]PlanVar
	Uploader          Uploader
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		TransportRegistry: make(map[string]solver.Factory),
		ExporterRegistry:  make(map[string]*Exporter),
		PlanVarRegistry:   make(map[string]PlanVar),
	}
}

// Transport looks up a solver transport by name.
func (r *Registry) Transport(name string) (solver.Factory, error) {
	f, ok := r.TransportRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver transport %q (available: %v)", name, r.TransportNames())
	}
	return f, nil
}

// Exporter looks up a view exporter by format name.
func (r *Registry) Exporter(format string) (*Exporter, error) {
	e, ok := r.ExporterRegistry[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", format, r.ExporterNames())
	}
	return e, nil
}

// TransportNames lists the registered transports in sorted order.
func (r *Registry) TransportNames() []string {
	return slices.Sorted(maps.Keys(r.TransportRegistry))
}

// ExporterNames lists the registered formats in sorted order.
func (r *Registry) ExporterNames() []string {
	return slices.Sorted(maps.Keys(r.ExporterRegistry))
}
