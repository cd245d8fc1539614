// Package json exports the view itself as indented JSON.
package json

import (
	"context"
	"encoding/json"
	"io"

	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/render"
)

// Format is the exporter name.
const Format = "json"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the exporter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExporter(&registry.Exporter{
		Name:        Format,
		ContentType: "application/json",
		Extension:   ".json",
		Write:       Write,
	})
}

// Write encodes v.
func Write(_ context.Context, w io.Writer, v *render.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
