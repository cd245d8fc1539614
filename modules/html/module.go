// Package html renders a view as a standalone HTML page. Grid cells carry the
// task-* classes and the shortage row the sd-row class so a stylesheet can
// colour them.
package html

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/render"
)

// Format is the exporter name.
const Format = "html"

//go:embed schedule.html.tmpl
var pageSource string

var page = template.Must(template.New("schedule").Parse(pageSource))

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the exporter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExporter(&registry.Exporter{
		Name:        Format,
		ContentType: "text/html; charset=utf-8",
		Extension:   ".html",
		Write:       Write,
	})
}

// Write renders v as an HTML page.
func Write(ctx context.Context, w io.Writer, v *render.View) error {
	ctxlog.FromContext(ctx).Debug("Rendering HTML view", "status", v.Status, "hasGrid", v.HasGrid())
	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render schedule page: %w", err)
	}
	return nil
}
