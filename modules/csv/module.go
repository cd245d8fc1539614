// Package csv exports the schedule grid as comma-separated values: a header
// row of slot labels followed by one row per employee and the shortage row.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/grid"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/render"
)

// Format is the exporter name.
const Format = "csv"

// HeaderLabel heads the row-label column.
const HeaderLabel = "employee"

// ErrNoGrid is returned when the view has no compiled grid.
var ErrNoGrid = errors.New("view has no grid to export")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the exporter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExporter(&registry.Exporter{
		Name:        Format,
		ContentType: "text/csv; charset=utf-8",
		Extension:   ".csv",
		Write:       Write,
	})
}

// Write writes the grid of v. Cells hold the full value, so shortage cells
// list every unstaffed code rather than the truncated text.
func Write(ctx context.Context, w io.Writer, v *render.View) error {
	if !v.HasGrid() {
		return fmt.Errorf("%w: %s", ErrNoGrid, v.GridMessage)
	}
	g := v.Grid
	ctxlog.FromContext(ctx).Debug("Writing CSV grid", "rows", len(g.Rows), "columns", len(g.Headers))

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{HeaderLabel}, g.Headers...)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range g.Rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", row.Label, err)
		}
	}
	if err := cw.Write(record(g.Shortage)); err != nil {
		return fmt.Errorf("failed to write CSV shortage row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func record(row grid.Row) []string {
	rec := make([]string, 0, len(row.Cells)+1)
	rec = append(rec, row.Label)
	for _, c := range row.Cells {
		switch c.Style {
		case grid.StyleRest:
			rec = append(rec, c.Text)
		default:
			rec = append(rec, c.Full)
		}
	}
	return rec
}
