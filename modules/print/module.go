// Package print renders a view as plain text: the status line, the grid and
// the stat tables, aligned with text/tabwriter.
package print

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/grid"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/render"
)

// Format is the exporter name.
const Format = "text"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the exporter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExporter(&registry.Exporter{
		Name:        Format,
		ContentType: "text/plain; charset=utf-8",
		Extension:   ".txt",
		Write:       Write,
	})
}

// Write prints v to w.
func Write(ctx context.Context, w io.Writer, v *render.View) error {
	ctxlog.FromContext(ctx).Debug("Printing view", "status", v.Status, "hasGrid", v.HasGrid())

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintf(tw, "Status:\t%s\n", v.Status)
	if v.Period != "" {
		fmt.Fprintf(tw, "Period:\t%s\n", v.Period)
	}
	if v.Notice != "" {
		fmt.Fprintf(tw, "Note:\t%s\n", v.Notice)
	}
	fmt.Fprintln(tw)

	if v.HasGrid() {
		g := v.Grid
		fmt.Fprintf(tw, "\t%s\n", strings.Join(g.Headers, "\t"))
		for _, row := range g.Rows {
			writeCells(tw, row.Label, row.Cells)
		}
		writeCells(tw, g.Shortage.Label, g.Shortage.Cells)
	} else {
		fmt.Fprintln(tw, v.GridMessage)
	}

	if len(v.Employees) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Employee\tWork\tRest")
		for _, e := range v.Employees {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Employee, e.Work, e.Rest)
		}
	}

	if len(v.Jobs) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Job\tAssigned\tDemand")
		for _, j := range v.Jobs {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", j.Code, j.Assigned, j.Demand)
		}
	}

	fmt.Fprintln(tw)
	if len(v.Unfilled) == 0 {
		fmt.Fprintln(tw, v.UnfilledMsg)
	} else {
		fmt.Fprintln(tw, "Slot\tJob\tReason")
		for _, u := range v.Unfilled {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", u.TimeSlot, u.JobCode, u.Reason)
		}
	}

	return tw.Flush()
}

func writeCells(w io.Writer, label string, cells []grid.Cell) {
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.Text
		if texts[i] == "" {
			texts[i] = "-"
		}
	}
	fmt.Fprintf(w, "%s\t%s\n", label, strings.Join(texts, "\t"))
}
