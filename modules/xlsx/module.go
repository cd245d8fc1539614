// Package xlsx exports a view as an Excel workbook with one sheet for the
// grid and one per stats table.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/grid"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/render"
	"github.com/xuri/excelize/v2"
)

// Format is the exporter name.
const Format = "xlsx"

// Sheet names.
const (
	SheetSchedule  = "Schedule"
	SheetEmployees = "Employees"
	SheetJobs      = "Jobs"
	SheetUnfilled  = "Unfilled"
)

var fills = map[grid.Style]string{
	grid.StyleRest:     "#EEEEEE",
	grid.StyleWork:     "#D8ECFF",
	grid.StyleUnfilled: "#FFD6D6",
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the exporter with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterExporter(&registry.Exporter{
		Name:        Format,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension:   ".xlsx",
		Write:       Write,
	})
}

// Write encodes v as a workbook.
func Write(ctx context.Context, w io.Writer, v *render.View) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building workbook", "status", v.Status, "hasGrid", v.HasGrid())

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSchedule); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if err := writeSchedule(f, v); err != nil {
		return err
	}

	employees := [][]any{{"Employee", "Work slots", "Rest slots"}}
	for _, e := range v.Employees {
		employees = append(employees, []any{e.Employee, e.Work, e.Rest})
	}
	jobs := [][]any{{"Job", "Assigned slots", "Estimated demand"}}
	for _, j := range v.Jobs {
		jobs = append(jobs, []any{j.Code, j.Assigned, j.Demand})
	}
	unfilled := [][]any{{"Time slot", "Job", "Reason"}}
	for _, u := range v.Unfilled {
		unfilled = append(unfilled, []any{u.TimeSlot, u.JobCode, u.Reason})
	}

	for _, t := range []struct {
		sheet string
		rows  [][]any
	}{
		{SheetEmployees, employees},
		{SheetJobs, jobs},
		{SheetUnfilled, unfilled},
	} {
		if err := writeTable(f, t.sheet, t.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSchedule(f *excelize.File, v *render.View) error {
	if err := f.SetCellValue(SheetSchedule, "A1", "Status"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetSchedule, "B1", v.Status); err != nil {
		return err
	}
	if v.Notice != "" {
		if err := f.SetCellValue(SheetSchedule, "C1", v.Notice); err != nil {
			return err
		}
	}
	if !v.HasGrid() {
		return f.SetCellValue(SheetSchedule, "A3", v.GridMessage)
	}

	styles := make(map[grid.Style]int, len(fills))
	for style, color := range fills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s style: %w", style, err)
		}
		styles[style] = id
	}

	g := v.Grid
	header := make([]any, 0, len(g.Headers)+1)
	header = append(header, "")
	for _, h := range g.Headers {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetSchedule, "A3", &header); err != nil {
		return fmt.Errorf("failed to write grid header: %w", err)
	}

	rows := append(append([]grid.Row{}, g.Rows...), g.Shortage)
	for i, row := range rows {
		r := i + 4
		label, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSchedule, label, row.Label); err != nil {
			return err
		}
		for j, c := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(j+2, r)
			if err != nil {
				return err
			}
			if c.Text != "" {
				if err := f.SetCellValue(SheetSchedule, cell, c.Text); err != nil {
					return err
				}
			}
			if id, ok := styles[c.Style]; ok {
				if err := f.SetCellStyle(SheetSchedule, cell, cell, id); err != nil {
					return err
				}
			}
		}
	}

	return f.SetPanes(SheetSchedule, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      3,
		TopLeftCell: "B4",
		ActivePane:  "bottomRight",
	})
}

func writeTable(f *excelize.File, sheet string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
