package exporter

import (
	"github.com/xuri/excelize/v2"

	"flowetl/internal/errors"
	"flowetl/internal/flow"
	"flowetl/internal/smoothing"
)

// XLSXWriter persists artifact tables as single-sheet Excel workbooks.
type XLSXWriter struct{}

// Extension returns the file extension for Excel artifacts.
func (XLSXWriter) Extension() string { return "xlsx" }

// WriteTicks writes the tick table.
func (w XLSXWriter) WriteTicks(path string, ticks []flow.Tick) error {
	return w.writeTable(path, TickArtifact, tickHeaders, tickRecords(ticks))
}

// WriteExecutions writes the raw execution table.
func (w XLSXWriter) WriteExecutions(path string, executions []flow.Execution) error {
	return w.writeTable(path, ExecArtifact, execHeaders, execRecords(executions))
}

// WriteFlows writes the per-timestamp net-flow table.
func (w XLSXWriter) WriteFlows(path string, points []flow.FlowPoint) error {
	return w.writeTable(path, FlowArtifact, flowHeaders, flowRecords(points))
}

// WriteSmoothed writes the smoothing result table.
func (w XLSXWriter) WriteSmoothed(path string, points []smoothing.SmoothedPoint) error {
	return w.writeTable(path, SmoothedArtifact, smoothedHeaders, smoothedRecords(points))
}

func (XLSXWriter) writeTable(path, sheet string, headers []string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return errors.NewWrite("create sheet", path, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewWrite("remove default sheet", path, err)
	}

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return errors.NewWrite("address row", path, err)
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.NewWrite("write row", path, err)
		}
		return nil
	}

	if err := writeRow(1, headers); err != nil {
		return err
	}
	for i, record := range records {
		if err := writeRow(i+2, record); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewWrite("save workbook", path, err)
	}
	return nil
}
