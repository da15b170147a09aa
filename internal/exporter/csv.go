package exporter

import (
	"encoding/csv"
	"os"

	"flowetl/internal/errors"
	"flowetl/internal/flow"
	"flowetl/internal/smoothing"
)

// CSVWriter persists artifact tables as headed CSV files.
type CSVWriter struct{}

// Extension returns the file extension for CSV artifacts.
func (CSVWriter) Extension() string { return "csv" }

// WriteTicks writes the tick table.
func (w CSVWriter) WriteTicks(path string, ticks []flow.Tick) error {
	return w.writeTable(path, tickHeaders, tickRecords(ticks))
}

// WriteExecutions writes the raw execution table.
func (w CSVWriter) WriteExecutions(path string, executions []flow.Execution) error {
	return w.writeTable(path, execHeaders, execRecords(executions))
}

// WriteFlows writes the per-timestamp net-flow table.
func (w CSVWriter) WriteFlows(path string, points []flow.FlowPoint) error {
	return w.writeTable(path, flowHeaders, flowRecords(points))
}

// WriteSmoothed writes the smoothing result table.
func (w CSVWriter) WriteSmoothed(path string, points []smoothing.SmoothedPoint) error {
	return w.writeTable(path, smoothedHeaders, smoothedRecords(points))
}

func (CSVWriter) writeTable(path string, headers []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewWrite("create artifact", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return errors.NewWrite("write header", path, err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return errors.NewWrite("write record", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewWrite("flush artifact", path, err)
	}
	return nil
}
