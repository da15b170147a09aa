package exporter

import (
	"github.com/parquet-go/parquet-go"

	"flowetl/internal/errors"
	"flowetl/internal/flow"
	"flowetl/internal/smoothing"
)

// Parquet row shapes mirror the CSV column schemas; timestamps keep their
// canonical text form so every format round-trips identically.
type tickRow struct {
	Timestamp string  `parquet:"timestamp"`
	LTP       float64 `parquet:"ltp"`
}

type execRow struct {
	Timestamp string  `parquet:"timestamp"`
	Price     float64 `parquet:"price"`
	Side      string  `parquet:"side"`
	Size      float64 `parquet:"size"`
}

type flowRow struct {
	Timestamp string  `parquet:"timestamp"`
	Size      float64 `parquet:"size"`
}

type smoothedRow struct {
	Timestamp string  `parquet:"timestamp"`
	Size      float64 `parquet:"size"`
	Alpha     float64 `parquet:"alpha"`
	EWMA      float64 `parquet:"ewma"`
	EWMStd    float64 `parquet:"ewmstd"`
}

// ParquetWriter persists artifact tables as Parquet files.
type ParquetWriter struct{}

// Extension returns the file extension for Parquet artifacts.
func (ParquetWriter) Extension() string { return "parquet" }

// WriteTicks writes the tick table.
func (ParquetWriter) WriteTicks(path string, ticks []flow.Tick) error {
	rows := make([]tickRow, 0, len(ticks))
	for _, tk := range ticks {
		rows = append(rows, tickRow{
			Timestamp: formatTimestamp(tk.Timestamp),
			LTP:       tk.LTP,
		})
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return errors.NewWrite("write parquet artifact", path, err)
	}
	return nil
}

// WriteExecutions writes the raw execution table.
func (ParquetWriter) WriteExecutions(path string, executions []flow.Execution) error {
	rows := make([]execRow, 0, len(executions))
	for _, e := range executions {
		rows = append(rows, execRow{
			Timestamp: formatTimestamp(e.Timestamp),
			Price:     e.Price,
			Side:      string(e.Side),
			Size:      e.Size,
		})
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return errors.NewWrite("write parquet artifact", path, err)
	}
	return nil
}

// WriteFlows writes the per-timestamp net-flow table.
func (ParquetWriter) WriteFlows(path string, points []flow.FlowPoint) error {
	rows := make([]flowRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, flowRow{
			Timestamp: formatTimestamp(p.Timestamp),
			Size:      p.Size,
		})
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return errors.NewWrite("write parquet artifact", path, err)
	}
	return nil
}

// WriteSmoothed writes the smoothing result table.
func (ParquetWriter) WriteSmoothed(path string, points []smoothing.SmoothedPoint) error {
	rows := make([]smoothedRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, smoothedRow{
			Timestamp: formatTimestamp(p.Timestamp),
			Size:      p.Size,
			Alpha:     p.Alpha,
			EWMA:      p.EWMA,
			EWMStd:    p.EWMStd,
		})
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return errors.NewWrite("write parquet artifact", path, err)
	}
	return nil
}
