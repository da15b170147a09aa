package exporter

import (
	"strconv"
	"strings"
	"time"

	"flowetl/internal/errors"
	"flowetl/internal/flow"
	"flowetl/internal/smoothing"
)

// Artifact base names, matching what the upstream analysis notebooks expect.
const (
	TickArtifact     = "df_tick"
	ExecArtifact     = "df_exec"
	FlowArtifact     = "df_exec_delta"
	SmoothedArtifact = "df_ewm"
)

// Fixed column schemas. Order is part of the artifact contract.
var (
	tickHeaders     = []string{"timestamp", "ltp"}
	execHeaders     = []string{"timestamp", "price", "side", "size"}
	flowHeaders     = []string{"timestamp", "size"}
	smoothedHeaders = []string{"timestamp", "size", "alpha", "ewma", "ewmstd"}
)

// TableWriter persists one artifact table in a specific tabular format.
// Implementations never reorder rows; sorting is the caller's concern.
type TableWriter interface {
	Extension() string
	WriteTicks(path string, ticks []flow.Tick) error
	WriteExecutions(path string, executions []flow.Execution) error
	WriteFlows(path string, points []flow.FlowPoint) error
	WriteSmoothed(path string, points []smoothing.SmoothedPoint) error
}

// NewTableWriter selects the writer implementation by format name.
func NewTableWriter(format string) (TableWriter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVWriter{}, nil
	case "parquet":
		return ParquetWriter{}, nil
	case "xlsx":
		return XLSXWriter{}, nil
	default:
		return nil, errors.NewArgumentf("unsupported output format %q (use: csv, parquet, xlsx)", format)
	}
}

// formatTimestamp emits the canonical artifact timestamp form. RFC 3339 with
// nanoseconds parses back to the identical instant.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// formatFloat emits the shortest decimal that round-trips the value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func tickRecords(ticks []flow.Tick) [][]string {
	records := make([][]string, 0, len(ticks))
	for _, tk := range ticks {
		records = append(records, []string{
			formatTimestamp(tk.Timestamp),
			formatFloat(tk.LTP),
		})
	}
	return records
}

func execRecords(executions []flow.Execution) [][]string {
	records := make([][]string, 0, len(executions))
	for _, e := range executions {
		records = append(records, []string{
			formatTimestamp(e.Timestamp),
			formatFloat(e.Price),
			string(e.Side),
			formatFloat(e.Size),
		})
	}
	return records
}

func flowRecords(points []flow.FlowPoint) [][]string {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{
			formatTimestamp(p.Timestamp),
			formatFloat(p.Size),
		})
	}
	return records
}

func smoothedRecords(points []smoothing.SmoothedPoint) [][]string {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{
			formatTimestamp(p.Timestamp),
			formatFloat(p.Size),
			formatFloat(p.Alpha),
			formatFloat(p.EWMA),
			formatFloat(p.EWMStd),
		})
	}
	return records
}
