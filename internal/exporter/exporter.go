package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"flowetl/internal/errors"
	"flowetl/internal/flow"
	"flowetl/internal/smoothing"
)

// Exporter writes the four artifact tables of one run into a directory,
// in a single configured format. Failures are fatal and not retried;
// artifacts already written stay in place.
type Exporter struct {
	dir    string
	writer TableWriter
	logger *slog.Logger
}

// New creates an exporter writing into dir with the named format.
func New(dir, format string, logger *slog.Logger) (*Exporter, error) {
	writer, err := NewTableWriter(format)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{dir: dir, writer: writer, logger: logger}, nil
}

// Path returns the full artifact path for a table base name.
func (e *Exporter) Path(artifact string) string {
	return filepath.Join(e.dir, artifact+"."+e.writer.Extension())
}

// Export persists all four tables. Pass-through tables keep store order; the
// flow and smoothed tables arrive already sorted by their producers.
func (e *Exporter) Export(
	ctx context.Context,
	ticks []flow.Tick,
	executions []flow.Execution,
	flows []flow.FlowPoint,
	smoothed []smoothing.SmoothedPoint,
) error {
	start := time.Now()

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return errors.NewWrite("create output directory", e.dir, err)
	}

	steps := []struct {
		artifact string
		rows     int
		write    func(path string) error
	}{
		{TickArtifact, len(ticks), func(p string) error { return e.writer.WriteTicks(p, ticks) }},
		{ExecArtifact, len(executions), func(p string) error { return e.writer.WriteExecutions(p, executions) }},
		{FlowArtifact, len(flows), func(p string) error { return e.writer.WriteFlows(p, flows) }},
		{SmoothedArtifact, len(smoothed), func(p string) error { return e.writer.WriteSmoothed(p, smoothed) }},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return fmt.Errorf("export cancelled: %w", ctx.Err())
		default:
		}

		path := e.Path(step.artifact)
		if err := step.write(path); err != nil {
			return err
		}
		e.logger.InfoContext(ctx, "artifact written",
			"table", step.artifact,
			"path", path,
			"rows", step.rows,
		)
	}

	e.logger.InfoContext(ctx, "export completed",
		"dir", e.dir,
		"format", e.writer.Extension(),
		"duration", time.Since(start),
	)

	return nil
}
