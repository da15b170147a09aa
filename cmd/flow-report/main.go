// Command flow-report converts the raw trade-execution and price-tick records
// in a recorder-produced SQLite database into analysis-ready tables and a
// faceted chart of exponentially smoothed net order flow.
//
// It is a one-shot batch job: load, sign, aggregate, smooth, write, exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flowetl/internal/config"
	"flowetl/internal/errors"
	"flowetl/internal/exporter"
	"flowetl/internal/flow"
	"flowetl/internal/infrastructure"
	"flowetl/internal/plot"
	"flowetl/internal/smoothing"
	"flowetl/internal/store"
)

const version = "v0.1.0"

const chartFile = "ewma.png"

func main() {
	sqlitePath := flag.String("sqlite", "", "path to the SQLite database (default "+config.DefaultDatabasePath+")")
	outDir := flag.String("out", "", "output directory for artifacts (default current directory)")
	format := flag.String("format", "", "artifact format: csv, parquet, or xlsx (default csv)")
	alphaList := flag.String("alpha", "", "comma-separated decay parameters (default 0.01,0.05,0.1)")
	noChart := flag.Bool("no-chart", false, "skip rendering the smoothing chart")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flow-report %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flow-report: %v\n", err)
		os.Exit(errors.ExitUsage)
	}

	if err := applyFlags(cfg, *sqlitePath, *outDir, *format, *alphaList, *noChart, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "flow-report: %v\n", err)
		os.Exit(errors.ExitCodeFor(err))
	}

	logger, closeLog, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flow-report: %v\n", err)
		os.Exit(errors.ExitFailure)
	}
	defer closeLog()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(errors.ExitCodeFor(err))
	}
}

// applyFlags overlays explicit command-line values onto the loaded
// configuration and re-validates the result.
func applyFlags(cfg *config.Config, sqlitePath, outDir, format, alphaList string, noChart, debug bool) error {
	if sqlitePath != "" {
		cfg.Database.Path = sqlitePath
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if alphaList != "" {
		alphas, err := parseAlphas(alphaList)
		if err != nil {
			return err
		}
		cfg.Smoothing.Alphas = alphas
	}
	if noChart {
		cfg.Output.Chart = false
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return errors.NewArgumentf("%v", err)
	}
	return nil
}

// parseAlphas parses a comma-separated decay parameter list.
func parseAlphas(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	alphas := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		a, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.NewArgumentf("invalid decay parameter %q", part)
		}
		alphas = append(alphas, a)
	}
	if len(alphas) == 0 {
		return nil, errors.NewArgument("decay parameter list is empty")
	}
	return alphas, nil
}

// run executes the batch pipeline: one sequential pass, nothing retried.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()

	logger.InfoContext(ctx, "starting flow report",
		"database", cfg.Database.Path,
		"out_dir", cfg.Output.Dir,
		"format", cfg.Output.Format,
		"alphas", cfg.Smoothing.Alphas,
	)

	// Constructed up front so a bad output format fails before any load.
	export, err := exporter.New(cfg.Output.Dir, cfg.Output.Format, logger)
	if err != nil {
		return err
	}

	engine, err := smoothing.NewEngine(cfg.Smoothing.Alphas, logger)
	if err != nil {
		return errors.NewArgumentf("%v", err)
	}

	executions, ticks, err := store.New(cfg.Database.Path, logger).Load(ctx)
	if err != nil {
		return err
	}

	flows, err := flow.Aggregate(executions)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "aggregated net flow",
		"executions", len(executions),
		"flow_points", len(flows),
	)

	smoothed, err := engine.Smooth(ctx, flows)
	if err != nil {
		return err
	}

	if err := export.Export(ctx, ticks, executions, flows, smoothed); err != nil {
		return err
	}

	if cfg.Output.Chart {
		chartPath := filepath.Join(cfg.Output.Dir, chartFile)
		if err := plot.RenderEWMA(chartPath, smoothed, logger); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "flow report completed",
		"ticks", len(ticks),
		"executions", len(executions),
		"flow_points", len(flows),
		"smoothed_points", len(smoothed),
		"duration", time.Since(start),
	)

	return nil
}
