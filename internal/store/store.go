package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"flowetl/internal/errors"
	"flowetl/internal/flow"
)

// Fixed source tables, as produced by the upstream stream recorder.
const (
	executionsTable = "lightning_executions_FX_BTC_JPY"
	tickerTable     = "lightning_ticker_FX_BTC_JPY"
)

// Fixed projection queries. Only these two reads ever touch the store.
const (
	executionsQuery = "SELECT exec_date, price, side, size FROM " + executionsTable
	ticksQuery      = "SELECT timestamp, ltp FROM " + tickerTable
)

// timestampLayouts are the text timestamp forms the recorder is known to
// persist, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02 15:04:05.9999999",
	"2006-01-02 15:04:05",
}

// Store reads execution and tick rows from a recorder-produced SQLite
// database. The connection is opened read-only inside Load and released
// before Load returns; no handle is held across calls.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a store for the database at path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load fetches both source tables in store order. Rows carry no ordering
// guarantee here; ordering is established downstream by the aggregator.
func (s *Store) Load(ctx context.Context) ([]flow.Execution, []flow.Tick, error) {
	start := time.Now()

	// The sqlite driver happily creates a missing file even in read-only
	// mode on some VFS setups, so check existence up front.
	if _, err := os.Stat(s.path); err != nil {
		return nil, nil, errors.NewDataSource("database not found", s.path, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", s.path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, errors.NewDataSource("open database", s.path, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, errors.NewDataSource("connect to database", s.path, err)
	}

	executions, err := s.loadExecutions(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	ticks, err := s.loadTicks(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "loaded source tables",
		"database", s.path,
		"executions", len(executions),
		"ticks", len(ticks),
		"duration", time.Since(start),
	)

	return executions, ticks, nil
}

func (s *Store) loadExecutions(ctx context.Context, db *sql.DB) ([]flow.Execution, error) {
	rows, err := db.QueryContext(ctx, executionsQuery)
	if err != nil {
		return nil, errors.NewDataSource("query executions", s.path, err)
	}
	defer rows.Close()

	var executions []flow.Execution
	for rows.Next() {
		var (
			ts    string
			price float64
			side  string
			size  float64
		)
		if err := rows.Scan(&ts, &price, &side, &size); err != nil {
			return nil, errors.NewDataSource("scan execution row", s.path, err)
		}

		timestamp, err := parseTimestamp(ts)
		if err != nil {
			return nil, errors.NewDataSource(
				fmt.Sprintf("parse execution timestamp %q", ts), s.path, err)
		}

		executions = append(executions, flow.Execution{
			Timestamp: timestamp,
			Price:     price,
			Side:      flow.Side(side),
			Size:      size,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataSource("iterate execution rows", s.path, err)
	}

	return executions, nil
}

func (s *Store) loadTicks(ctx context.Context, db *sql.DB) ([]flow.Tick, error) {
	rows, err := db.QueryContext(ctx, ticksQuery)
	if err != nil {
		return nil, errors.NewDataSource("query ticks", s.path, err)
	}
	defer rows.Close()

	var ticks []flow.Tick
	for rows.Next() {
		var (
			ts  string
			ltp float64
		)
		if err := rows.Scan(&ts, &ltp); err != nil {
			return nil, errors.NewDataSource("scan tick row", s.path, err)
		}

		timestamp, err := parseTimestamp(ts)
		if err != nil {
			return nil, errors.NewDataSource(
				fmt.Sprintf("parse tick timestamp %q", ts), s.path, err)
		}

		ticks = append(ticks, flow.Tick{Timestamp: timestamp, LTP: ltp})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataSource("iterate tick rows", s.path, err)
	}

	return ticks, nil
}

// parseTimestamp attempts the known recorder timestamp layouts in order.
// Layouts without a zone are taken as UTC, matching the exchange feed.
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", value)
}
