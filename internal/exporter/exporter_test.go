package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flowerrors "flowetl/internal/errors"
	"flowetl/internal/flow"
	"flowetl/internal/smoothing"
)

func sampleData() ([]flow.Tick, []flow.Execution, []flow.FlowPoint, []smoothing.SmoothedPoint) {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 123456789, time.UTC)
	t1 := t0.Add(time.Second)
	t2 := t0.Add(2 * time.Second)

	ticks := []flow.Tick{
		{Timestamp: t0, LTP: 700080},
		{Timestamp: t1, LTP: 700150.5},
	}
	executions := []flow.Execution{
		{Timestamp: t0, Price: 700100, Side: flow.SideBuy, Size: 0.3},
		{Timestamp: t1, Price: 700050, Side: flow.SideSell, Size: 0.1},
	}
	flows := []flow.FlowPoint{
		{Timestamp: t0, Size: 0.3},
		{Timestamp: t1, Size: -0.1},
		{Timestamp: t2, Size: 1.25},
	}
	smoothed := []smoothing.SmoothedPoint{
		{Timestamp: t1, Size: -0.1, Alpha: 0.5, EWMA: 0.03333, EWMStd: 0.2},
		{Timestamp: t2, Size: 1.25, Alpha: 0.5, EWMA: 0.7, EWMStd: 0.6},
	}
	return ticks, executions, flows, smoothed
}

func TestNewTableWriter(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"csv", "csv", false},
		{"CSV", "csv", false},
		{" parquet ", "parquet", false},
		{"xlsx", "xlsx", false},
		{"tsv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, err := NewTableWriter(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				kind, ok := flowerrors.KindOf(err)
				require.True(t, ok)
				assert.Equal(t, flowerrors.KindArgument, kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, w.Extension())
		})
	}
}

func TestExportWritesAllArtifacts(t *testing.T) {
	for _, format := range []string{"csv", "parquet", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			e, err := New(dir, format, nil)
			require.NoError(t, err)

			ticks, executions, flows, smoothed := sampleData()
			require.NoError(t, e.Export(context.Background(), ticks, executions, flows, smoothed))

			for _, artifact := range []string{TickArtifact, ExecArtifact, FlowArtifact, SmoothedArtifact} {
				info, err := os.Stat(filepath.Join(dir, artifact+"."+format))
				require.NoError(t, err, "artifact %s missing", artifact)
				assert.Greater(t, info.Size(), int64(0))
			}
		})
	}
}

func TestExportCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	e, err := New(dir, "csv", nil)
	require.NoError(t, err)

	ticks, executions, flows, smoothed := sampleData()
	require.NoError(t, e.Export(context.Background(), ticks, executions, flows, smoothed))

	_, err = os.Stat(filepath.Join(dir, "df_tick.csv"))
	assert.NoError(t, err)
}

func TestCSVSchemas(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, "csv", nil)
	require.NoError(t, err)

	ticks, executions, flows, smoothed := sampleData()
	require.NoError(t, e.Export(context.Background(), ticks, executions, flows, smoothed))

	readHeader := func(name string) []string {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.NotEmpty(t, records)
		return records[0]
	}

	assert.Equal(t, []string{"timestamp", "ltp"}, readHeader("df_tick.csv"))
	assert.Equal(t, []string{"timestamp", "price", "side", "size"}, readHeader("df_exec.csv"))
	assert.Equal(t, []string{"timestamp", "size"}, readHeader("df_exec_delta.csv"))
	assert.Equal(t, []string{"timestamp", "size", "alpha", "ewma", "ewmstd"}, readHeader("df_ewm.csv"))
}

// TestFlowRoundTrip: writing the flow table and reloading it reproduces
// identical instants and values.
func TestFlowRoundTrip(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, "csv", nil)
	require.NoError(t, err)

	_, _, flows, _ := sampleData()
	require.NoError(t, e.Export(context.Background(), nil, nil, flows, nil))

	reloaded, err := LoadFlowsCSV(filepath.Join(dir, "df_exec_delta.csv"))
	require.NoError(t, err)
	require.Len(t, reloaded, len(flows))

	for i := range flows {
		assert.True(t, flows[i].Timestamp.Equal(reloaded[i].Timestamp),
			"row %d: want %v, got %v", i, flows[i].Timestamp, reloaded[i].Timestamp)
		assert.InDelta(t, flows[i].Size, reloaded[i].Size, 1e-12)
	}
}

func TestExportEmptyTables(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, "csv", nil)
	require.NoError(t, err)

	require.NoError(t, e.Export(context.Background(), nil, nil, nil, nil))

	f, err := os.Open(filepath.Join(dir, "df_ewm.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestExportUnwritableDestination(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not enforced the same way on windows")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	e, err := New(filepath.Join(dir, "out"), "csv", nil)
	require.NoError(t, err)

	ticks, executions, flows, smoothed := sampleData()
	err = e.Export(context.Background(), ticks, executions, flows, smoothed)
	require.Error(t, err)

	kind, ok := flowerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, flowerrors.KindWrite, kind)
}
