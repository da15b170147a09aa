package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"flowetl/internal/flow"
)

// LoadFlowsCSV reads a flow-table CSV artifact back into memory. Downstream
// notebooks reload the table the same way; it also backs the round-trip
// guarantee that written timestamps parse to identical instants.
func LoadFlowsCSV(path string) ([]flow.FlowPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flow artifact: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read flow artifact: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("flow artifact is empty: %s", path)
	}
	if len(records[0]) != 2 || records[0][0] != "timestamp" || records[0][1] != "size" {
		return nil, fmt.Errorf("unexpected flow artifact header: %v", records[0])
	}

	points := make([]flow.FlowPoint, 0, len(records)-1)
	for i, record := range records[1:] {
		timestamp, err := time.Parse(time.RFC3339Nano, record[0])
		if err != nil {
			return nil, fmt.Errorf("parse timestamp (row %d): %w", i+2, err)
		}
		size, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse size (row %d): %w", i+2, err)
		}
		points = append(points, flow.FlowPoint{Timestamp: timestamp.UTC(), Size: size})
	}

	return points, nil
}
