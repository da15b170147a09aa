package flow

import (
	"fmt"
	"sort"
)

// Aggregate reduces executions to one FlowPoint per distinct timestamp, the
// value being the sum of signed sizes sharing that instant. Input order does
// not matter; the result is sorted ascending by timestamp. Empty input yields
// an empty (non-nil error free) result.
func Aggregate(executions []Execution) ([]FlowPoint, error) {
	if len(executions) == 0 {
		return nil, nil
	}

	// Group by exact instant. UnixNano is a stable key for instants produced
	// by a single store; the time.Time is kept for the emitted point.
	sums := make(map[int64]float64, len(executions))
	instants := make(map[int64]FlowPoint, len(executions))

	for i, e := range executions {
		signed, err := SignedSize(e)
		if err != nil {
			return nil, fmt.Errorf("sign execution %d: %w", i, err)
		}
		key := e.Timestamp.UnixNano()
		sums[key] += signed
		if _, seen := instants[key]; !seen {
			instants[key] = FlowPoint{Timestamp: e.Timestamp}
		}
	}

	points := make([]FlowPoint, 0, len(sums))
	for key, p := range instants {
		p.Size = sums[key]
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	return points, nil
}
