package smoothing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"flowetl/internal/flow"
)

// SmoothedPoint is one smoothing result: the exponentially weighted mean and
// bias-corrected standard deviation of the flow series at one instant, for
// one decay parameter. Points where the standard deviation is undefined are
// never materialized.
type SmoothedPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Size      float64   `json:"size"`  // net flow value at this instant
	Alpha     float64   `json:"alpha"` // decay parameter that produced this row
	EWMA      float64   `json:"ewma"`
	EWMStd    float64   `json:"ewmstd"`
}

// Engine computes exponentially weighted means and standard deviations of an
// ordered net-flow series for a fixed set of decay parameters. Each alpha is
// an independent computation; duplicates in the set are computed twice.
type Engine struct {
	alphas []float64
	logger *slog.Logger
}

// NewEngine creates a smoothing engine for the given decay parameters.
// Every alpha must satisfy 0 < alpha <= 1 and the set must be non-empty.
func NewEngine(alphas []float64, logger *slog.Logger) (*Engine, error) {
	if len(alphas) == 0 {
		return nil, fmt.Errorf("no decay parameters configured")
	}
	for i, a := range alphas {
		if a <= 0 || a > 1 || math.IsNaN(a) {
			return nil, fmt.Errorf("decay parameter %d out of range (0, 1]: %v", i, a)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{alphas: alphas, logger: logger}, nil
}

// Alphas returns the configured decay parameters in their configured order.
func (e *Engine) Alphas() []float64 {
	return e.alphas
}

// Smooth computes the smoothed series for every configured alpha over the
// ordered flow points. The result is the concatenation of the per-alpha
// subsequences in configured alpha order; each subsequence preserves the
// ascending timestamp order of the input. An empty input produces an empty
// result for every alpha with no error.
func (e *Engine) Smooth(ctx context.Context, points []flow.FlowPoint) ([]SmoothedPoint, error) {
	start := time.Now()

	e.logger.InfoContext(ctx, "starting flow smoothing",
		"alphas", e.alphas,
		"flow_points", len(points),
	)

	if len(points) == 0 {
		return nil, nil
	}

	var results []SmoothedPoint
	for _, alpha := range e.alphas {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("smoothing cancelled: %w", ctx.Err())
		default:
		}

		series := smoothSeries(alpha, points)
		e.logger.DebugContext(ctx, "smoothed series computed",
			"alpha", alpha,
			"emitted", len(series),
			"dropped", len(points)-len(series),
		)
		results = append(results, series...)
	}

	e.logger.InfoContext(ctx, "flow smoothing completed",
		"duration", time.Since(start),
		"total_points", len(results),
	)

	return results, nil
}

// ewmState is the per-alpha running state, updated once per incoming point.
// It carries everything the recurrences need so that no per-index weight
// arrays or history replays are required.
type ewmState struct {
	s    float64 // weighted cumulative value
	w    float64 // weighted cumulative mass
	wsq  float64 // weighted cumulative squared mass
	d    float64 // weighted sum of squared deviations from the current mean
	mean float64 // mean after the most recent update
	n    int     // number of points consumed
}

// update folds one value into the state and returns the new weighted mean
// plus the bias-corrected standard deviation. ok is false while the variance
// is undefined: always for the first point, and for every point when the
// decay factor is zero (alpha = 1).
func (st *ewmState) update(x, alpha float64) (mean, std float64, ok bool) {
	decay := 1 - alpha
	prevW := st.w
	prevMean := st.mean

	st.s = x + decay*st.s
	st.w = 1 + decay*st.w
	st.wsq = 1 + decay*decay*st.wsq
	mean = st.s / st.w

	// Incremental update of the weighted sum of squared deviations from the
	// current mean. Exactly equivalent to recomputing the full weighted sum
	// each step.
	if st.n > 0 {
		delta := x - prevMean
		st.d = decay*st.d + decay*prevW/st.w*delta*delta
	}

	st.mean = mean
	st.n++

	denom := st.w - st.wsq/st.w
	if denom <= 0 {
		return mean, 0, false
	}

	std = math.Sqrt(st.d / denom)
	if math.IsNaN(std) || math.IsInf(std, 0) {
		return mean, 0, false
	}
	return mean, std, true
}

// smoothSeries runs the recurrences for one alpha over the ordered series,
// emitting only the points whose standard deviation is defined.
func smoothSeries(alpha float64, points []flow.FlowPoint) []SmoothedPoint {
	var st ewmState
	var out []SmoothedPoint

	for _, p := range points {
		mean, std, ok := st.update(p.Size, alpha)
		if !ok {
			continue
		}
		out = append(out, SmoothedPoint{
			Timestamp: p.Timestamp,
			Size:      p.Size,
			Alpha:     alpha,
			EWMA:      mean,
			EWMStd:    std,
		})
	}

	return out
}
