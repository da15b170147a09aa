package flow

import (
	"time"
)

// Side is the direction of a trade execution as recorded by the exchange feed.
type Side string

const (
	// SideBuy marks an execution lifted from the ask
	SideBuy Side = "BUY"
	// SideSell marks an execution hit on the bid
	SideSell Side = "SELL"
)

// IsValid reports whether the side is one of the two recorded directions.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Execution represents a single trade fill loaded from the store
type Execution struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Side      Side      `json:"side"`
	Size      float64   `json:"size"`
}

// Tick represents one price observation loaded from the store.
// It passes through the pipeline unchanged.
type Tick struct {
	Timestamp time.Time `json:"timestamp"`
	LTP       float64   `json:"ltp"` // last traded price
}

// FlowPoint is the net signed order flow at one instant. Timestamps are
// unique within a series and strictly increasing in emission order.
type FlowPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Size      float64   `json:"size"` // net signed size, negative for net selling
}
