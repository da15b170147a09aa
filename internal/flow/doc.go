// Package flow holds the trade-flow domain model: raw executions and price
// ticks as loaded from the store, the signing of executions into signed
// quantities, and the temporal aggregation of signed quantities into a
// gap-free net-flow series with one point per distinct timestamp.
package flow
