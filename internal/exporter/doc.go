// Package exporter is the artifact writer: it persists the tick, execution,
// net-flow, and smoothing tables of one run with fixed column schemas and
// stable column order. The tabular format (csv, parquet, xlsx) is selected
// by name; every format emits the same columns with the same canonical
// timestamp text, so a written table reloads to identical values.
package exporter
