// Package store is the record loader: it reads raw execution and price-tick
// rows from the SQLite database produced by the upstream stream recorder
// using two fixed projection queries. The store is read-only; the connection
// lives only for the duration of one Load call.
package store
