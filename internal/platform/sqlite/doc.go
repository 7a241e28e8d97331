// Package sqlite implements the store interfaces on an embedded SQLite
// database through sqlx and the pure-Go modernc.org/sqlite driver.
//
// Timestamps are stored as INTEGER Unix microseconds so that ordering and
// range comparisons are numeric. Booleans are stored as 0/1 integers.
package sqlite
