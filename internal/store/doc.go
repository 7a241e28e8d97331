// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic: the PostgreSQL and SQLite packages under
// internal/platform implement them with explicit parameterized queries.
package store
