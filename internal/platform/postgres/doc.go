// Package postgres provides PostgreSQL-specific implementations of the
// NotificationStore and ReminderStore interfaces defined in internal/store.
// Every operation is a literal parameterized query executed through the pgx
// database/sql driver. The package also owns the schema migrations, embedded
// into the binary and applied with goose.
package postgres
