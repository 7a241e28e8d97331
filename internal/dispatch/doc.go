// Package dispatch delivers due reminders.
//
// A Dispatcher polls the reminder store for reminders whose trigger time has
// passed and that are not yet sent, queues them for a fixed pool of workers,
// and marks each one sent after its Sender succeeds. A failed send leaves the
// reminder unsent so the next poll picks it up again; delivery is therefore
// at-least-once.
package dispatch
