// Package domain contains the core entities of the to-do backend that this
// module persists: notifications raised for a user about a task, and
// reminders scheduled against a task. It is independent of any specific
// storage technology.
package domain
