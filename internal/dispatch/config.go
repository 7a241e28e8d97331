package dispatch

import (
	"time"

	"github.com/phrazzld/todo-api/internal/config"
)

// Config holds configuration for the dispatcher.
type Config struct {
	// PollInterval is the time between polls of the reminder store.
	PollInterval time.Duration

	// WorkerCount determines how many reminders are sent concurrently.
	WorkerCount int

	// QueueSize bounds how many due reminders wait for a worker. Reminders
	// that do not fit stay in the store for the next poll.
	QueueSize int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		WorkerCount:  2,
		QueueSize:    100,
	}
}

// ConfigFrom converts the application's dispatcher settings.
func ConfigFrom(cfg config.DispatcherConfig) Config {
	return Config{
		PollInterval: cfg.PollInterval,
		WorkerCount:  cfg.WorkerCount,
		QueueSize:    cfg.QueueSize,
	}
}

// withDefaults replaces non-positive values with the defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	return c
}
