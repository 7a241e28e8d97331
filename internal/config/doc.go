// Package config handles configuration loading, parsing, and validation
// from config files and TODO_-prefixed environment variables. It provides
// type-safe access to the settings of the store backends, the logger and the
// reminder dispatcher.
package config
