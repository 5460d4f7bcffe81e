// Package common provides shared types and constants used across the pulse
// command-line interface.
package common

// Environment variable names for configuration.
const (
	// IntervalEnv is the environment variable for the default watch interval.
	IntervalEnv = "PULSE_INTERVAL"

	// CountEnv is the environment variable for the default fire count limit.
	CountEnv = "PULSE_COUNT"

	// QuietEnv is the environment variable to suppress progress rendering.
	QuietEnv = "PULSE_QUIET"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "PULSE_DEBUG"
)
