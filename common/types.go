package common

import (
	"errors"
	"time"
)

var (
	ErrNonPositiveInterval = errors.New("watch interval you provided is not positive")
	ErrCronWithInterval    = errors.New("flags --cron and --interval are mutually exclusive")
)

// WatchParams carries the resolved configuration of a watch run after
// flags and environment variables have been merged.
type WatchParams struct {
	Interval time.Duration
	Cron     string
	Count    uint64
	Quiet    bool
	Verbose  bool

	// IntervalSet marks that the interval came from an explicit flag or
	// environment variable rather than the built-in default.
	IntervalSet bool
}

// Mode reports whether the run is driven by a fixed interval or a cron
// expression. A non-empty Cron always selects cron mode.
func (w *WatchParams) Mode() WatchMode {
	if w.Cron != "" {
		return MODE_CRON
	}
	return MODE_INTERVAL
}

// Validate checks the parameter combination. Cron expression syntax is
// validated separately by the command layer.
func (w *WatchParams) Validate() error {
	if w.Cron != "" {
		if w.IntervalSet {
			return ErrCronWithInterval
		}
		return nil
	}
	if w.Interval <= 0 {
		return ErrNonPositiveInterval
	}
	return nil
}
