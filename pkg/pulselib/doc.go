// Package pulselib provides periodic notification primitives for pulse.
// It implements an IntervalTrigger that fires a named event to registered
// listeners at a configurable interval, automatically arming itself while
// the interval is positive and at least one listener exists, and going
// dormant otherwise.
//
// The trigger composes two smaller pieces that are usable on their own:
// an EventBus doing synchronous publish/subscribe fan-out where listener
// identity is the (handler, context) pair, and a CallScheduler running
// deferred calls on a single goroutine using a min-heap sorted by due
// time, with a 60-second max-sleep-cap to handle NTP steps, DST
// transitions, and system sleep (macOS monotonic clock pause).
//
// Nothing here persists state: triggers, subscriptions and pending calls
// live only in memory and die with the process.
package pulselib
