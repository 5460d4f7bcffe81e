package pulselib

import "time"

// Handle identifies a pending deferred call inside a scheduler.
// The zero Handle is never allocated and is safe to cancel.
type Handle uint64

// EventHandlerFunc is a function that receives published events.
// It takes the event name and the payload passed to Publish as arguments.
// The same function type is used for bus subscriptions and trigger
// listeners so a listener can be removed by the exact pair it was
// registered with.
type EventHandlerFunc func(event string, data interface{})

// deferredCall represents a pending call in the scheduler heap.
// It is an in-memory only type; nothing outlives the scheduler goroutine.
type deferredCall struct {
	// ID is the handle returned to the caller, used for cancellation.
	ID Handle
	// DueAt is the wall-clock time when the call should run.
	DueAt time.Time
	// CronExpr is the cron expression for recurring calls.
	// Empty string means one-shot, no re-scheduling after firing.
	CronExpr string
	// Fn is the callback to invoke on the scheduler goroutine.
	Fn func()
}
