package pulselib

import (
	"reflect"
	"sync"

	"github.com/warpdl/pulse/pkg/logger"
)

// busListener is one (handler, context) registration on an event.
// fnPtr caches the handler's code pointer for pair matching.
type busListener struct {
	fn    EventHandlerFunc
	fnPtr uintptr
	ctx   interface{}
}

// EventBus is a synchronous publish/subscribe registry with a single
// default channel. Listeners are identified by the exact
// (handler, context) pair they were registered with; the context must
// be comparable (typically a pointer to the owning object, or nil).
//
// Publishing calls every listener in registration order on the caller's
// goroutine. Listeners may subscribe or unsubscribe during delivery;
// such changes take effect from the next publish.
type EventBus struct {
	mu        sync.RWMutex
	entries   map[string][]busListener
	destroyed bool
	l         logger.Logger
}

// Optional fields of the event bus.
type EventBusOpts struct {
	Logger logger.Logger
}

// NewEventBus creates an empty event bus.
func NewEventBus(opts *EventBusOpts) *EventBus {
	if opts == nil {
		opts = &EventBusOpts{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	return &EventBus{
		entries: make(map[string][]busListener),
		l:       opts.Logger,
	}
}

// Subscribe registers fn with the given context for the event.
// Registering the same pair again is allowed and results in duplicate
// delivery. Nil handlers and destroyed buses are silent no-ops.
func (b *EventBus) Subscribe(event string, fn EventHandlerFunc, ctx interface{}) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	b.entries[event] = append(b.entries[event], busListener{
		fn:    fn,
		fnPtr: reflect.ValueOf(fn).Pointer(),
		ctx:   ctx,
	})
}

// Unsubscribe removes the first registration matching the exact
// (handler, context) pair. Removing a pair that was never registered
// is a silent no-op.
//
// Handlers are matched by function code pointer, so distinct closures
// made from the same function literal compare equal; give such
// listeners distinct contexts to tell them apart.
func (b *EventBus) Unsubscribe(event string, fn EventHandlerFunc, ctx interface{}) {
	if fn == nil {
		return
	}
	fnPtr := reflect.ValueOf(fn).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	listeners := b.entries[event]
	for i, entry := range listeners {
		if entry.fnPtr == fnPtr && entry.ctx == ctx {
			b.entries[event] = append(listeners[:i], listeners[i+1:]...)
			if len(b.entries[event]) == 0 {
				delete(b.entries, event)
			}
			return
		}
	}
}

// Publish calls every listener of the event synchronously, in
// registration order, passing data along. Delivery runs over a snapshot
// of the registrations, so listeners mutating the bus (or re-publishing)
// mid-delivery never affect the current round.
func (b *EventBus) Publish(event string, data interface{}) {
	b.mu.RLock()
	if b.destroyed {
		b.mu.RUnlock()
		return
	}
	listeners := b.entries[event]
	if len(listeners) == 0 {
		b.mu.RUnlock()
		b.l.Debug("publish of %q found no listeners", event)
		return
	}
	snapshot := make([]busListener, len(listeners))
	copy(snapshot, listeners)
	b.mu.RUnlock()

	for _, entry := range snapshot {
		entry.fn(event, data)
	}
}

// HasListeners reports whether at least one listener is registered for
// the event. A destroyed bus reports false for every event.
func (b *EventBus) HasListeners(event string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.destroyed && len(b.entries[event]) > 0
}

// Destroy drops all registrations and makes the bus inert: subsequent
// Subscribe, Unsubscribe and Publish calls do nothing and HasListeners
// reports false. Safe to call multiple times.
func (b *EventBus) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.entries = nil
	b.l.Debug("event bus destroyed")
}
