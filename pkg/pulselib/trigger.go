package pulselib

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warpdl/pulse/pkg/logger"
)

// triggerEvent is the event id an IntervalTrigger publishes on its bus.
const triggerEvent = "pulse.tick"

// IntervalTrigger notifies registered listeners at a fixed interval.
// It stays armed only while the interval is positive and at least one
// listener is registered; outside that it keeps no scheduled call
// around. Arming happens through AddListener and SetInterval, both of
// which re-evaluate the trigger synchronously.
//
// The trigger owns its event bus outright. The scheduler is created
// internally unless one is supplied through TriggerOpts, in which case
// the caller keeps ownership and several triggers may share one loop.
type IntervalTrigger struct {
	mu sync.Mutex
	// effective cadence; zero or negative keeps the trigger dormant
	interval time.Duration
	// handle of the single outstanding scheduled call, zero when dormant
	pending Handle
	// bus carrying the trigger's listeners, destroyed with the trigger
	bus *EventBus
	// scheduler used for deferred evaluation calls
	sched Scheduler
	// owned is non-nil when the trigger created its own loop and
	// therefore has to release it again
	owned     *CallScheduler
	ownedDone bool
	destroyed bool
	id        string
	l         logger.Logger
}

// Optional fields of the interval trigger.
type TriggerOpts struct {
	// Scheduler runs the trigger's deferred evaluation calls.
	// When nil the trigger starts a private CallScheduler and stops
	// it again once destroyed and idle.
	Scheduler Scheduler
	// Logger receives debug diagnostics.
	Logger logger.Logger
}

// NewIntervalTrigger creates a trigger with the given interval.
// An interval of zero constructs the trigger dormant; a positive one
// arms it as soon as the first listener registers.
func NewIntervalTrigger(interval time.Duration, opts *TriggerOpts) *IntervalTrigger {
	if opts == nil {
		opts = &TriggerOpts{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	t := &IntervalTrigger{
		bus: NewEventBus(&EventBusOpts{Logger: opts.Logger}),
		id:  uuid.NewString(),
		l:   opts.Logger,
	}
	if opts.Scheduler != nil {
		t.sched = opts.Scheduler
	} else {
		t.owned = NewScheduler(&SchedulerOpts{Logger: opts.Logger})
		t.sched = t.owned
	}
	if interval != 0 {
		t.SetInterval(interval)
	}
	return t
}

// SetInterval changes the cadence of the trigger. Setting the value it
// already has is a no-op; any other value re-evaluates the trigger
// synchronously, which cancels the pending call and, while armed,
// notifies all listeners immediately before scheduling the next round.
// A non-positive interval disarms the trigger.
func (t *IntervalTrigger) SetInterval(interval time.Duration) {
	t.mu.Lock()
	if interval == t.interval {
		t.mu.Unlock()
		return
	}
	if interval > 0 && interval < time.Millisecond {
		t.l.Debug("trigger %s: interval %v is finer than a millisecond", t.id, interval)
	}
	t.interval = interval
	t.mu.Unlock()
	t.refresh()
}

// AddListener registers the (fn, ctx) pair and re-evaluates the
// trigger. When this registration arms the trigger, every listener is
// notified synchronously right away and then once per interval.
// Registering the same pair twice results in duplicate delivery.
// The context takes part in listener identity and must be comparable
// (typically a pointer to the owning object, or nil). Nil handlers are
// ignored.
func (t *IntervalTrigger) AddListener(fn EventHandlerFunc, ctx interface{}) {
	if fn == nil {
		return
	}
	t.bus.Subscribe(triggerEvent, fn, ctx)
	t.refresh()
}

// RemoveListener removes the registration matching the exact (fn, ctx)
// pair; removing an unknown pair is a silent no-op. The trigger is not
// re-evaluated: an already scheduled call still fires once, finds no
// listeners, and only then goes dormant.
func (t *IntervalTrigger) RemoveListener(fn EventHandlerFunc, ctx interface{}) {
	t.bus.Unsubscribe(triggerEvent, fn, ctx)
}

// Destroy tears the trigger down: the bus is destroyed, dropping all
// listeners, and the trigger stays dormant forever. A pending scheduled
// call is deliberately not cancelled; it fires once more, finds the
// destroyed bus empty, and goes dormant without publishing. Safe to
// call multiple times.
func (t *IntervalTrigger) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	t.bus.Destroy()
	stopOwned := t.owned != nil && t.pending == 0 && !t.ownedDone
	if stopOwned {
		t.ownedDone = true
	}
	t.mu.Unlock()
	if stopOwned {
		t.owned.Stop()
	}
	t.l.Debug("trigger %s destroyed", t.id)
}

// refresh is the trigger's evaluation step. It cancels the pending
// call, then either notifies listeners and schedules the next round
// (interval positive and listeners present) or goes dormant. It runs
// synchronously on whichever goroutine mutated the trigger, and on the
// scheduler goroutine for interval ticks.
func (t *IntervalTrigger) refresh() {
	t.mu.Lock()
	if t.pending != 0 {
		t.sched.CancelDelayed(t.pending)
		t.pending = 0
	}
	if t.interval <= 0 || !t.bus.HasListeners(triggerEvent) {
		// Dormant. Once destroyed and idle, the private loop can go too.
		stopOwned := t.destroyed && t.owned != nil && !t.ownedDone
		if stopOwned {
			t.ownedDone = true
		}
		t.mu.Unlock()
		if stopOwned {
			t.owned.Stop()
		}
		return
	}
	t.mu.Unlock()

	// Listeners run without any trigger lock held, so they are free to
	// add or remove listeners, change the interval, or publish again.
	t.bus.Publish(triggerEvent, nil)

	t.mu.Lock()
	if t.pending != 0 {
		// A listener re-armed the trigger mid-publish; fold that call
		// away so exactly one stays outstanding.
		t.sched.CancelDelayed(t.pending)
		t.pending = 0
	}
	// Listener count is deliberately not re-checked here: a listener
	// removing itself mid-publish still gets the trailing no-op fire.
	if t.interval > 0 && !t.destroyed {
		t.pending = t.sched.ScheduleDelayed(t.interval, t.refresh)
	}
	t.mu.Unlock()
}
