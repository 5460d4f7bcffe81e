package pulselib

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adhocore/gronx"
	"github.com/benbjohnson/clock"
	"github.com/warpdl/pulse/pkg/logger"
)

const maxSleepCap = 60 * time.Second

// Scheduler runs callbacks after a delay. IntervalTrigger consumes this
// interface so triggers can share one loop or bring their own.
type Scheduler interface {
	// ScheduleDelayed runs fn once after delay and returns a handle
	// for cancellation. A zero handle means nothing was scheduled.
	ScheduleDelayed(delay time.Duration, fn func()) Handle
	// CancelDelayed cancels a pending call. Cancelling a fired,
	// unknown or zero handle is a no-op.
	CancelDelayed(h Handle)
}

// CallScheduler manages deferred calls using a min-heap.
// It runs a background goroutine that sleeps until the next call's
// due time, then invokes the callback on that same goroutine, so
// callbacks never run concurrently with each other.
//
// ScheduleDelayed and CancelDelayed never block, which makes them safe
// to call from inside a callback or while holding a caller-side lock.
type CallScheduler struct {
	mu   sync.Mutex
	heap callHeap
	// curID is the handle executing right now; curCancelled marks a
	// cancel that arrived mid-execution so recurring calls stop.
	curID        Handle
	curCancelled bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	clk    clock.Clock
	l      logger.Logger
	lastID atomic.Uint64
}

// Optional fields of the call scheduler.
type SchedulerOpts struct {
	// Clock substitutes the wall clock, letting tests drive
	// the loop deterministically with a mock.
	Clock clock.Clock
	// Logger receives panic reports and debug diagnostics.
	Logger logger.Logger
}

// NewScheduler creates and starts a new CallScheduler.
// The scheduler goroutine exits when Stop is called.
func NewScheduler(opts *SchedulerOpts) *CallScheduler {
	if opts == nil {
		opts = &SchedulerOpts{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &CallScheduler{
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		clk:    opts.Clock,
		l:      opts.Logger,
	}
	go s.run()
	return s
}

// ScheduleDelayed enqueues fn to run once after delay.
// A delay of zero or less runs fn on the loop goroutine as soon as
// possible. Scheduling a nil fn, or scheduling after Stop, returns
// the zero handle without enqueueing anything.
func (s *CallScheduler) ScheduleDelayed(delay time.Duration, fn func()) Handle {
	if fn == nil {
		return 0
	}
	select {
	case <-s.ctx.Done():
		s.l.Debug("dropping delayed call scheduled after stop")
		return 0
	default:
	}
	call := deferredCall{
		ID:    Handle(s.lastID.Add(1)),
		DueAt: s.clk.Now().Add(delay),
		Fn:    fn,
	}
	s.mu.Lock()
	heapPush(&s.heap, call)
	s.mu.Unlock()
	s.nudge()
	return call.ID
}

// ScheduleCron enqueues fn to run at every occurrence of the cron
// expression, starting from its next occurrence. The recurrence keeps
// the returned handle, so CancelDelayed stops all future runs.
func (s *CallScheduler) ScheduleCron(expr string, fn func()) (Handle, error) {
	next, err := nextCronOccurrence(expr, s.clk.Now())
	if err != nil {
		return 0, ErrBadCronExpr
	}
	if fn == nil {
		return 0, nil
	}
	select {
	case <-s.ctx.Done():
		return 0, ErrSchedulerStopped
	default:
	}
	call := deferredCall{
		ID:       Handle(s.lastID.Add(1)),
		DueAt:    next,
		CronExpr: expr,
		Fn:       fn,
	}
	s.mu.Lock()
	heapPush(&s.heap, call)
	s.mu.Unlock()
	s.nudge()
	return call.ID, nil
}

// CancelDelayed cancels a pending call by handle. A recurring call
// cancelled while its callback runs is not re-armed.
func (s *CallScheduler) CancelDelayed(h Handle) {
	if h == 0 {
		return
	}
	s.mu.Lock()
	removed := heapRemoveByID(&s.heap, h)
	if !removed && h == s.curID {
		s.curCancelled = true
	}
	s.mu.Unlock()
	if removed {
		s.nudge()
	}
}

// Stop terminates the scheduler goroutine. Pending calls never fire.
// Safe to call multiple times.
func (s *CallScheduler) Stop() {
	s.cancel()
}

// nudge wakes the run loop so it re-reads the heap. Never blocks.
func (s *CallScheduler) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the core scheduler goroutine implementing the active-object pattern.
// It sleeps until the earliest due time with a 60s max-sleep-cap, then pops
// and fires every due call. For recurring calls (CronExpr != ""), after
// firing it computes the next occurrence and re-adds it under the same
// handle automatically.
func (s *CallScheduler) run() {
	heap.Init(&s.heap)

	var timer *clock.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		s.mu.Lock()
		if s.heap.Len() == 0 {
			s.mu.Unlock()
			// No calls, block indefinitely until woken
			return nil
		}
		next := s.heap[0].DueAt
		s.mu.Unlock()
		dur := next.Sub(s.clk.Now())
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = s.clk.Timer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-s.wake:
			timerCh = resetTimer()

		case <-timerCh:
			// Pop and fire all calls whose time has arrived
			for {
				s.mu.Lock()
				if s.heap.Len() == 0 || s.heap[0].DueAt.After(s.clk.Now()) {
					s.mu.Unlock()
					break
				}
				call := heapPop(&s.heap)
				s.curID = call.ID
				s.curCancelled = false
				s.mu.Unlock()

				safeCall(s.l, "scheduler", call.Fn)

				s.mu.Lock()
				cancelled := s.curCancelled
				s.curID = 0
				s.mu.Unlock()

				if call.CronExpr == "" || cancelled {
					continue
				}
				// Recurring calls re-add the next cron occurrence under
				// the same handle so cancellation keeps working.
				next, err := nextCronOccurrence(call.CronExpr, s.clk.Now())
				if err != nil {
					continue
				}
				s.mu.Lock()
				heapPush(&s.heap, deferredCall{
					ID:       call.ID,
					DueAt:    next,
					CronExpr: call.CronExpr,
					Fn:       call.Fn,
				})
				s.mu.Unlock()
			}
			timerCh = resetTimer()
		}
	}
}

// nextCronOccurrence returns the next time the cron expression fires strictly
// after start. Uses gronx.NextTickAfter with inclRefTime=false.
func nextCronOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}

// Ensure CallScheduler satisfies the Scheduler interface.
var _ Scheduler = (*CallScheduler)(nil)
