package pulselib

import (
	"sync"
	"testing"
	"time"
)

// TestTriggerConcurrentMutators runs AddListener, RemoveListener and
// SetInterval from many goroutines while the real scheduler loop keeps
// ticking, verifying that evaluation never races with itself.
func TestTriggerConcurrentMutators(t *testing.T) {
	iterations := 100
	if testing.Short() {
		iterations = 10
	}

	tr := NewIntervalTrigger(time.Millisecond, nil)

	var mu sync.Mutex
	count := 0
	keep := func(event string, data interface{}) {
		mu.Lock()
		count++
		mu.Unlock()
	}
	tr.AddListener(keep, nil)

	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		wg.Add(3)

		go func(n int) {
			defer wg.Done()
			fn := func(event string, data interface{}) {}
			tr.AddListener(fn, n)
			tr.RemoveListener(fn, n)
		}(i)

		go func(n int) {
			defer wg.Done()
			tr.SetInterval(time.Duration(n%5+1) * time.Millisecond)
		}(i)

		go func() {
			defer wg.Done()
			tr.RemoveListener(keep, nil)
			tr.AddListener(keep, nil)
		}()
	}
	wg.Wait()

	tr.Destroy()
	// No panic = success
}

// TestTriggerDestroyDuringTicks destroys triggers while their ticks are
// in flight. The stale fire after destroy must stay silent and must not
// crash on the destroyed bus.
func TestTriggerDestroyDuringTicks(t *testing.T) {
	iterations := 50
	if testing.Short() {
		iterations = 10
	}

	for i := 0; i < iterations; i++ {
		tr := NewIntervalTrigger(time.Millisecond, nil)

		var mu sync.Mutex
		count := 0
		tr.AddListener(func(event string, data interface{}) {
			mu.Lock()
			count++
			mu.Unlock()
		}, nil)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.Destroy()
		}()
		go func() {
			defer wg.Done()
			tr.SetInterval(2 * time.Millisecond)
		}()
		wg.Wait()
	}
	// No panic = success
}

// TestTriggerNotificationsFreezeAfterDestroy verifies that once Destroy
// returns and in-flight delivery drains, no further notifications occur.
func TestTriggerNotificationsFreezeAfterDestroy(t *testing.T) {
	tr := NewIntervalTrigger(5*time.Millisecond, nil)

	var mu sync.Mutex
	count := 0
	tr.AddListener(func(event string, data interface{}) {
		mu.Lock()
		count++
		mu.Unlock()
	}, nil)

	time.Sleep(50 * time.Millisecond)
	tr.Destroy()

	// Allow the current round and the stale fire to drain
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	frozen := count
	mu.Unlock()

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != frozen {
		t.Errorf("expected count to freeze at %d after destroy, got %d", frozen, count)
	}
}

// TestBusConcurrentPubSub hammers one bus with subscribes, unsubscribes,
// publishes and listener checks from many goroutines.
func TestBusConcurrentPubSub(t *testing.T) {
	iterations := 100
	if testing.Short() {
		iterations = 20
	}

	b := NewEventBus(nil)

	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		wg.Add(4)

		go func(n int) {
			defer wg.Done()
			fn := func(event string, data interface{}) {}
			b.Subscribe("tick", fn, n)
			b.Unsubscribe("tick", fn, n)
		}(i)

		go func() {
			defer wg.Done()
			b.Publish("tick", nil)
		}()

		go func() {
			defer wg.Done()
			_ = b.HasListeners("tick")
		}()

		go func(n int) {
			defer wg.Done()
			if n == iterations-1 {
				b.Destroy()
			}
		}(i)
	}
	wg.Wait()
	// No panic = success
}

// TestSchedulerConcurrentScheduleCancel schedules and cancels from many
// goroutines while the loop fires, then stops the loop mid-traffic.
func TestSchedulerConcurrentScheduleCancel(t *testing.T) {
	iterations := 100
	if testing.Short() {
		iterations = 20
	}

	s := NewScheduler(nil)

	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			h := s.ScheduleDelayed(time.Millisecond, func() {})
			s.CancelDelayed(h)
		}()

		go func() {
			defer wg.Done()
			s.ScheduleDelayed(time.Duration(0), func() {})
		}()
	}
	wg.Wait()

	s.Stop()
	// Scheduling after stop must stay safe
	if h := s.ScheduleDelayed(time.Millisecond, func() {}); h != 0 {
		t.Errorf("expected zero handle after stop, got %d", h)
	}
	// No panic = success
}
