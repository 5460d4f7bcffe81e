package cmd

import (
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
)

// TickCounter batches fired notifications and flushes them into an mpb
// bar once per refresh cycle, keeping bar updates off the notify path.
type TickCounter struct {
	ticker *time.Ticker
	mu     *sync.Mutex
	// fires per cycle
	fpc int64
	// refresh rate
	refreshRate time.Duration
	// Bar
	bar *mpb.Bar
}

func NewTickCounter(refreshRate time.Duration) *TickCounter {
	tc := TickCounter{
		ticker:      time.NewTicker(refreshRate),
		mu:          &sync.Mutex{},
		refreshRate: refreshRate,
	}
	return &tc
}

func (t *TickCounter) SetBar(bar *mpb.Bar) {
	t.mu.Lock()
	t.bar = bar
	t.mu.Unlock()
}

func (t *TickCounter) Start() {
	go t.worker()
}

func (t *TickCounter) IncrBy(n int) {
	t.mu.Lock()
	t.fpc += int64(n)
	t.mu.Unlock()
}

func (t *TickCounter) Stop() {
	t.ticker.Stop()
}

func (t *TickCounter) worker() {
	for range t.ticker.C {
		t.mu.Lock()
		if t.fpc == 0 || t.bar == nil {
			t.mu.Unlock()
			continue
		}
		t.bar.EwmaIncrInt64(t.fpc, t.refreshRate)
		t.fpc = 0
		t.mu.Unlock()
	}
}
