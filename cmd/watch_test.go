package cmd

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/warpdl/pulse/common"
	"github.com/warpdl/pulse/pkg/logger"
	"github.com/warpdl/pulse/pkg/pulselib"
)

func TestRunWatchCompletesAtCount(t *testing.T) {
	params := &common.WatchParams{
		Interval: time.Millisecond * 10,
		Count:    3,
		Quiet:    true,
	}
	outcome, fired, err := runWatch(context.Background(), params, logger.NewNopLogger(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != common.WatchCompleted {
		t.Errorf("expected outcome %q, got %q", common.WatchCompleted, outcome)
	}
	if fired != 3 {
		t.Errorf("expected 3 notifications, got %d", fired)
	}
}

func TestRunWatchSingleFire(t *testing.T) {
	// Arming publishes immediately, so a count of 1 completes without
	// ever waiting a full interval.
	params := &common.WatchParams{
		Interval: time.Hour,
		Count:    1,
		Quiet:    true,
	}
	done := make(chan struct{})
	var (
		outcome common.WatchOutcome
		fired   uint64
		err     error
	)
	go func() {
		outcome, fired, err = runWatch(context.Background(), params, logger.NewNopLogger(), io.Discard)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("runWatch did not complete on the arming notification")
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != common.WatchCompleted {
		t.Errorf("expected outcome %q, got %q", common.WatchCompleted, outcome)
	}
	if fired != 1 {
		t.Errorf("expected 1 notification, got %d", fired)
	}
}

func TestRunWatchInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(time.Millisecond*50, cancel)

	params := &common.WatchParams{
		Interval: time.Millisecond * 10,
		Quiet:    true,
	}
	outcome, fired, err := runWatch(ctx, params, logger.NewNopLogger(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != common.WatchInterrupted {
		t.Errorf("expected outcome %q, got %q", common.WatchInterrupted, outcome)
	}
	// The arming notification fires before any interval elapses.
	if fired == 0 {
		t.Error("expected at least one notification before interruption")
	}
}

func TestRunWatchCronInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	params := &common.WatchParams{
		Cron:  "* * * * *",
		Quiet: true,
	}
	outcome, fired, err := runWatch(ctx, params, logger.NewNopLogger(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != common.WatchInterrupted {
		t.Errorf("expected outcome %q, got %q", common.WatchInterrupted, outcome)
	}
	if fired != 0 {
		t.Errorf("expected no notifications, got %d", fired)
	}
}

func TestRunWatchCronBadExpr(t *testing.T) {
	params := &common.WatchParams{
		Cron:  "61 * * * *",
		Quiet: true,
	}
	_, fired, err := runWatch(context.Background(), params, logger.NewNopLogger(), io.Discard)
	if !errors.Is(err, pulselib.ErrBadCronExpr) {
		t.Fatalf("expected ErrBadCronExpr, got: %v", err)
	}
	if fired != 0 {
		t.Errorf("expected no notifications, got %d", fired)
	}
}

func TestRunWatchWithProgress(t *testing.T) {
	// Non-quiet runs drive the mpb bar and tick counter.
	params := &common.WatchParams{
		Interval: time.Millisecond * 10,
		Count:    2,
	}
	outcome, fired, err := runWatch(context.Background(), params, logger.NewNopLogger(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != common.WatchCompleted {
		t.Errorf("expected outcome %q, got %q", common.WatchCompleted, outcome)
	}
	if fired != 2 {
		t.Errorf("expected 2 notifications, got %d", fired)
	}
}

func TestRunWatchUnboundedProgressInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(time.Millisecond*50, cancel)

	params := &common.WatchParams{
		Interval: time.Millisecond * 10,
	}
	outcome, _, err := runWatch(ctx, params, logger.NewNopLogger(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != common.WatchInterrupted {
		t.Errorf("expected outcome %q, got %q", common.WatchInterrupted, outcome)
	}
}
