package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	cmdCommon "github.com/warpdl/pulse/cmd/common"
	"github.com/warpdl/pulse/common"
	"github.com/warpdl/pulse/pkg/logger"
	"github.com/warpdl/pulse/pkg/pulselib"
)

func watch(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	params := &common.WatchParams{
		Interval:    interval,
		Cron:        cronExpr,
		Count:       count,
		Quiet:       quiet,
		Verbose:     verbose,
		IntervalSet: intervalWasSet(ctx),
	}
	if err := params.Validate(); err != nil {
		return cmdCommon.PrintErrWithCmdHelp(ctx, err)
	}
	if params.Mode() == common.MODE_CRON {
		if err := validateCron(params.Cron); err != nil {
			return cmdCommon.PrintErrWithCmdHelp(ctx, err)
		}
	}
	shCtx, cancel := setupShutdownHandler()
	defer cancel()
	outcome, fired, err := runWatch(shCtx, params, newWatchLogger(params.Verbose), os.Stdout)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "run", err)
		return nil
	}
	fmt.Printf("pulse: watch %s after %d notifications\n", outcome, fired)
	return nil
}

// intervalWasSet reports whether the interval came from an explicit flag
// or the environment rather than the built-in default.
func intervalWasSet(ctx *cli.Context) bool {
	return ctx.IsSet("interval") || ctx.GlobalIsSet("interval") ||
		os.Getenv(common.IntervalEnv) != ""
}

func newWatchLogger(verbose bool) logger.Logger {
	std := log.New(os.Stderr, "", log.LstdFlags)
	if verbose {
		return logger.NewVerboseLogger(std)
	}
	return logger.NewStandardLogger(std)
}

// runWatch drives one watch run to completion. It blocks until the count
// limit is reached or ctx is cancelled and reports the outcome together
// with the number of notifications observed. Progress rendering goes to
// out; a quiet run renders nothing.
func runWatch(ctx context.Context, params *common.WatchParams, l logger.Logger, out io.Writer) (common.WatchOutcome, uint64, error) {
	defer l.Close()

	var (
		mu    sync.Mutex
		fired uint64
	)
	done := make(chan struct{})
	var closeDone sync.Once

	var (
		p   *mpb.Progress
		bar *mpb.Bar
		tc  *TickCounter
	)
	if !params.Quiet {
		p = mpb.New(
			mpb.WithWidth(64),
			mpb.WithRefreshRate(DEF_REFRESH_RATE),
			mpb.WithOutput(out),
		)
		bar = cmdCommon.InitTickBar(p, "", int64(params.Count))
		tc = NewTickCounter(DEF_REFRESH_RATE)
		tc.SetBar(bar)
		tc.Start()
		defer tc.Stop()
	}

	onFire := func() {
		mu.Lock()
		if params.Count > 0 && fired >= params.Count {
			// Ticks between hitting the limit and teardown are dropped.
			mu.Unlock()
			return
		}
		fired++
		n := fired
		mu.Unlock()
		if tc != nil {
			tc.IncrBy(1)
		}
		if params.Count > 0 && n == params.Count {
			closeDone.Do(func() { close(done) })
		}
	}

	switch params.Mode() {
	case common.MODE_CRON:
		sched := pulselib.NewScheduler(&pulselib.SchedulerOpts{Logger: l})
		defer sched.Stop()
		if _, err := sched.ScheduleCron(params.Cron, onFire); err != nil {
			return "", 0, err
		}
		l.Info("watching cron %q", params.Cron)
	default:
		trigger := pulselib.NewIntervalTrigger(params.Interval, &pulselib.TriggerOpts{Logger: l})
		defer trigger.Destroy()
		trigger.AddListener(func(event string, data interface{}) { onFire() }, nil)
		l.Info("watching every %v", params.Interval)
	}

	outcome := common.WatchCompleted
	select {
	case <-done:
	case <-ctx.Done():
		outcome = common.WatchInterrupted
	}

	mu.Lock()
	total := fired
	mu.Unlock()

	if bar != nil {
		tc.Stop()
		if outcome == common.WatchCompleted && params.Count > 0 {
			bar.SetCurrent(int64(params.Count))
		} else {
			bar.Abort(true)
		}
		p.Wait()
	}
	return outcome, total, nil
}
