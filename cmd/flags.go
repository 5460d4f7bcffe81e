package cmd

import (
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/pulse/common"
)

var (
	interval time.Duration
	cronExpr string
	count    uint64
	quiet    bool
	verbose  bool
)

var watchFlags = []cli.Flag{
	cli.DurationFlag{
		Name:        "interval, i",
		Usage:       "time between notifications, e.g. 500ms, 2s, 1m",
		EnvVar:      common.IntervalEnv,
		Value:       DEF_INTERVAL,
		Destination: &interval,
	},
	cli.StringFlag{
		Name:        "cron, c",
		Usage:       "follow a 5-field cron expression instead of a fixed interval",
		Destination: &cronExpr,
	},
	cli.Uint64Flag{
		Name:        "count, n",
		Usage:       "stop after this many notifications (default: unlimited)",
		EnvVar:      common.CountEnv,
		Destination: &count,
	},
	cli.BoolFlag{
		Name:        "quiet, q",
		Usage:       "suppress the live progress display (default: false)",
		EnvVar:      common.QuietEnv,
		Destination: &quiet,
	},
	cli.BoolFlag{
		Name:        "verbose, d",
		Usage:       "emit debug logs of the trigger and scheduler (default: false)",
		EnvVar:      common.DebugEnv,
		Destination: &verbose,
	},
}
