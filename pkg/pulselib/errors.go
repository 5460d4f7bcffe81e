package pulselib

import "errors"

var (
	ErrBadCronExpr = errors.New("cron expression you provided is invalid")

	ErrSchedulerStopped = errors.New("scheduler you are trying to use is already stopped")
)
