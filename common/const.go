package common

type WatchMode string

const (
	MODE_INTERVAL WatchMode = "interval"
	MODE_CRON     WatchMode = "cron"
)

type WatchOutcome string

const (
	WatchCompleted   WatchOutcome = "completed"
	WatchInterrupted WatchOutcome = "interrupted"
)
