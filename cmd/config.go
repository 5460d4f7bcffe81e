package cmd

import "time"

const (
	DEF_INTERVAL     = time.Second
	DEF_REFRESH_RATE = time.Millisecond * 30
)

const DESCRIPTION = `
Pulse is a small periodic-notification utility. It arms an interval
trigger that fans every tick out to its registered listeners, and
renders the fired notifications live on your terminal.
`

const (
	WatchDescription = `The watch command arms an interval trigger and renders every
fired notification until you interrupt it.

By default it fires once per second; use --interval to change the
cadence or --cron to follow a cron expression instead. With --count
the run stops by itself after that many notifications.

Example:
        pulse watch --interval 500ms --count 10
                    OR
        pulse watch --cron "*/5 * * * *"

`
)
