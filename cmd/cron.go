package cmd

import (
	"fmt"
	"strings"

	"github.com/adhocore/gronx"
)

// validateCron checks whether the --cron expression is valid.
// Enforces exactly 5 fields (minute hour day-of-month month day-of-week).
// Returns an error for invalid expressions (empty, wrong field count,
// invalid values).
func validateCron(expr string) error {
	if expr == "" {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	// Enforce exactly 5 fields; gronx.IsValid also accepts 6-field
	// expressions with seconds.
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	if !gronx.IsValid(expr) {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}
