package pulselib

import (
	"runtime/debug"

	"github.com/warpdl/pulse/pkg/logger"
)

// safeCall invokes fn with panic recovery.
// If l is non-nil, panics are logged with stack traces.
// Used by the scheduler goroutine so one panicking callback
// cannot kill the run loop.
func safeCall(l logger.Logger, context string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if l != nil {
				l.Error("PANIC [%s]: %v\n%s", context, r, debug.Stack())
			}
		}
	}()
	fn()
}
