package app

import (
	"fmt"
	"runtime/debug"

	"quaero/internal/logging"
)

// withRecovery runs fn and converts a panic into an error, so a crash inside
// the TUI still returns through Run and restores the terminal.
func withRecovery(operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("panic recovered", "operation", operation, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic in %s: %v", operation, r)
		}
	}()

	return fn()
}
