package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"quaero/internal/logging"
)

// ForcedShutdownTimeout is how long the TUI gets to exit after a signal
// before the process exits anyway.
const ForcedShutdownTimeout = 5 * time.Second

// setupSignalHandler quits the program on SIGINT/SIGTERM. The returned
// function stops listening.
func (a *App) setupSignalHandler() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			logging.Debug("received signal", "signal", sig)

			forceExitTimer := time.AfterFunc(ForcedShutdownTimeout, func() {
				logging.Warn("forced shutdown due to timeout")
				os.Exit(1)
			})
			defer forceExitTimer.Stop()

			a.gracefulShutdown()

		case <-done:
			return

		case <-a.ctx.Done():
			return
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// gracefulShutdown aborts the pending search and asks the TUI to exit.
// Discover requests cannot be aborted; they are abandoned with the context.
func (a *App) gracefulShutdown() {
	if err := a.controller.Cancel(); err != nil {
		logging.Debug("no search to cancel", "error", err)
	}
	if a.program != nil {
		a.program.Quit()
	}
	a.cancel()
}
