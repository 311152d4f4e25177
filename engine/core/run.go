package core

import (
	"log/slog"
	"runtime"
)

// Run drives the host loop until done reports true. Each iteration waits for
// toolkit events, runs the loop's callbacks and tasks, then repaints.
func Run(loop *Loop, src EventSource, done func() bool) {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()

	iterations := 0
	for !done() {
		switch {
		case loop.Pending() > 0:
			src.PollEvents()
		case loop.Repeating() > 0:
			src.WaitEvents(loop.Interval())
		default:
			src.WaitEvents(0)
		}

		loop.Iterate()
		src.FlushRender()
		iterations++
	}

	slog.Debug("Host loop exit", slog.Int("iterations", iterations))
}
