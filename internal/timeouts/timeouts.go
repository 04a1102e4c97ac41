// Package timeouts defines the loop intervals and delays used while fighting
// the window manager for z-order and style control.
package timeouts

import "time"

const (
	// Engine loop intervals

	// EnforceInterval is how often the overlay is re-pinned above every other
	// window. Topmost is not sticky: any other topmost window raised later, or
	// a game switching display modes, silently buries the overlay again.
	EnforceInterval = 500 * time.Millisecond

	// AcquireInterval is how often the window list is scanned for the target
	// title while waiting for the game to be launched.
	AcquireInterval = 2 * time.Second

	// DiagnosticInterval is how often a diagnostic sample is recorded.
	DiagnosticInterval = 5 * time.Second

	// Shutdown

	// ShutdownGrace is how long the console control handler waits after
	// cancelling the engine before letting Windows tear the process down.
	ShutdownGrace = 500 * time.Millisecond

	// SchedulerIdleWait bounds how long the scheduler sleeps when it has
	// nothing due, so cancellation is noticed promptly.
	SchedulerIdleWait = time.Second
)
