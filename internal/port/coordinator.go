package port

import (
	"context"
	"time"
)

// Coordinator drives the lifecycle of pending assets.
type Coordinator interface {
	// ProcessPending claims and processes one batch of pending assets and
	// returns the number that reached ready state. Per-asset failures are
	// persisted on the asset; only infrastructure failures are returned.
	ProcessPending(ctx context.Context) (int, error)
}

// Clock is an injectable time source so terminal timestamps are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// CommandRunner runs an external process and captures its combined output.
// It exists so unit tests can substitute deterministic stubs instead of
// spawning real binaries.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, err error)
}
