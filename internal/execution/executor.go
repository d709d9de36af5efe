package execution

import (
	"context"
	"time"
)

// Executor runs a test executable and captures its output
type Executor interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) Result
}

// Result is the captured outcome of one process run
type Result struct {
	Output    string        // Everything written to standard output
	ErrOutput string        // Everything written to standard error
	ExitCode  int           // Exit code, -1 when the process did not exit on its own
	TimedOut  bool          // The process was killed after the timeout expired
	Duration  time.Duration // Time from start until both streams were drained
	Err       error         // Start failure or cancellation
}
