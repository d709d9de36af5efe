package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// DefaultKillGrace is how long output may stay open once the process is gone
const DefaultKillGrace = 2 * time.Second

// Runner spawns test executables with redirected output
type Runner struct {
	// KillGrace bounds the wait for pipes to close after the process is
	// gone; a child process that inherited them can keep them open.
	KillGrace time.Duration
}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{KillGrace: DefaultKillGrace}
}

// Run executes name with args, draining stdout and stderr concurrently.
// The timeout bounds the wait for the process to exit; zero waits indefinitely.
// Output still held open by child processes is read for at most KillGrace
// after the exit.
func (r *Runner) Run(ctx context.Context, name string, args []string, timeout time.Duration) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)

	stdout, stdoutW, err := os.Pipe()
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdout.Close()
		_ = stdoutW.Close()
		return Result{ExitCode: -1, Err: fmt.Errorf("stderr pipe: %w", err)}
	}
	defer stdout.Close()
	defer stderr.Close()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	startTime := time.Now()
	err = cmd.Start()
	// The child owns its copies of the write ends
	_ = stdoutW.Close()
	_ = stderrW.Close()
	if err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("start %s: %w", name, err)}
	}

	// Both streams are drained from the start so a full pipe never blocks the child
	var outBuf, errBuf bytes.Buffer
	readers := pool.New().WithErrors()
	readers.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	readers.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	drained := make(chan error, 1)
	go func() {
		drained <- readers.Wait()
	}()

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	result := Result{ExitCode: -1}
	var waitErr error
	select {
	case waitErr = <-exited:
	case <-expired:
		result.TimedOut = true
		_ = cmd.Process.Kill()
		waitErr = <-exited
	}
	r.awaitDrain(drained, stdout, stderr)

	result.Duration = time.Since(startTime)
	result.Output = outBuf.String()
	result.ErrOutput = errBuf.String()

	if result.TimedOut {
		return result
	}
	if ctx.Err() != nil {
		result.Err = fmt.Errorf("run %s: %w", name, ctx.Err())
		return result
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		result.Err = fmt.Errorf("wait %s: %w", name, waitErr)
		return result
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return result
}

// awaitDrain waits for the readers once the process is gone, closing the
// pipes when child processes keep them open longer than the grace period.
func (r *Runner) awaitDrain(drained <-chan error, pipes ...io.Closer) {
	grace := r.KillGrace
	if grace <= 0 {
		grace = DefaultKillGrace
	}
	select {
	case <-drained:
	case <-time.After(grace):
		for _, p := range pipes {
			_ = p.Close()
		}
		<-drained
	}
}
