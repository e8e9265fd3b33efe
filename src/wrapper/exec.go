package wrapper

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// An Executor runs the commands the wrapper constructs.
type Executor struct {
	// Timeout bounds each subprocess; zero means no limit.
	Timeout time.Duration
}

// Run executes one invocation with our stdio attached, so compiler output
// reaches the build exactly as it would without the wrapper.
func (e *Executor) Run(ctx context.Context, inv Invocation) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	log.Debug("Running %s", inv)
	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ExitCode maps an error from Run back to the child's exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
