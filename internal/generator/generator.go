package generator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Invocation describes one external tool run.
type Invocation struct {
	Name    string   // display name; defaults to Command
	Command string   // executable name, resolved through PATH
	Args    []string // passed verbatim, no shell
	Dir     string   // working directory of the child process
	Timeout time.Duration
}

func (inv Invocation) displayName() string {
	if inv.Name != "" {
		return inv.Name
	}
	return inv.Command
}

// Output captures the result of a tool execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes external tools.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Output, error)
}

// waitDelay bounds how long Run waits for output pipes after the process is
// killed on timeout or cancellation.
const waitDelay = 2 * time.Second

// ExecRunner runs tools as child processes.
type ExecRunner struct {
	// Stdout and Stderr receive the child's streams as they are produced;
	// defaults to os.Stdout/os.Stderr. Output is captured either way.
	Stdout io.Writer
	Stderr io.Writer

	// LookPath resolves commands; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// Quiet returns an ExecRunner that only captures output.
func Quiet() *ExecRunner {
	return &ExecRunner{Stdout: io.Discard, Stderr: io.Discard}
}

// Run resolves inv.Command on PATH and executes it in inv.Dir, blocking until
// it exits, times out or ctx is cancelled. Any failure is a *ToolError.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Output, error) {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	bin, err := lookPath(inv.Command)
	if err != nil {
		return nil, &ToolError{
			Tool:     inv.displayName(),
			Command:  inv.Command,
			Args:     inv.Args,
			Kind:     ErrToolMissing,
			ExitCode: -1,
			Err:      err,
		}
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = waitDelay

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	start := time.Now()
	err = cmd.Run()

	output := &Output{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		output.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return output, nil
	}

	toolErr := &ToolError{
		Tool:     inv.displayName(),
		Command:  inv.Command,
		Args:     inv.Args,
		Kind:     ErrToolFailed,
		ExitCode: output.ExitCode,
		Err:      err,
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		toolErr.Kind = ErrToolTimeout
		toolErr.Err = ctx.Err()
	case ctx.Err() != nil:
		toolErr.Err = ctx.Err()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Exit status is carried by ExitCode; drop the duplicate text.
			toolErr.Err = nil
		}
	}
	return output, toolErr
}
