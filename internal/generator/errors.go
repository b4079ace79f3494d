package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds carried by ToolError. Use errors.Is to test for them.
var (
	ErrToolMissing = errors.New("tool not found")
	ErrToolFailed  = errors.New("tool failed")
	ErrToolTimeout = errors.New("tool timed out")
)

// ToolError describes a failed external tool invocation.
type ToolError struct {
	Tool     string   // display name, e.g. "create-react-app"
	Command  string   // executable looked up on PATH
	Args     []string
	Kind     error // one of ErrToolMissing, ErrToolFailed, ErrToolTimeout
	ExitCode int   // -1 when the process never exited normally
	Err      error // underlying cause, may be nil
}

func (e *ToolError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s (%s): %v", e.Tool, cmdline, e.Kind)
	if e.Kind == ErrToolFailed && e.ExitCode > 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a short label for the error kind, used in reports and
// structured logs.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrToolMissing):
		return "missing"
	case errors.Is(err, ErrToolTimeout):
		return "timeout"
	case errors.Is(err, ErrToolFailed):
		return "failed"
	default:
		return "error"
	}
}
