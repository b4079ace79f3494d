package generator

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX tools required")
	}
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available, skipping", name)
	}
}

func TestRunMissingTool(t *testing.T) {
	r := Quiet()
	_, err := r.Run(context.Background(), Invocation{
		Name:    "create-react-app",
		Command: "aenzbi-definitely-not-installed",
		Args:    []string{"create-react-app", "."},
	})
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
	if !errors.Is(err, ErrToolMissing) {
		t.Errorf("error = %v, want ErrToolMissing", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T, want *ToolError", err)
	}
	if toolErr.Tool != "create-react-app" {
		t.Errorf("Tool = %q, want create-react-app", toolErr.Tool)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("underlying cause should be exec.ErrNotFound, got %v", toolErr.Err)
	}
}

func TestRunLookPathOverride(t *testing.T) {
	lookupErr := errors.New("blocked")
	r := &ExecRunner{
		LookPath: func(string) (string, error) { return "", lookupErr },
	}
	_, err := r.Run(context.Background(), Invocation{Command: "npx"})
	if !errors.Is(err, ErrToolMissing) || !errors.Is(err, lookupErr) {
		t.Errorf("error = %v, want ErrToolMissing wrapping the lookup error", err)
	}
}

func TestRunSuccessStreamsAndCaptures(t *testing.T) {
	requireBinary(t, "sh")

	var stdout bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	dir := t.TempDir()

	out, err := r.Run(context.Background(), Invocation{
		Command: "sh",
		Args:    []string{"-c", "pwd; echo scaffolded"},
		Dir:     dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
	if !strings.Contains(out.Stdout, "scaffolded") {
		t.Errorf("captured stdout = %q", out.Stdout)
	}
	if stdout.String() != out.Stdout {
		t.Errorf("streamed stdout %q differs from captured %q", stdout.String(), out.Stdout)
	}

	// The child runs in Dir; compare resolved paths to tolerate symlinked temp dirs.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(strings.SplitN(out.Stdout, "\n", 2)[0]))
	if got != want {
		t.Errorf("child working directory = %q, want %q", got, want)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	requireBinary(t, "sh")

	r := Quiet()
	out, err := r.Run(context.Background(), Invocation{
		Name:    "flutter-create",
		Command: "sh",
		Args:    []string{"-c", "echo broken >&2; exit 42"},
	})
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("error = %v, want ErrToolFailed", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T", err)
	}
	if toolErr.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", toolErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "exit code 42") {
		t.Errorf("message should carry the exit code: %v", err)
	}
	if out == nil || !strings.Contains(out.Stderr, "broken") {
		t.Errorf("stderr should be captured, got %+v", out)
	}
}

func TestRunTimeout(t *testing.T) {
	requireBinary(t, "sleep")

	r := Quiet()
	start := time.Now()
	_, err := r.Run(context.Background(), Invocation{
		Command: "sleep",
		Args:    []string{"10"},
		Timeout: 100 * time.Millisecond,
	})
	if !errors.Is(err, ErrToolTimeout) {
		t.Fatalf("error = %v, want ErrToolTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestRunCancelled(t *testing.T) {
	requireBinary(t, "sleep")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Quiet().Run(ctx, Invocation{Command: "sleep", Args: []string{"10"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrToolTimeout) {
		t.Error("cancellation must not be reported as a timeout")
	}
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&ToolError{Kind: ErrToolMissing}, "missing"},
		{&ToolError{Kind: ErrToolFailed}, "failed"},
		{&ToolError{Kind: ErrToolTimeout}, "timeout"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		if got := KindName(tt.err); got != tt.want {
			t.Errorf("KindName(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
