package setup

import (
	"time"

	"github.com/aenzbi-labs/aenzbi/internal/generator"
)

// Step names, in execution order.
const (
	StepDirectories = "directories"
	StepCommonFiles = "common-files"
)

// ToolStatus is the outcome of one external tool invocation.
type ToolStatus string

const (
	ToolOK      ToolStatus = "ok"
	ToolSkipped ToolStatus = "skipped"
	ToolFailed  ToolStatus = "failed"
)

// ToolResult records one external tool invocation.
type ToolResult struct {
	Component string
	Name      string
	Command   string
	Args      []string
	Dir       string
	Status    ToolStatus
	ExitCode  int
	Duration  time.Duration
	Err       error // *generator.ToolError when Status is ToolFailed
}

// Kind returns "ok", "skipped", "missing", "failed" or "timeout".
func (r ToolResult) Kind() string {
	if r.Status == ToolSkipped {
		return string(ToolSkipped)
	}
	return generator.KindName(r.Err)
}

// StepResult records one pipeline step.
type StepResult struct {
	Name  string
	Dirs  []string
	Files []string
	Tools []ToolResult
}

// Report summarizes a setup run.
type Report struct {
	RunID   string
	Project string
	Root    string
	DryRun  bool
	Steps   []StepResult
}

// Warnings returns one message per failed tool invocation.
func (r *Report) Warnings() []string {
	var warnings []string
	for _, tr := range r.ToolResults() {
		if tr.Status == ToolFailed {
			warnings = append(warnings, tr.Component+": "+tr.Err.Error())
		}
	}
	return warnings
}

// ToolResults flattens tool results across steps.
func (r *Report) ToolResults() []ToolResult {
	var all []ToolResult
	for _, s := range r.Steps {
		all = append(all, s.Tools...)
	}
	return all
}

// Step returns the result for the named step.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
