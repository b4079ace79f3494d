package log

// Canonical field names for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldStep      = "step"
	FieldTool      = "tool"
	FieldCommand   = "command"
	FieldDir       = "dir"
	FieldPath      = "path"
	FieldExitCode  = "exit_code"
	FieldDuration  = "duration"
	FieldKind      = "kind"
)
