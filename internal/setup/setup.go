package setup

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aenzbi-labs/aenzbi/internal/generator"
	"github.com/aenzbi-labs/aenzbi/internal/layout"
	xlog "github.com/aenzbi-labs/aenzbi/internal/log"
	"github.com/aenzbi-labs/aenzbi/internal/scaffold"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Component names of the default layout.
const (
	ComponentBackend = "backend"
	ComponentWeb     = "web"
	ComponentMobile  = "mobile"
)

// Options configures a Scaffolder.
type Options struct {
	Root        string // invocation root; relative plan paths are joined to it
	ProjectName string
	Out         io.Writer        // progress lines; nil discards
	Runner      generator.Runner // defaults to a streaming generator.ExecRunner
	ToolTimeout time.Duration    // per tool; zero means no timeout
	Strict      bool             // abort on the first tool failure
	DryRun      bool             // print the plan, change nothing
	SkipTools   bool             // write files but do not run any tool
	RunID       string           // defaults to a random UUID
}

// Scaffolder runs the setup pipeline for one resolved layout.
type Scaffolder struct {
	opts   Options
	plan   *layout.Plan
	writer *scaffold.Writer
	logger zerolog.Logger
	report *Report
}

// New resolves l for opts.ProjectName and returns a Scaffolder ready to run.
func New(l *layout.Layout, opts Options) (*Scaffolder, error) {
	if opts.ProjectName == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Runner == nil {
		opts.Runner = &generator.ExecRunner{}
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	plan, err := l.Resolve(layout.NewData(opts.ProjectName, ""))
	if err != nil {
		return nil, fmt.Errorf("resolving layout %s: %w", l.Name, err)
	}

	return &Scaffolder{
		opts:   opts,
		plan:   plan,
		writer: &scaffold.Writer{Root: opts.Root, Out: opts.Out, DryRun: opts.DryRun},
		logger: xlog.WithComponent("setup").With().Str(xlog.FieldRunID, opts.RunID).Logger(),
		report: &Report{
			RunID:   opts.RunID,
			Project: opts.ProjectName,
			Root:    opts.Root,
			DryRun:  opts.DryRun,
		},
	}, nil
}

// Plan returns the resolved layout.
func (s *Scaffolder) Plan() *layout.Plan { return s.plan }

// Report returns the results recorded so far.
func (s *Scaffolder) Report() *Report { return s.report }

// Run executes every step once, in order: directories, common files, then
// each component as listed in the layout. The Report is returned even when
// a step fails.
func (s *Scaffolder) Run(ctx context.Context) (*Report, error) {
	s.printf("Setting up project: %s\n", s.opts.ProjectName)
	s.logger.Info().Str(xlog.FieldDir, s.opts.Root).Bool("dry_run", s.opts.DryRun).Msg("setup started")

	if err := s.CreateDirectories(ctx); err != nil {
		return s.report, err
	}
	if err := s.WriteCommonFiles(ctx); err != nil {
		return s.report, err
	}
	for _, c := range s.plan.Components {
		if err := s.SetupComponent(ctx, c.Name); err != nil {
			return s.report, err
		}
	}

	if warnings := s.report.Warnings(); len(warnings) > 0 {
		s.printf("\nWarnings:\n")
		for _, w := range warnings {
			s.printf("  - %s\n", w)
		}
		s.printf("\n")
	}
	s.printf("Project setup completed successfully!\n")
	s.logger.Info().Int("warnings", len(s.report.Warnings())).Msg("setup finished")
	return s.report, nil
}

// CreateDirectories ensures every layout directory exists. Re-running is a
// no-op for directories that are already present.
func (s *Scaffolder) CreateDirectories(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.writer.EnsureDirs(s.plan.Directories)
	s.record(StepResult{Name: StepDirectories, Dirs: result.Dirs})
	return err
}

// WriteCommonFiles writes README.md, .gitignore, .env.example and LICENSE
// (or whatever the layout lists) at the invocation root, replacing existing
// content.
func (s *Scaffolder) WriteCommonFiles(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.writer.WriteFiles(s.plan.Files)
	s.logWritten(StepCommonFiles, result.Files)
	s.record(StepResult{Name: StepCommonFiles, Files: result.Files})
	return err
}

// SetupBackend writes the backend entry point and the banking route stub.
func (s *Scaffolder) SetupBackend(ctx context.Context) error {
	return s.SetupComponent(ctx, ComponentBackend)
}

// SetupWeb runs the JS front-end generator and dependency install in the web
// directory, then writes the banking page component.
func (s *Scaffolder) SetupWeb(ctx context.Context) error {
	return s.SetupComponent(ctx, ComponentWeb)
}

// SetupMobile runs the mobile app generator in the mobile directory, then
// writes the application entry point.
func (s *Scaffolder) SetupMobile(ctx context.Context) error {
	return s.SetupComponent(ctx, ComponentMobile)
}

// SetupComponent runs the named component's tools in its directory, then
// writes its files. Tool failures are fatal only in strict mode.
func (s *Scaffolder) SetupComponent(ctx context.Context, name string) error {
	comp, ok := s.component(name)
	if !ok {
		return fmt.Errorf("layout %s has no %s component", s.plan.Name, name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Setting up %s in %s\n", comp.Name, filepath.ToSlash(comp.Dir))
	step := StepResult{Name: comp.Name}

	// Tools need their working directory even when the layout omits it.
	if err := s.writer.EnsureDir(comp.Dir); err != nil {
		s.record(step)
		return fmt.Errorf("setting up %s: %w", comp.Name, err)
	}

	for _, tool := range comp.Tools {
		tr := s.runTool(ctx, comp, tool)
		step.Tools = append(step.Tools, tr)
		if tr.Status == ToolFailed && (s.opts.Strict || ctx.Err() != nil) {
			s.record(step)
			return fmt.Errorf("setting up %s: %w", comp.Name, tr.Err)
		}
	}

	result, err := s.writer.WriteFiles(comp.Files)
	s.logWritten(comp.Name, result.Files)
	step.Files = result.Files
	s.record(step)
	if err != nil {
		return fmt.Errorf("setting up %s: %w", comp.Name, err)
	}
	return nil
}

func (s *Scaffolder) runTool(ctx context.Context, comp layout.PlannedComponent, tool layout.Tool) ToolResult {
	cmdline := strings.TrimSpace(tool.Command + " " + strings.Join(tool.Args, " "))
	tr := ToolResult{
		Component: comp.Name,
		Name:      tool.DisplayName(),
		Command:   tool.Command,
		Args:      tool.Args,
		Dir:       comp.Dir,
		ExitCode:  -1,
	}

	if s.opts.DryRun {
		s.printf("[dry-run] Would run: %s (in %s)\n", cmdline, filepath.ToSlash(comp.Dir))
		tr.Status = ToolSkipped
		return tr
	}
	if s.opts.SkipTools {
		s.printf("Skipping: %s\n", cmdline)
		tr.Status = ToolSkipped
		return tr
	}

	s.printf("Running: %s\n", cmdline)
	logger := s.logger.With().
		Str(xlog.FieldStep, comp.Name).
		Str(xlog.FieldTool, tr.Name).
		Str(xlog.FieldCommand, cmdline).
		Str(xlog.FieldDir, comp.Dir).
		Logger()
	logger.Debug().Msg("running tool")

	out, err := s.opts.Runner.Run(ctx, generator.Invocation{
		Name:    tr.Name,
		Command: tool.Command,
		Args:    tool.Args,
		Dir:     filepath.Join(s.opts.Root, comp.Dir),
		Timeout: s.opts.ToolTimeout,
	})
	if out != nil {
		tr.ExitCode = out.ExitCode
		tr.Duration = out.Duration
	}

	if err != nil {
		tr.Status = ToolFailed
		tr.Err = err
		logger.Warn().Err(err).
			Str(xlog.FieldKind, generator.KindName(err)).
			Int(xlog.FieldExitCode, tr.ExitCode).
			Dur(xlog.FieldDuration, tr.Duration).
			Msg("tool failed")
		s.printf("[WARN] %v\n", err)
		return tr
	}

	tr.Status = ToolOK
	logger.Debug().Int(xlog.FieldExitCode, tr.ExitCode).Dur(xlog.FieldDuration, tr.Duration).Msg("tool finished")
	return tr
}

func (s *Scaffolder) component(name string) (layout.PlannedComponent, bool) {
	for _, c := range s.plan.Components {
		if c.Name == name {
			return c, true
		}
	}
	return layout.PlannedComponent{}, false
}

func (s *Scaffolder) logWritten(step string, paths []string) {
	for _, p := range paths {
		s.logger.Debug().Str(xlog.FieldStep, step).Str(xlog.FieldPath, p).Bool("dry_run", s.opts.DryRun).Msg("wrote file")
	}
}

func (s *Scaffolder) record(step StepResult) {
	s.report.Steps = append(s.report.Steps, step)
}

func (s *Scaffolder) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.opts.Out, format, args...)
}
