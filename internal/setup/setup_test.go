package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/aenzbi-labs/aenzbi/internal/generator"
	"github.com/aenzbi-labs/aenzbi/internal/layout"
	xlog "github.com/aenzbi-labs/aenzbi/internal/log"
	"github.com/google/go-cmp/cmp"
)

const project = "aenzbi-business"

// fakeRunner records invocations and fails the commands listed in fail.
type fakeRunner struct {
	calls []generator.Invocation
	fail  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, inv generator.Invocation) (*generator.Output, error) {
	f.calls = append(f.calls, inv)
	if err, ok := f.fail[inv.Command]; ok {
		return &generator.Output{ExitCode: 1}, err
	}
	return &generator.Output{ExitCode: 0}, nil
}

func (f *fakeRunner) commandLines() []string {
	var lines []string
	for _, c := range f.calls {
		lines = append(lines, strings.TrimSpace(c.Command+" "+strings.Join(c.Args, " ")))
	}
	return lines
}

func newScaffolder(t *testing.T, root string, opts Options) (*Scaffolder, *bytes.Buffer) {
	t.Helper()
	l, err := layout.Default()
	if err != nil {
		t.Fatalf("loading default layout: %v", err)
	}
	var out bytes.Buffer
	opts.Root = root
	opts.ProjectName = project
	opts.Out = &out
	s, err := New(l, opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s, &out
}

func TestRunFullPipeline(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	s, out := newScaffolder(t, root, Options{Runner: runner})

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	assertDirectorySet(t, root)
	for _, f := range []string{"README.md", ".gitignore", ".env.example", "LICENSE"} {
		assertExists(t, filepath.Join(root, f))
		if _, err := os.Stat(filepath.Join(root, project, f)); !os.IsNotExist(err) {
			t.Errorf("%s should be written at the invocation root, not inside %s", f, project)
		}
	}
	assertContains(t, readRootFile(t, root, "README.md"), "# aenzbi-business")
	assertContains(t, readFile(t, root, "backend", "app.py"), "DJANGO_SETTINGS_MODULE")
	assertContains(t, readFile(t, root, "backend", "api", "banking", "routes.py"), "'List of banking accounts'")
	assertContains(t, readFile(t, root, "web", "src", "pages", "Banking.js"), "<h1>Banking Module</h1>")
	assertContains(t, readFile(t, root, "mobile", "lib", "main.dart"), "title: 'Aenzbi-Business'")

	wantCalls := []string{
		"npx create-react-app .",
		"npm install react-router-dom axios",
		"flutter create .",
	}
	if diff := cmp.Diff(wantCalls, runner.commandLines()); diff != "" {
		t.Errorf("tool invocations mismatch (-want +got):\n%s", diff)
	}
	if got, want := runner.calls[0].Dir, filepath.Join(root, project, "web"); got != want {
		t.Errorf("web generator dir = %s, want %s", got, want)
	}
	if got, want := runner.calls[2].Dir, filepath.Join(root, project, "mobile"); got != want {
		t.Errorf("mobile generator dir = %s, want %s", got, want)
	}

	var steps []string
	for _, st := range report.Steps {
		steps = append(steps, st.Name)
	}
	if diff := cmp.Diff([]string{StepDirectories, StepCommonFiles, ComponentBackend, ComponentWeb, ComponentMobile}, steps); diff != "" {
		t.Errorf("step order mismatch (-want +got):\n%s", diff)
	}
	if len(report.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", report.Warnings())
	}

	text := out.String()
	if !strings.HasPrefix(text, "Setting up project: aenzbi-business\n") {
		t.Errorf("output should start with the project banner:\n%s", text)
	}
	if !strings.HasSuffix(text, "Project setup completed successfully!\n") {
		t.Errorf("output should end with the success message:\n%s", text)
	}
}

func TestRunDoesNotChangeWorkingDirectory(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	s, _ := newScaffolder(t, t.TempDir(), Options{Runner: &fakeRunner{}})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	after, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("working directory changed from %s to %s", before, after)
	}
}

// A missing web generator does not stop the run: setup still reports success.
func TestRunMissingWebGeneratorStillSucceeds(t *testing.T) {
	root := t.TempDir()
	runner := &generator.ExecRunner{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		LookPath: func(file string) (string, error) {
			return "", &osExecNotFound{name: file}
		},
	}
	s, out := newScaffolder(t, root, Options{Runner: runner})

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want best-effort success", err)
	}
	assertContains(t, out.String(), "Project setup completed successfully!")
	assertContains(t, out.String(), "[WARN] create-react-app")

	// Stub files are written even though the generators never ran.
	assertExists(t, filepath.Join(root, project, "web", "src", "pages", "Banking.js"))
	assertExists(t, filepath.Join(root, project, "mobile", "lib", "main.dart"))

	results := report.ToolResults()
	if len(results) != 3 {
		t.Fatalf("got %d tool results, want 3", len(results))
	}
	for _, tr := range results {
		if tr.Status != ToolFailed || tr.Kind() != "missing" {
			t.Errorf("%s: status=%s kind=%s, want failed/missing", tr.Name, tr.Status, tr.Kind())
		}
	}
	if got := len(report.Warnings()); got != 3 {
		t.Errorf("got %d warnings, want 3", got)
	}
}

func TestRunStrictAbortsOnToolFailure(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{fail: map[string]error{
		"npx": &generator.ToolError{Tool: "create-react-app", Command: "npx", Kind: generator.ErrToolMissing},
	}}
	s, out := newScaffolder(t, root, Options{Runner: runner, Strict: true})

	_, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected strict mode to fail")
	}
	if !errors.Is(err, generator.ErrToolMissing) {
		t.Errorf("error = %v, want ErrToolMissing", err)
	}
	if strings.Contains(out.String(), "completed successfully") {
		t.Error("strict failure must not print the success message")
	}
	if len(runner.calls) != 1 {
		t.Errorf("expected the run to stop after the first tool, got %v", runner.commandLines())
	}
	if _, err := os.Stat(filepath.Join(root, project, "mobile", "lib", "main.dart")); !os.IsNotExist(err) {
		t.Error("mobile stub should not be written after a strict failure")
	}
}

func TestRunFailedToolTimeoutKind(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"flutter": &generator.ToolError{Tool: "flutter-create", Command: "flutter", Kind: generator.ErrToolTimeout},
	}}
	s, _ := newScaffolder(t, t.TempDir(), Options{Runner: runner})

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	step, ok := report.Step(ComponentMobile)
	if !ok {
		t.Fatal("mobile step missing from report")
	}
	if got := step.Tools[0].Kind(); got != "timeout" {
		t.Errorf("kind = %s, want timeout", got)
	}
}

func TestRunTwiceIsSafe(t *testing.T) {
	root := t.TempDir()
	s, _ := newScaffolder(t, root, Options{Runner: &fakeRunner{}})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	marker := filepath.Join(root, project, "docs", "notes.md")
	if err := os.WriteFile(marker, []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}

	again, _ := newScaffolder(t, root, Options{Runner: &fakeRunner{}})
	if _, err := again.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	assertDirectorySet(t, root)
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("re-run removed existing content: %v", err)
	}
}

func TestStepsIndividually(t *testing.T) {
	root := t.TempDir()
	s, _ := newScaffolder(t, root, Options{Runner: &fakeRunner{}})
	ctx := context.Background()

	if err := s.CreateDirectories(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDirectories(ctx); err != nil {
		t.Fatalf("CreateDirectories() is not idempotent: %v", err)
	}
	assertDirectorySet(t, root)

	if err := s.WriteCommonFiles(ctx); err != nil {
		t.Fatal(err)
	}
	readme := readRootFile(t, root, "README.md")
	assertContains(t, readme, "# aenzbi-business\n")
	assertContains(t, readme, "## Features\n")
	for _, f := range []string{".gitignore", ".env.example", "LICENSE"} {
		if got := readRootFile(t, root, f); got != "" {
			t.Errorf("%s should be empty, got %q", f, got)
		}
	}

	if err := s.SetupBackend(ctx); err != nil {
		t.Fatal(err)
	}
	assertContains(t, readFile(t, root, "backend", "app.py"), "os.environ.setdefault('DJANGO_SETTINGS_MODULE', 'backend.settings')")
	assertContains(t, readFile(t, root, "backend", "api", "banking", "routes.py"), "def accounts(request):")

	if err := s.SetupWeb(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.SetupMobile(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestBackendStepCreatesMissingAPIDir(t *testing.T) {
	root := t.TempDir()
	s, _ := newScaffolder(t, root, Options{Runner: &fakeRunner{}})
	if err := s.SetupBackend(context.Background()); err != nil {
		t.Fatalf("SetupBackend() without directory step: %v", err)
	}
	assertExists(t, filepath.Join(root, project, "backend", "api", "banking", "routes.py"))
}

func TestDryRunChangesNothing(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	s, out := newScaffolder(t, root, Options{Runner: runner, DryRun: true})

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("dry run executed tools: %v", runner.commandLines())
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created %d entries", len(entries))
	}
	assertContains(t, out.String(), "[dry-run] Would run: npx create-react-app . (in aenzbi-business/web)")
	for _, tr := range report.ToolResults() {
		if tr.Status != ToolSkipped {
			t.Errorf("%s status = %s, want skipped", tr.Name, tr.Status)
		}
	}
}

func TestSkipTools(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	s, _ := newScaffolder(t, root, Options{Runner: runner, SkipTools: true})

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("skip-tools executed tools: %v", runner.commandLines())
	}
	assertExists(t, filepath.Join(root, project, "web", "src", "pages", "Banking.js"))
}

func TestFilesystemErrorIsFatal(t *testing.T) {
	root := t.TempDir()
	// A regular file where the project directory should go.
	if err := os.WriteFile(filepath.Join(root, project), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{}
	s, out := newScaffolder(t, root, Options{Runner: runner})

	_, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected filesystem error")
	}
	if !strings.Contains(err.Error(), filepath.Join(project, "backend", "api", "banking")) {
		t.Errorf("error should name the failing path: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Error("no tool should run after a fatal filesystem error")
	}
	if strings.Contains(out.String(), "completed successfully") {
		t.Error("fatal error must not print the success message")
	}
}

func TestUnknownComponent(t *testing.T) {
	s, _ := newScaffolder(t, t.TempDir(), Options{Runner: &fakeRunner{}})
	if err := s.SetupComponent(context.Background(), "desktop"); err == nil {
		t.Fatal("expected error for unknown component")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newScaffolder(t, t.TempDir(), Options{Runner: &fakeRunner{}})
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestNewRequiresProjectName(t *testing.T) {
	l, err := layout.Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(l, Options{}); err == nil {
		t.Fatal("expected error without project name")
	}
}

func TestRunIDDefaults(t *testing.T) {
	s, _ := newScaffolder(t, t.TempDir(), Options{})
	if s.Report().RunID == "" {
		t.Error("RunID should default to a UUID")
	}
	s2, _ := newScaffolder(t, t.TempDir(), Options{RunID: "fixed"})
	if s2.Report().RunID != "fixed" {
		t.Errorf("RunID = %q, want fixed", s2.Report().RunID)
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

type osExecNotFound struct{ name string }

func (e *osExecNotFound) Error() string { return "exec: \"" + e.name + "\": executable file not found in $PATH" }

var wantDirs = []string{
	"backend/api/banking", "backend/api/microfinance", "backend/api/money-transfer",
	"backend/api/fintech-crypto", "backend/api/payments", "backend/api/sales",
	"backend/api/e-billing", "backend/api/e-shop", "backend/config", "backend/db",
	"backend/middlewares", "backend/models", "backend/tests",
	"web/public", "web/src/components", "web/src/pages", "web/src/services",
	"web/src/styles", "web/src/utils",
	"mobile/android", "mobile/ios", "mobile/lib/components", "mobile/lib/pages",
	"mobile/lib/services", "mobile/lib/styles",
	"docs", "scripts/db-migrations", "scripts/deployment", "firebase",
}

// assertDirectorySet checks that every leaf directory exists and that no
// directory outside the layout (and its ancestors) was created.
func assertDirectorySet(t *testing.T, root string) {
	t.Helper()
	want := map[string]bool{}
	for _, d := range wantDirs {
		for p := d; p != "."; p = filepath.ToSlash(filepath.Dir(p)) {
			want[p] = true
		}
	}

	projectDir := filepath.Join(root, project)
	var got []string
	err := filepath.WalkDir(projectDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == projectDir {
			return nil
		}
		rel, _ := filepath.Rel(projectDir, path)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", projectDir, err)
	}

	var wantList []string
	for d := range want {
		wantList = append(wantList, d)
	}
	sort.Strings(wantList)
	sort.Strings(got)
	if diff := cmp.Diff(wantList, got); diff != "" {
		t.Errorf("directory set mismatch (-want +got):\n%s", diff)
	}
}

// readRootFile reads a file relative to the invocation root.
func readRootFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func readFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root, project}, parts...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}

func TestWrittenFilesAreLogged(t *testing.T) {
	var logs bytes.Buffer
	xlog.Configure(xlog.Config{Level: "debug", Output: &logs, JSON: true})
	t.Cleanup(func() { xlog.Configure(xlog.Config{Output: io.Discard}) })

	root := t.TempDir()
	s, _ := newScaffolder(t, root, Options{Runner: &fakeRunner{}, RunID: "run-1"})
	if err := s.SetupBackend(context.Background()); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("log line is not JSON: %s", line)
		}
		if entry["message"] != "wrote file" {
			continue
		}
		if entry[xlog.FieldRunID] != "run-1" || entry[xlog.FieldStep] != ComponentBackend {
			t.Errorf("unexpected fields: %v", entry)
		}
		paths = append(paths, filepath.ToSlash(entry[xlog.FieldPath].(string)))
	}

	want := []string{project + "/backend/app.py", project + "/backend/api/banking/routes.py"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("logged paths mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanMatchesLayout(t *testing.T) {
	s, _ := newScaffolder(t, t.TempDir(), Options{Runner: &fakeRunner{}})
	plan := s.Plan()
	if plan.Root != project {
		t.Errorf("plan root = %q, want %q", plan.Root, project)
	}
	if len(plan.Directories) != 29 {
		t.Errorf("plan has %d directories, want 29", len(plan.Directories))
	}
}
