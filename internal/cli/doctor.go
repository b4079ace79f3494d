package cli

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/aenzbi-labs/aenzbi/internal/generator"
	"github.com/aenzbi-labs/aenzbi/internal/layout"
	"github.com/spf13/cobra"
)

var doctorLayout string

// Overridden in tests.
var (
	doctorLookPath                  = exec.LookPath
	doctorRunner   generator.Runner = generator.Quiet()
)

func init() {
	doctorCmd.Flags().StringVar(&doctorLayout, "layout", "", "Custom layout manifest (default: built-in)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external generators are installed",
	Long: `Validate the layout and check that every tool it needs is on PATH and
recent enough. Missing tools do not stop setup, but the web or mobile
subtree will not be generated without them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Layout check:")
		l, err := loadLayout(doctorLayout)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return fmt.Errorf("layout check failed: %w", err)
		}
		fmt.Fprintf(out, "  [ OK ] %s: %d directories, %d files, %d components\n",
			l.Name, len(l.Directories), countFiles(l), len(l.Components))

		missing := checkTools(cmd.Context(), out, l)
		if missing > 0 {
			fmt.Fprintf(out, "\n  %d missing tool(s). Setup will skip the subtrees they generate.\n", missing)
		}
		return nil
	},
}

// checkTools reports every requirement and component tool and returns how
// many are missing from PATH.
func checkTools(ctx context.Context, w io.Writer, l *layout.Layout) int {
	fmt.Fprintln(w, "Tool check:")

	checked := make(map[string]bool)
	missing := 0

	check := func(req layout.Requirement, usedBy string) {
		if checked[req.Name] {
			return
		}
		checked[req.Name] = true

		path, err := doctorLookPath(req.Name)
		if err != nil {
			if usedBy != "" {
				fmt.Fprintf(w, "  [MISS] %s (required by %s)\n", req.Name, usedBy)
			} else {
				fmt.Fprintf(w, "  [MISS] %s not found\n", req.Name)
			}
			missing++
			return
		}

		if len(req.VersionArgs) == 0 {
			fmt.Fprintf(w, "  [ OK ] %s found at %s\n", req.Name, path)
			return
		}

		v, err := generator.ProbeVersion(ctx, doctorRunner, req.Name, req.VersionArgs)
		if err != nil {
			fmt.Fprintf(w, "  [WARN] %s found at %s, version unknown: %v\n", req.Name, path, err)
			return
		}
		if req.MinVersion != "" {
			ok, err := generator.MeetsMinimum(v, req.MinVersion)
			if err != nil {
				fmt.Fprintf(w, "  [WARN] %s %s: %v\n", req.Name, v, err)
				return
			}
			if !ok {
				fmt.Fprintf(w, "  [WARN] %s %s is older than %s\n", req.Name, v, req.MinVersion)
				return
			}
		}
		fmt.Fprintf(w, "  [ OK ] %s %s found at %s\n", req.Name, v, path)
	}

	for _, req := range l.Requirements {
		check(req, "")
	}
	for _, c := range l.Components {
		for _, t := range c.Tools {
			check(layout.Requirement{Name: t.Command}, c.Name)
		}
	}

	if len(checked) == 0 {
		fmt.Fprintln(w, "  [ OK ] No external tools declared")
	}
	return missing
}

func countFiles(l *layout.Layout) int {
	n := len(l.Files)
	for _, c := range l.Components {
		n += len(c.Files)
	}
	return n
}
