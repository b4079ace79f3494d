package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aenzbi-labs/aenzbi/internal/config"
	"github.com/aenzbi-labs/aenzbi/internal/layout"
	"github.com/spf13/cobra"
)

var (
	layoutShowFile    string
	layoutShowProject string
	layoutShowRaw     bool
)

func init() {
	layoutShowCmd.Flags().StringVar(&layoutShowFile, "layout", "", "Custom layout manifest (default: built-in)")
	layoutShowCmd.Flags().StringVar(&layoutShowProject, "project", "", "Project name (default: config project.name)")
	layoutShowCmd.Flags().BoolVar(&layoutShowRaw, "raw", false, "Print the manifest YAML instead of the resolved plan")
	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutValidateCmd)
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect project layout manifests",
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the directories, files and tools setup will use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		l, err := loadLayout(layoutShowFile)
		if err != nil {
			return err
		}

		if layoutShowRaw {
			data, err := l.Marshal()
			if err != nil {
				return fmt.Errorf("marshaling layout: %w", err)
			}
			fmt.Fprint(out, string(data))
			return nil
		}

		project := layoutShowProject
		if project == "" {
			project = config.ProjectName()
		}
		plan, err := l.Resolve(layout.NewData(project, ""))
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Layout %s (root %s/)\n", plan.Name, filepath.ToSlash(plan.Root))
		fmt.Fprintln(out, "\nDirectories:")
		for _, d := range plan.Directories {
			fmt.Fprintf(out, "  %s/\n", filepath.ToSlash(d))
		}
		fmt.Fprintln(out, "\nFiles:")
		for _, f := range plan.Files {
			fmt.Fprintf(out, "  %s (%d bytes)\n", filepath.ToSlash(f.Path), len(f.Content))
		}
		for _, c := range plan.Components {
			fmt.Fprintf(out, "\nComponent %s (%s/):\n", c.Name, filepath.ToSlash(c.Dir))
			for _, t := range c.Tools {
				fmt.Fprintf(out, "  run  %s\n", strings.TrimSpace(t.Command+" "+strings.Join(t.Args, " ")))
			}
			for _, f := range c.Files {
				fmt.Fprintf(out, "  file %s\n", filepath.ToSlash(f.Path))
			}
		}
		return nil
	},
}

var layoutValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a layout manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := args[0]
		fmt.Fprintf(out, "Layout validation: %s\n", path)

		l, err := layout.Load(path)
		if err != nil {
			var verr *layout.ValidationError
			if !errors.As(err, &verr) {
				fmt.Fprintf(out, "  [FAIL] %v\n", err)
				return fmt.Errorf("layout validation failed: %w", err)
			}
			fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(verr.Issues))
			for _, issue := range verr.Issues {
				fmt.Fprintf(out, "    - %s\n", issue)
			}
			return fmt.Errorf("layout %s has %d validation issue(s)", path, len(verr.Issues))
		}

		// Resolving catches escaping paths and broken templates.
		if _, err := l.Resolve(layout.NewData(config.ProjectName(), "")); err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return fmt.Errorf("layout %s does not resolve: %w", path, err)
		}

		fmt.Fprintf(out, "  [ OK ] Valid layout: %s (%d directories, %d components)\n", l.Name, len(l.Directories), len(l.Components))
		return nil
	},
}
