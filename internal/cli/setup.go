package cli

import (
	"fmt"
	"regexp"

	"github.com/aenzbi-labs/aenzbi/internal/config"
	"github.com/aenzbi-labs/aenzbi/internal/generator"
	"github.com/aenzbi-labs/aenzbi/internal/layout"
	xlog "github.com/aenzbi-labs/aenzbi/internal/log"
	"github.com/aenzbi-labs/aenzbi/internal/setup"
	"github.com/spf13/cobra"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var (
	setupDir       string
	setupLayout    string
	setupProject   string
	setupStrict    bool
	setupDryRun    bool
	setupSkipTools bool
)

func init() {
	setupCmd.Flags().StringVar(&setupDir, "dir", ".", "Invocation root the project is created under")
	setupCmd.Flags().StringVar(&setupLayout, "layout", "", "Custom layout manifest (default: built-in)")
	setupCmd.Flags().StringVar(&setupProject, "project", "", "Project name (default: config project.name)")
	setupCmd.Flags().BoolVar(&setupStrict, "strict", false, "Fail when an external generator fails")
	setupCmd.Flags().BoolVar(&setupDryRun, "dry-run", false, "Print what would be created without changing anything")
	setupCmd.Flags().BoolVar(&setupSkipTools, "skip-tools", false, "Write files but do not run external generators")
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Scaffold the project",
	Long: `Create the project directory tree, write the common and stub files, and run
the external web and mobile generators.

Generator failures are reported as warnings and do not fail the command
unless --strict (or config setup.strict) is set.

Examples:
  aenzbi setup
  aenzbi setup --dir ~/src --strict
  aenzbi setup --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project := setupProject
		if project == "" {
			project = config.ProjectName()
		}
		if err := validateName(project); err != nil {
			return err
		}

		l, err := loadLayout(setupLayout)
		if err != nil {
			return err
		}

		// An explicit --strict, including --strict=false, wins over config.
		strict := config.Strict()
		if cmd.Flags().Changed("strict") {
			strict = setupStrict
		}

		s, err := setup.New(l, setup.Options{
			Root:        setupDir,
			ProjectName: project,
			Out:         cmd.OutOrStdout(),
			Runner: &generator.ExecRunner{
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			},
			ToolTimeout: config.ToolTimeout(),
			Strict:      strict,
			DryRun:      setupDryRun,
			SkipTools:   setupSkipTools,
		})
		if err != nil {
			return err
		}

		plan := s.Plan()
		logger := xlog.WithComponent("cli")
		logger.Debug().
			Str("layout", plan.Name).
			Str(xlog.FieldDir, plan.Root).
			Int("directories", len(plan.Directories)).
			Int("components", len(plan.Components)).
			Msg("layout resolved")

		_, err = s.Run(cmd.Context())
		return err
	},
}

// loadLayout returns the layout named by flag, then config, then the
// embedded default.
func loadLayout(flag string) (*layout.Layout, error) {
	path := flag
	if path == "" {
		path = config.LayoutFile()
	}
	return layout.LoadOrDefault(path)
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}
