package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aenzbi-labs/aenzbi/internal/branding"
	"github.com/aenzbi-labs/aenzbi/internal/config"
	xlog "github.com/aenzbi-labs/aenzbi/internal/log"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	logLevel string
	logJSON  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write diagnostic logs as JSON lines")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds the aenzbi-business project: the backend, web and mobile
directory tree, boilerplate files, and the external web and mobile generators.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		xlog.Configure(xlog.Config{
			Level:  logLevel,
			Output: cmd.ErrOrStderr(),
			JSON:   logJSON,
		})
	},
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr before being returned.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
