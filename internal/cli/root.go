package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/logger"
	"github.com/ksyq12/siterender/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	dryRun     bool
	configPath string
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "siterender",
	Short: "Render and install web server site configurations",
	Long: `siterender renders Nginx, Apache, uWSGI and supervisor configuration
from templates with {{placeholder}} substitution and {% if flag %} blocks.

Sites are named render contexts kept in the config file. A site can be
rendered to stdout, validated with the server's own syntax check, and
installed into sites-available/sites-enabled with rollback on failure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Rejected(err)
		return 1
	}
	return 0
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/siterender/config.yaml, or $SITERENDER_CONFIG)")
}
