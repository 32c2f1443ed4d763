package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/output"
)

var disableCmd = &cobra.Command{
	Use:   "disable <prjname>",
	Short: "Disable a site",
	Long: `Disable a site by removing its symlink from sites-enabled. The
configuration stays in sites-available.

Examples:
  siterender disable acme`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	disableCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload web server")

	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	if dryRun {
		paths := drv.Paths()
		return outputDryRun(&DryRunResult{
			Site: name,
			Operations: append([]DryRunOperation{{
				Action:  "remove_symlink",
				Target:  filepath.Join(paths.Enabled, name+".conf"),
				Details: "Disable site by removing symlink",
			}}, reloadOperations(drv.Name())...),
		})
	}

	if err := requireRoot(); err != nil {
		return err
	}

	output.Info("Disabling site...")
	if err := drv.Disable(name); err != nil {
		return err
	}

	// No rollback needed for disable
	if err := testAndReload(drv, !noReload, nil); err != nil {
		output.Warn("Post-disable check failed: %v", err)
	}

	if site, err := cfg.GetSite(name); err == nil {
		site.Enabled = false
		if err := saveConfig(cfg); err != nil {
			output.Warn("Site disabled but config save failed: %v", err)
		}
	}

	return outputResult(newSuccessResult(name, "disabled"), "Site %s disabled", name)
}
