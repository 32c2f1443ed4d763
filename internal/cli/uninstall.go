package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/output"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <prjname>",
	Short: "Remove a site's configuration from the web server",
	Long: `Disable a site and delete its file from sites-available. The site stays
in the config and can be installed again.

Examples:
  siterender uninstall acme
  siterender uninstall acme --force --no-reload`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Force removal without confirmation")
	uninstallCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload web server")

	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	if dryRun {
		paths := drv.Paths()
		operations := []DryRunOperation{
			{Action: "remove_symlink", Target: filepath.Join(paths.Enabled, name+".conf"), Details: "Disable site"},
			{Action: "remove_config", Target: filepath.Join(paths.Available, name+".conf"), Details: "Delete site configuration"},
		}
		return outputDryRun(&DryRunResult{
			Site:       name,
			Operations: append(operations, reloadOperations(drv.Name())...),
		})
	}

	if err := requireRoot(); err != nil {
		return err
	}

	if !forceRemove && !confirm("Are you sure you want to uninstall site '%s'?", name) {
		output.Info("Uninstall cancelled")
		return nil
	}

	output.Info("Removing site configuration...")
	if err := drv.Remove(name); err != nil {
		return err
	}

	// No rollback: the site is already gone
	if err := testAndReload(drv, !noReload, nil); err != nil {
		output.Warn("Post-removal check failed: %v", err)
	}

	if site, err := cfg.GetSite(name); err == nil {
		site.Installed = false
		site.Enabled = false
		site.Checksum = ""
		if err := saveConfig(cfg); err != nil {
			output.Warn("Site uninstalled but config save failed: %v", err)
		}
	}

	return outputResult(newSuccessResult(name, "uninstalled"), "Site %s uninstalled", name)
}
