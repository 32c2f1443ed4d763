package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/output"
)

var enableCmd = &cobra.Command{
	Use:   "enable <prjname>",
	Short: "Enable an installed site",
	Long: `Enable an installed site by creating a symlink in sites-enabled.

Examples:
  siterender enable acme`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

func init() {
	enableCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload web server")

	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
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
				Action:  "create_symlink",
				Target:  filepath.Join(paths.Enabled, name+".conf"),
				Details: "Enable site",
			}}, reloadOperations(drv.Name())...),
		})
	}

	if err := requireRoot(); err != nil {
		return err
	}

	output.Info("Enabling site...")
	if err := drv.Enable(name); err != nil {
		return err
	}

	rollback := func() error {
		return drv.Disable(name)
	}
	if err := testAndReload(drv, !noReload, rollback); err != nil {
		return err
	}

	if site, err := cfg.GetSite(name); err == nil {
		site.Enabled = true
		if err := saveConfig(cfg); err != nil {
			output.Warn("Site enabled but config save failed: %v", err)
		}
	}

	return outputResult(newSuccessResult(name, "enabled"), "Site %s enabled", name)
}
