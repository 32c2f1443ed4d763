package cli

import (
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/driver"
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/logger"
	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/validator"
)

var (
	assumeYes       bool
	installValidate bool
)

var installCmd = &cobra.Command{
	Use:   "install <prjname>",
	Short: "Render a site and install it into the web server",
	Long: `Render the driver's template for a site, write it to sites-available,
enable it, test the server configuration and reload.

An install whose rendered output matches what is already installed is
skipped. Replacing a different configuration shows a diff and asks first.
If the server rejects the result, the previous configuration is restored.

Examples:
  siterender install acme
  siterender install acme --validate --yes
  siterender install acme --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Overwrite an existing configuration without asking")
	installCmd.Flags().BoolVar(&installValidate, "validate", false, "Check the rendered site on its own before installing")
	installCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload web server")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}
	site, err := cfg.GetSite(name)
	if err != nil {
		return err
	}

	doc, err := renderSite(cfg, drv, site)
	if err != nil {
		return err
	}

	if installValidate {
		v, err := validator.ForTarget(drv.Name(), deps.Executor)
		if err != nil {
			return err
		}
		output.Info("Validating rendered configuration with %s...", v.Name())
		if err := v.Validate(doc); err != nil {
			return err
		}
	}

	previous, readErr := drv.Read(name)
	if readErr != nil && !errors.Is(readErr, errors.ErrSiteNotFound) {
		return readErr
	}
	exists := readErr == nil
	enabled, err := drv.IsEnabled(name)
	if err != nil {
		return err
	}

	if exists && enabled && xxhash.Sum64String(previous) == doc.Checksum() {
		logger.Debug("site %s unchanged (%s)", name, doc.ChecksumHex())
		result := newSuccessResult(name, "unchanged")
		result.Checksum = doc.ChecksumHex()
		return outputResult(result, "Site %s is up to date", name)
	}

	if dryRun {
		return outputInstallDryRun(name, drv, exists, enabled, doc.Content)
	}

	if err := requireRoot(); err != nil {
		return err
	}

	if exists && previous != doc.Content && !assumeYes {
		diff, err := output.Diff(previous, doc.Content, "installed", "rendered")
		if err == nil && diff != "" && !jsonOutput {
			output.PrintDiff(diff)
		}
		if !confirm("Overwrite the installed configuration of '%s'?", name) {
			output.Info("Install cancelled")
			return nil
		}
	}

	output.Info("Writing site configuration...")
	if err := drv.Install(name, doc.Content); err != nil {
		return err
	}

	// Restore exactly what was there before
	rollback := func() error {
		if !exists {
			return drv.Remove(name)
		}
		if err := drv.Install(name, previous); err != nil {
			return err
		}
		if !enabled {
			return drv.Disable(name)
		}
		return nil
	}

	if !enabled {
		output.Info("Enabling site...")
		if err := drv.Enable(name); err != nil {
			if rbErr := rollback(); rbErr != nil {
				output.Warn("Rollback failed: %v", rbErr)
			}
			return err
		}
	}

	if err := testAndReload(drv, !noReload, rollback); err != nil {
		return err
	}

	site.Installed = true
	site.Enabled = true
	site.Checksum = doc.ChecksumHex()
	if err := saveConfig(cfg); err != nil {
		output.Warn("Site installed but config save failed: %v", err)
	}

	result := newSuccessResult(name, "installed")
	result.Checksum = site.Checksum
	return outputResult(result, "Site %s installed (%s)", name, site.Checksum)
}

// outputInstallDryRun outputs what install would do in dry-run mode
func outputInstallDryRun(name string, drv driver.Driver, exists, enabled bool, content string) error {
	paths := drv.Paths()
	action := "write_config"
	if exists {
		action = "overwrite_config"
	}

	operations := []DryRunOperation{
		{
			Action:  action,
			Target:  filepath.Join(paths.Available, name+".conf"),
			Details: "Write rendered " + drv.Template() + " template",
		},
	}
	if !enabled {
		operations = append(operations, DryRunOperation{
			Action:  "create_symlink",
			Target:  filepath.Join(paths.Enabled, name+".conf"),
			Details: "Enable site",
		})
	}
	operations = append(operations, reloadOperations(drv.Name())...)

	return outputDryRun(&DryRunResult{
		Site:          name,
		Operations:    operations,
		ConfigPreview: content,
	})
}
