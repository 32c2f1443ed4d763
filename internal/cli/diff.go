package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff <prjname>",
	Short: "Compare the installed configuration with a fresh render",
	Long: `Render a site and show a unified diff against the configuration installed
in sites-available. A site that is not installed diffs against nothing.

Examples:
  siterender diff acme
  siterender diff acme --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

type diffResult struct {
	Site      string `json:"site"`
	Installed bool   `json:"installed"`
	Changed   bool   `json:"changed"`
	Diff      string `json:"diff,omitempty"`
}

func runDiff(cmd *cobra.Command, args []string) error {
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

	installed, err := drv.Read(name)
	result := diffResult{Site: name, Installed: err == nil}
	if err != nil && !errors.Is(err, errors.ErrSiteNotFound) {
		return err
	}

	diff, err := output.Diff(installed, doc.Content, "installed", "rendered")
	if err != nil {
		return err
	}
	result.Changed = diff != ""
	result.Diff = diff

	if jsonOutput {
		return output.JSON(result)
	}
	if !result.Changed {
		output.Success("Site %s is up to date", name)
		return nil
	}
	output.PrintDiff(diff)
	return nil
}
