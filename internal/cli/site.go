package cli

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
)

var (
	siteProjectDir string
	siteDomain     string
	siteEnvLink    string
	siteWebDAV     string
	siteExtra      []string
	forceRemove    bool
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage configured sites",
	Long: `A site is a named render context: prjname plus the values its templates
are rendered with. Values a site leaves unset come from the config defaults.`,
}

var siteAddCmd = &cobra.Command{
	Use:   "add <prjname>",
	Short: "Add a site",
	Long: `Add a site to the config. The site is rendered once with the driver's
template to reject values that would break the configuration.

Examples:
  siterender site add acme --domain acme.example.com
  siterender site add acme --domain acme.example.com --project-dir /opt/acme --webdav false
  siterender site add acme --set admin_email=ops@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runSiteAdd,
}

var siteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sites",
	Args:    cobra.NoArgs,
	RunE:    runSiteList,
}

var siteShowCmd = &cobra.Command{
	Use:   "show <prjname>",
	Short: "Show a site and its effective render context",
	Args:  cobra.ExactArgs(1),
	RunE:  runSiteShow,
}

var siteRemoveCmd = &cobra.Command{
	Use:     "remove <prjname>",
	Aliases: []string{"rm"},
	Short:   "Remove a site from the config",
	Long: `Remove a site from the config. Installed sites must be uninstalled first.

Examples:
  siterender site remove acme
  siterender site rm acme --force`,
	Args: cobra.ExactArgs(1),
	RunE: runSiteRemove,
}

func init() {
	siteAddCmd.Flags().StringVar(&siteProjectDir, "project-dir", "", "Project directory (default <sites_base>/<prjname>)")
	siteAddCmd.Flags().StringVarP(&siteDomain, "domain", "d", "", "Server domain (default from config)")
	siteAddCmd.Flags().StringVar(&siteEnvLink, "env-link", "", "Virtualenv link name inside the project (default from config)")
	siteAddCmd.Flags().StringVar(&siteWebDAV, "webdav", "", "Override the webdav flag (true|false)")
	siteAddCmd.Flags().StringArrayVar(&siteExtra, "set", nil, "Extra placeholder value (key=value, repeatable)")

	siteRemoveCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Force removal without confirmation")

	siteCmd.AddCommand(siteAddCmd, siteListCmd, siteShowCmd, siteRemoveCmd)
	rootCmd.AddCommand(siteCmd)
}

func runSiteAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := config.ValidateName(name); err != nil {
		return err
	}
	if siteDomain != "" {
		if err := validateDomain(siteDomain); err != nil {
			return err
		}
	}
	if err := validateProjectDir(siteProjectDir); err != nil {
		return err
	}

	site := &config.Site{
		Name:         name,
		ProjectDir:   siteProjectDir,
		ServerDomain: siteDomain,
		EnvLink:      siteEnvLink,
		CreatedAt:    time.Now(),
	}
	if siteWebDAV != "" {
		on, err := strconv.ParseBool(siteWebDAV)
		if err != nil {
			return fmt.Errorf("invalid --webdav value %q", siteWebDAV)
		}
		site.WebDAV = &on
	}
	for _, s := range siteExtra {
		k, v, err := parseAssignment(s)
		if err != nil {
			return err
		}
		if site.Extra == nil {
			site.Extra = make(map[string]string)
		}
		site.Extra[k] = v
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Render once so unsafe values are caught now rather than at install
	tmpl, err := template.Resolve(cfg.Driver, cfg.TemplateDir)
	if err != nil {
		return err
	}
	if _, err := template.Render(tmpl, cfg.Context(site)); err != nil {
		return err
	}

	if dryRun {
		return outputDryRun(&DryRunResult{
			Site: name,
			Operations: []DryRunOperation{
				{Action: "add_site", Target: name, Details: "Store site in config"},
			},
		})
	}

	if err := cfg.AddSite(site); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}

	return outputResult(newSuccessResult(name, "added"), "Site %s added", name)
}

type siteListItem struct {
	Name         string `json:"prjname"`
	ServerDomain string `json:"server_domain"`
	ProjectDir   string `json:"project_dir"`
	WebDAV       bool   `json:"webdav"`
	Installed    bool   `json:"installed"`
	Enabled      bool   `json:"enabled"`
}

func runSiteList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	items := make([]siteListItem, 0, len(cfg.Sites))
	for _, site := range cfg.ListSites() {
		ctx := cfg.Context(site)
		items = append(items, siteListItem{
			Name:         site.Name,
			ServerDomain: ctx.Values[config.KeyServerDomain],
			ProjectDir:   ctx.Values[config.KeyProjectDir],
			WebDAV:       ctx.Flags[config.FlagWebDAV],
			Installed:    site.Installed,
			Enabled:      site.Enabled,
		})
	}

	if jsonOutput {
		return output.JSON(items)
	}

	if len(items) == 0 {
		output.Info("No sites configured")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			item.ServerDomain,
			item.ProjectDir,
			yesNo(item.WebDAV),
			yesNo(item.Installed),
			yesNo(item.Enabled),
		})
	}
	output.Table([]string{"PRJNAME", "DOMAIN", "PROJECT DIR", "WEBDAV", "INSTALLED", "ENABLED"}, rows)
	return nil
}

// siteDetail represents the detailed site information for output
type siteDetail struct {
	Name      string            `json:"prjname"`
	Values    map[string]string `json:"values"`
	Flags     map[string]bool   `json:"flags"`
	Installed bool              `json:"installed"`
	Enabled   bool              `json:"enabled"`
	Checksum  string            `json:"checksum,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func runSiteShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	site, err := cfg.GetSite(args[0])
	if err != nil {
		return err
	}

	ctx := cfg.Context(site)
	detail := siteDetail{
		Name:      site.Name,
		Values:    ctx.Values,
		Flags:     ctx.Flags,
		Installed: site.Installed,
		Enabled:   site.Enabled,
		Checksum:  site.Checksum,
		CreatedAt: site.CreatedAt,
	}

	if jsonOutput {
		return output.JSON(detail)
	}

	output.Print("Site:      %s", detail.Name)
	output.Print("Installed: %s", yesNo(detail.Installed))
	output.Print("Enabled:   %s", yesNo(detail.Enabled))
	if detail.Checksum != "" {
		output.Print("Checksum:  %s", detail.Checksum)
	}
	if !detail.CreatedAt.IsZero() {
		output.Print("Created:   %s", detail.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	output.Print("")
	output.Print("Context:")
	for _, k := range sortedKeys(ctx.Values) {
		output.Print("  %s = %s", k, ctx.Values[k])
	}
	for _, k := range sortedKeys(ctx.Flags) {
		output.Print("  %s = %t (flag)", k, ctx.Flags[k])
	}
	return nil
}

func runSiteRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	site, err := cfg.GetSite(name)
	if err != nil {
		return err
	}
	if site.Installed {
		return errors.Validation(fmt.Sprintf("site %s is installed; run 'siterender uninstall %s' first", name, name))
	}

	if dryRun {
		return outputDryRun(&DryRunResult{
			Site: name,
			Operations: []DryRunOperation{
				{Action: "remove_site", Target: name, Details: "Delete site from config"},
			},
		})
	}

	if !forceRemove && !confirm("Are you sure you want to remove site '%s'?", name) {
		output.Info("Removal cancelled")
		return nil
	}

	if err := cfg.RemoveSite(name); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}

	return outputResult(newSuccessResult(name, "removed"), "Site %s removed", name)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
