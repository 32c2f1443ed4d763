package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/driver"
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/input"
	"github.com/ksyq12/siterender/internal/logger"
	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
)

var noReload bool

// loadConfig loads the config through the injected loader
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadConfigAndDriver loads config and returns the appropriate driver
func loadConfigAndDriver() (*config.Config, driver.Driver, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	if !config.IsValidDriver(cfg.Driver) {
		return nil, nil, &errors.TemplateError{Code: errors.ErrCodeDriver, Message: "unknown driver", Name: cfg.Driver}
	}

	paths, err := resolvePaths(cfg)
	if err != nil {
		return nil, nil, err
	}

	drv, err := deps.DriverFactory.Create(cfg.Driver, paths)
	if err != nil {
		return nil, nil, err
	}

	return cfg, drv, nil
}

// resolvePaths picks the driver directories: config override first, then
// platform detection, then the Debian defaults.
func resolvePaths(cfg *config.Config) (driver.Paths, error) {
	if cfg.Paths != nil {
		if cfg.Paths.Available == "" || cfg.Paths.Enabled == "" {
			return driver.Paths{}, errors.Wrap(errors.ErrCodeConfig, "paths.available and paths.enabled must both be set", nil)
		}
		if !filepath.IsAbs(cfg.Paths.Available) || !filepath.IsAbs(cfg.Paths.Enabled) {
			return driver.Paths{}, errors.Wrap(errors.ErrCodeConfig, "config paths must be absolute", nil)
		}
		return driver.Paths{Available: cfg.Paths.Available, Enabled: cfg.Paths.Enabled}, nil
	}

	detected, err := deps.PlatformDetector.DetectPaths()
	if err != nil {
		logger.Debug("platform detection failed, using defaults: %v", err)
		return driver.DefaultPaths(cfg.Driver), nil
	}

	pc, err := detected.GetPathsForDriver(cfg.Driver)
	if err != nil {
		return driver.Paths{}, err
	}
	if pc.SharedDirectory() {
		logger.Warn("%s uses a single directory (%s); enable and disable have no effect there", cfg.Driver, pc.Available)
	}
	return driver.Paths{Available: pc.Available, Enabled: pc.Enabled}, nil
}

// requireRoot checks root privileges through the injected checker
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// confirm prints prompt and reads a yes/no answer
func confirm(format string, args ...interface{}) bool {
	output.Print(format+" [y/N]: ", args...)
	return input.Confirm(deps.StdinReader)
}

// testAndReload tests config and reloads the web server
// If rollback is provided, it will be called on test failure
func testAndReload(drv driver.Driver, reload bool, rollback func() error) error {
	output.Info("Testing configuration...")
	if err := drv.Test(); err != nil {
		if rollback != nil {
			output.Info("Rolling back changes...")
			if rbErr := rollback(); rbErr != nil {
				output.Warn("Rollback failed: %v", rbErr)
			}
		}
		return err
	}

	if reload {
		output.Info("Reloading %s...", drv.Name())
		if err := drv.Reload(); err != nil {
			return err
		}
	}

	return nil
}

// saveConfig saves the config and returns error instead of just warning
func saveConfig(cfg *config.Config) error {
	if err := deps.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// validateDomain checks if domain is usable as server_domain
func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.ContainsAny(domain, " \t") {
		return fmt.Errorf("domain cannot contain spaces")
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen")
	}
	return nil
}

// validateProjectDir checks if a project directory is valid
func validateProjectDir(dir string) error {
	if dir == "" {
		return nil // falls back to <sites_base>/<prjname>
	}
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("project directory must be absolute: %s", dir)
	}
	return nil
}

// CommandResult represents a common result structure for CLI commands
type CommandResult struct {
	Success  bool   `json:"success"`
	Site     string `json:"site"`
	Action   string `json:"action,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	Message  string `json:"message,omitempty"`
}

// newSuccessResult creates a success result
func newSuccessResult(site, action string) CommandResult {
	return CommandResult{
		Success: true,
		Site:    site,
		Action:  action,
	}
}

// DryRunOperation is one step a mutating command would perform
type DryRunOperation struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Details string `json:"details,omitempty"`
}

// DryRunResult lists the operations of a command run with --dry-run
type DryRunResult struct {
	DryRun        bool              `json:"dry_run"`
	Site          string            `json:"site"`
	Operations    []DryRunOperation `json:"operations"`
	ConfigPreview string            `json:"config_preview,omitempty"`
}

// reloadOperations returns the test and reload steps unless --no-reload
func reloadOperations(drvName string) []DryRunOperation {
	if noReload {
		return nil
	}
	return []DryRunOperation{
		{Action: "test_config", Target: drvName, Details: "Validate configuration syntax"},
		{Action: "reload_server", Target: drvName, Details: "Apply configuration changes"},
	}
}

// outputDryRun prints a DryRunResult
func outputDryRun(result *DryRunResult) error {
	result.DryRun = true
	if jsonOutput {
		return output.JSON(result)
	}

	output.Warn("Dry run: no changes will be made")
	for i, op := range result.Operations {
		output.Print("  %d. %s %s", i+1, op.Action, op.Target)
		if op.Details != "" {
			output.Print("     %s", op.Details)
		}
	}
	if result.ConfigPreview != "" {
		output.Print("")
		output.Print("Configuration preview:")
		output.Document(result.ConfigPreview)
	}
	return nil
}

// contextOptions are the render-context flags shared by render and diff
type contextOptions struct {
	site       string
	sets       []string
	flags      []string
	valuesFile string
}

// buildContext layers, lowest first: defaults or the named site, the values
// file, then --set and --flag.
func buildContext(cfg *config.Config, opts contextOptions) (template.Context, error) {
	var ctx template.Context
	if opts.site != "" {
		site, err := cfg.GetSite(opts.site)
		if err != nil {
			return ctx, err
		}
		ctx = cfg.Context(site)
	} else {
		ctx = cfg.DefaultContext()
	}

	if opts.valuesFile != "" {
		fromFile, err := loadValues(opts.valuesFile)
		if err != nil {
			return ctx, err
		}
		ctx = ctx.Merge(fromFile)
	}

	overrides := template.NewContext()
	for _, s := range opts.sets {
		k, v, err := parseAssignment(s)
		if err != nil {
			return ctx, err
		}
		overrides.Set(k, v)
	}
	for _, f := range opts.flags {
		k, v, err := parseAssignment(f)
		if err != nil {
			return ctx, err
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return ctx, errors.Wrap(errors.ErrCodeConfig, "invalid --flag value for "+k, err)
		}
		overrides.SetFlag(k, on)
	}

	return ctx.Merge(overrides), nil
}

// parseAssignment splits key=value
func parseAssignment(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", errors.Wrap(errors.ErrCodeConfig, fmt.Sprintf("expected key=value, got %q", s), nil)
	}
	return k, v, nil
}

// loadValues reads a flat YAML mapping. Booleans become flags, everything
// else a placeholder value.
func loadValues(path string) (template.Context, error) {
	ctx := template.NewContext()

	data, err := os.ReadFile(path)
	if err != nil {
		return ctx, errors.Wrap(errors.ErrCodeConfig, "failed to read values file", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return ctx, errors.Wrap(errors.ErrCodeConfig, "failed to parse values file "+path, err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := raw[k].(type) {
		case bool:
			ctx.SetFlag(k, v)
		case string:
			ctx.Set(k, v)
		case int, int64, float64:
			ctx.Set(k, fmt.Sprint(v))
		default:
			return ctx, errors.Wrap(errors.ErrCodeConfig, fmt.Sprintf("values file %s: %s must be a string, number or boolean", path, k), nil)
		}
	}
	return ctx, nil
}

// renderSite renders the driver's template for a site
func renderSite(cfg *config.Config, drv driver.Driver, site *config.Site) (*template.Document, error) {
	tmpl, err := template.Resolve(drv.Template(), cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	logger.DebugFields("rendering site", map[string]interface{}{
		"site":     site.Name,
		"template": tmpl.Name(),
	})
	return template.Render(tmpl, cfg.Context(site))
}
