package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/driver"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/output"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and the configured sites.

Checks:
  - Web server binaries (nginx, apache2ctl)
  - Config file and template directory
  - Per site: the template renders, the installed file matches the
    recorded checksum, and the enabled state agrees with the server

Examples:
  siterender doctor
  siterender doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// SiteStatus represents the status of a single site
type SiteStatus struct {
	Name    string        `json:"prjname"`
	Enabled bool          `json:"enabled"`
	Checks  []CheckResult `json:"checks"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	Sites              []SiteStatus  `json:"sites"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements(deps.Executor, cfg)
	report.Configuration = checkConfiguration(cfg)
	report.Sites = checkSites(drv, cfg)

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkSystemRequirements(exec executor.CommandExecutor, cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	// Version extraction patterns
	versionPattern := regexp.MustCompile(`(?:nginx|Apache)/(\d+\.\d+\.\d+)`)

	webServers := []struct {
		name        string
		driver      string
		binary      string
		versionFlag string
	}{
		{"Nginx", "nginx", "nginx", "-v"},
		{"Apache", "apache", "apache2ctl", "-v"},
	}

	for _, ws := range webServers {
		if _, err := exec.LookPath(ws.binary); err == nil {
			version := "unknown"
			if out, err := exec.Execute(ws.binary, ws.versionFlag); err == nil {
				if m := versionPattern.FindStringSubmatch(string(out)); len(m) >= 2 {
					version = m[1]
				}
			}
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s installed (%s)", ws.name, version),
			})
			continue
		}

		status, suffix := "error", ""
		if cfg.Driver != ws.driver {
			status, suffix = "warning", " (optional)"
		}
		results = append(results, CheckResult{
			Status:  status,
			Message: fmt.Sprintf("%s not installed%s", ws.name, suffix),
		})
	}

	return results
}

func checkConfiguration(cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	path := configPath
	if path == "" {
		path, _ = config.ConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("Config file exists (%s)", strings.Replace(path, os.Getenv("HOME"), "~", 1)),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "warning",
				Message: "Config file not found, using defaults",
			})
		}
	}

	if cfg.TemplateDir != "" {
		if info, err := os.Stat(cfg.TemplateDir); err != nil || !info.IsDir() {
			results = append(results, CheckResult{
				Status:  "error",
				Message: fmt.Sprintf("Template directory %s not found", cfg.TemplateDir),
			})
		} else {
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("Template directory %s", cfg.TemplateDir),
			})
		}
	}

	return results
}

func checkSites(drv driver.Driver, cfg *config.Config) []SiteStatus {
	statuses := []SiteStatus{}

	for _, site := range cfg.ListSites() {
		status := SiteStatus{Name: site.Name, Checks: []CheckResult{}}
		if enabled, err := drv.IsEnabled(site.Name); err == nil {
			status.Enabled = enabled
		}
		problem := func(level, format string, args ...interface{}) {
			status.Checks = append(status.Checks, CheckResult{Status: level, Message: fmt.Sprintf(format, args...)})
		}

		doc, renderErr := renderSite(cfg, drv, site)
		if renderErr != nil {
			problem("error", "does not render: %v", renderErr)
		}

		installed, readErr := drv.Read(site.Name)
		switch {
		case site.Installed && readErr != nil:
			problem("error", "recorded as installed but %s has no configuration", drv.Name())
		case readErr == nil && site.Checksum != "" && fmt.Sprintf("%016x", xxhash.Sum64String(installed)) != site.Checksum:
			problem("warning", "installed file was modified outside siterender")
		case readErr == nil && doc != nil && installed != doc.Content:
			problem("warning", "installed file differs from a fresh render; run install")
		}

		if status.Enabled != site.Enabled {
			problem("warning", "enabled mismatch (config: %v, actual: %v)", site.Enabled, status.Enabled)
		}

		if len(status.Checks) == 0 {
			msg := "not installed"
			if site.Installed {
				msg = "disabled, up to date"
				if status.Enabled {
					msg = "enabled, up to date"
				}
			}
			status.Checks = append(status.Checks, CheckResult{Status: "success", Message: msg})
		}

		statuses = append(statuses, status)
	}

	return statuses
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.SystemRequirements {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}
	output.Print("")

	if len(report.Sites) == 0 {
		output.Print("No sites configured")
		return
	}

	output.Print("Checking sites...")
	for _, site := range report.Sites {
		for _, check := range site.Checks {
			displayCheck(CheckResult{Status: check.Status, Message: site.Name + " - " + check.Message})
		}
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case "success":
		output.Success("%s", check.Message)
	case "warning":
		output.Warn("%s", check.Message)
	case "error":
		output.Error("%s", check.Message)
	}
}
