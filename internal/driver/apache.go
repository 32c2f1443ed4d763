package driver

import (
	"strings"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
)

// ApacheDriver implements the Driver interface for Apache2
type ApacheDriver struct {
	siteFiles
	exec executor.CommandExecutor
}

// NewApache creates a new Apache driver with default paths
func NewApache() *ApacheDriver {
	p := DefaultPaths("apache")
	return NewApacheWithExecutor(p.Available, p.Enabled, executor.NewSystemExecutor())
}

// NewApacheWithPaths creates a new Apache driver with custom paths
func NewApacheWithPaths(available, enabled string) *ApacheDriver {
	return NewApacheWithExecutor(available, enabled, executor.NewSystemExecutor())
}

// NewApacheWithExecutor creates a new Apache driver with custom paths and executor
func NewApacheWithExecutor(available, enabled string, exec executor.CommandExecutor) *ApacheDriver {
	return &ApacheDriver{
		siteFiles: siteFiles{paths: Paths{Available: available, Enabled: enabled}},
		exec:      exec,
	}
}

// Name returns the driver name
func (a *ApacheDriver) Name() string {
	return "apache"
}

// Template returns the builtin template for apache sites
func (a *ApacheDriver) Template() string {
	return "apache"
}

// Test validates the apache config syntax
func (a *ApacheDriver) Test() error {
	output, err := a.exec.Execute("apache2ctl", "configtest")
	if err != nil {
		return errors.ValidationFailed("apache", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// Reload reloads apache to apply changes
func (a *ApacheDriver) Reload() error {
	_, err := a.exec.Execute("systemctl", "reload", "apache2")
	if err != nil {
		// Try apache2ctl graceful as fallback
		output, err := a.exec.Execute("apache2ctl", "graceful")
		if err != nil {
			return errors.Wrap(errors.ErrCodeDriver, "failed to reload apache: "+strings.TrimSpace(string(output)), err)
		}
	}
	return nil
}
