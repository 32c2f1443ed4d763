package driver

import (
	"strings"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
)

// NginxDriver implements the Driver interface for Nginx
type NginxDriver struct {
	siteFiles
	exec executor.CommandExecutor
}

// NewNginx creates a new Nginx driver with default paths
func NewNginx() *NginxDriver {
	p := DefaultPaths("nginx")
	return NewNginxWithExecutor(p.Available, p.Enabled, executor.NewSystemExecutor())
}

// NewNginxWithPaths creates a new Nginx driver with custom paths
func NewNginxWithPaths(available, enabled string) *NginxDriver {
	return NewNginxWithExecutor(available, enabled, executor.NewSystemExecutor())
}

// NewNginxWithExecutor creates a new Nginx driver with custom paths and executor (for testing)
func NewNginxWithExecutor(available, enabled string, exec executor.CommandExecutor) *NginxDriver {
	return &NginxDriver{
		siteFiles: siteFiles{paths: Paths{Available: available, Enabled: enabled}},
		exec:      exec,
	}
}

// Name returns the driver name
func (n *NginxDriver) Name() string {
	return "nginx"
}

// Template returns the builtin template for nginx sites
func (n *NginxDriver) Template() string {
	return "nginx"
}

// Test validates the nginx config syntax
func (n *NginxDriver) Test() error {
	output, err := n.exec.Execute("nginx", "-t")
	if err != nil {
		return errors.ValidationFailed("nginx", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// Reload reloads nginx to apply changes
func (n *NginxDriver) Reload() error {
	_, err := n.exec.Execute("systemctl", "reload", "nginx")
	if err != nil {
		// Try nginx -s reload as fallback
		output, err := n.exec.Execute("nginx", "-s", "reload")
		if err != nil {
			return errors.Wrap(errors.ErrCodeDriver, "failed to reload nginx: "+strings.TrimSpace(string(output)), err)
		}
	}
	return nil
}
