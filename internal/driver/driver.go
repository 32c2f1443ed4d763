package driver

import (
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
)

// Driver is the interface that all web server drivers must implement
type Driver interface {
	// Name returns the driver name (nginx, apache)
	Name() string

	// Template returns the builtin template rendered for this server
	Template() string

	// Install writes a site's rendered configuration to sites-available
	Install(name, content string) error

	// Read returns the installed configuration of a site
	Read(name string) (string, error)

	// Remove disables a site and deletes its configuration
	Remove(name string) error

	// Enable activates a site
	Enable(name string) error

	// Disable deactivates a site
	Disable(name string) error

	// List returns the names of all installed sites
	List() ([]string, error)

	// IsEnabled checks if a site is enabled
	IsEnabled(name string) (bool, error)

	// Test validates the full web server configuration
	Test() error

	// Reload reloads the web server
	Reload() error

	// Paths returns the driver's config paths
	Paths() Paths
}

// Paths contains the web server config directory paths
type Paths struct {
	Available string // config available directory
	Enabled   string // config enabled directory
}

// DefaultPaths returns the Debian layout for a driver.
func DefaultPaths(name string) Paths {
	switch name {
	case "apache":
		return Paths{Available: "/etc/apache2/sites-available", Enabled: "/etc/apache2/sites-enabled"}
	default:
		return Paths{Available: "/etc/nginx/sites-available", Enabled: "/etc/nginx/sites-enabled"}
	}
}

// New creates the named driver over paths, running commands through exec.
func New(name string, paths Paths, exec executor.CommandExecutor) (Driver, error) {
	switch name {
	case "nginx":
		return NewNginxWithExecutor(paths.Available, paths.Enabled, exec), nil
	case "apache":
		return NewApacheWithExecutor(paths.Available, paths.Enabled, exec), nil
	default:
		return nil, &errors.TemplateError{Code: errors.ErrCodeDriver, Message: "unknown driver", Name: name}
	}
}
