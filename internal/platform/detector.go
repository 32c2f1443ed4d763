// Package platform locates the sites-available/sites-enabled directories of
// the supported web servers on the running system.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// PathConfig contains the paths for a web server driver.
type PathConfig struct {
	Available string
	Enabled   string
}

// PlatformPaths contains the detected paths for all supported web servers.
type PlatformPaths struct {
	Layout string // debian, rhel or homebrew
	Nginx  PathConfig
	Apache PathConfig
}

// Detector probes a filesystem for a known web server layout. Root is
// prepended to every probe, so tests can point it at a temporary tree.
type Detector struct {
	Root string
	GOOS string
}

// NewDetector returns a Detector for the running system.
func NewDetector() *Detector {
	return &Detector{Root: "/", GOOS: runtime.GOOS}
}

// DetectPaths returns platform-specific default paths for web servers.
func DetectPaths() (*PlatformPaths, error) {
	return NewDetector().Detect()
}

// Detect checks common installation locations based on the OS.
func (d *Detector) Detect() (*PlatformPaths, error) {
	switch d.GOOS {
	case "darwin":
		return d.darwin()
	case "linux":
		return d.linux()
	default:
		return nil, fmt.Errorf("unsupported platform: %s", d.GOOS)
	}
}

func (d *Detector) darwin() (*PlatformPaths, error) {
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if !d.exists(prefix) {
			continue
		}
		servers := filepath.Join(prefix, "etc/nginx/servers")
		vhosts := filepath.Join(prefix, "etc/httpd/extra/vhosts")
		return &PlatformPaths{
			Layout: "homebrew",
			Nginx:  PathConfig{Available: servers, Enabled: servers},
			Apache: PathConfig{Available: vhosts, Enabled: vhosts},
		}, nil
	}
	return nil, fmt.Errorf("homebrew installation not found (checked /opt/homebrew and /usr/local)")
}

func (d *Detector) linux() (*PlatformPaths, error) {
	// Debian/Ubuntu first, the layout the builtin templates target
	if d.exists("/etc/nginx/sites-available") || d.exists("/etc/apache2") || (d.exists("/etc/nginx") && !d.exists("/etc/nginx/conf.d")) {
		return &PlatformPaths{
			Layout: "debian",
			Nginx:  PathConfig{Available: "/etc/nginx/sites-available", Enabled: "/etc/nginx/sites-enabled"},
			Apache: PathConfig{Available: "/etc/apache2/sites-available", Enabled: "/etc/apache2/sites-enabled"},
		}, nil
	}

	if d.exists("/etc/nginx/conf.d") || d.exists("/etc/httpd") {
		return &PlatformPaths{
			Layout: "rhel",
			Nginx:  PathConfig{Available: "/etc/nginx/conf.d", Enabled: "/etc/nginx/conf.d"},
			Apache: PathConfig{Available: "/etc/httpd/conf.d", Enabled: "/etc/httpd/conf.d"},
		}, nil
	}

	return nil, fmt.Errorf("web server configuration paths not found (checked /etc/nginx, /etc/apache2, /etc/httpd)")
}

// GetPathsForDriver returns the paths for a specific driver from PlatformPaths.
func (p *PlatformPaths) GetPathsForDriver(driverName string) (PathConfig, error) {
	switch driverName {
	case "nginx":
		return p.Nginx, nil
	case "apache":
		return p.Apache, nil
	default:
		return PathConfig{}, fmt.Errorf("unknown driver: %s (available: nginx, apache)", driverName)
	}
}

// SharedDirectory reports whether available and enabled are the same
// directory, in which case enabling by symlink is meaningless.
func (c PathConfig) SharedDirectory() bool {
	return c.Available == c.Enabled
}

func (d *Detector) exists(path string) bool {
	_, err := os.Stat(filepath.Join(d.Root, path))
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
