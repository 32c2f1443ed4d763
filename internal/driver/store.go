package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/siterender/internal/errors"
)

const confExt = ".conf"

// siteFiles manages <name>.conf files in a sites-available/sites-enabled
// pair. Both drivers share it; they differ only in the commands they run.
type siteFiles struct {
	paths Paths
}

func (s siteFiles) availablePath(name string) string {
	return filepath.Join(s.paths.Available, name+confExt)
}

func (s siteFiles) enabledPath(name string) string {
	return filepath.Join(s.paths.Enabled, name+confExt)
}

// Install writes content through a temporary file so a reader never sees a
// partial configuration.
func (s siteFiles) Install(name, content string) error {
	if err := os.MkdirAll(s.paths.Available, 0755); err != nil {
		return fmt.Errorf("failed to create sites-available directory: %w", err)
	}
	if err := os.MkdirAll(s.paths.Enabled, 0755); err != nil {
		return fmt.Errorf("failed to create sites-enabled directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.paths.Available, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.availablePath(name)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Read returns the installed configuration of a site
func (s siteFiles) Read(name string) (string, error) {
	data, err := os.ReadFile(s.availablePath(name))
	if os.IsNotExist(err) {
		return "", errors.SiteNotFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return string(data), nil
}

// Remove deletes a site config, disabling it first
func (s siteFiles) Remove(name string) error {
	if enabled, _ := s.IsEnabled(name); enabled {
		if err := s.Disable(name); err != nil {
			return err
		}
	}

	if err := os.Remove(s.availablePath(name)); err != nil {
		if os.IsNotExist(err) {
			return errors.SiteNotFound(name)
		}
		return fmt.Errorf("failed to remove config file: %w", err)
	}
	return nil
}

// Enable activates a site by creating a symlink
func (s siteFiles) Enable(name string) error {
	source := s.availablePath(name)
	target := s.enabledPath(name)

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return errors.SiteNotFound(name)
	}

	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("site %s is already enabled", name)
	}

	if err := os.Symlink(source, target); err != nil {
		return fmt.Errorf("failed to enable site: %w", err)
	}
	return nil
}

// Disable deactivates a site by removing the symlink
func (s siteFiles) Disable(name string) error {
	target := s.enabledPath(name)

	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return fmt.Errorf("site %s is not enabled", name)
	}
	if err != nil {
		return fmt.Errorf("failed to check site status: %w", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("site %s is not a symlink, refusing to remove", name)
	}

	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to disable site: %w", err)
	}
	return nil
}

// List returns all site names in sites-available
func (s siteFiles) List() ([]string, error) {
	entries, err := os.ReadDir(s.paths.Available)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read sites-available: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && !strings.HasPrefix(name, ".") && strings.HasSuffix(name, confExt) {
			names = append(names, strings.TrimSuffix(name, confExt))
		}
	}
	return names, nil
}

// IsEnabled checks if a site is enabled
func (s siteFiles) IsEnabled(name string) (bool, error) {
	_, err := os.Lstat(s.enabledPath(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check site status: %w", err)
	}
	return true, nil
}

// Paths returns the config paths
func (s siteFiles) Paths() Paths {
	return s.paths
}
