package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/siterender/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Driver      string           `yaml:"driver"`
	TemplateDir string           `yaml:"template_dir,omitempty"`
	Paths       *Paths           `yaml:"paths,omitempty"`
	Defaults    Defaults         `yaml:"defaults"`
	Sites       map[string]*Site `yaml:"sites"`
}

// Paths overrides the detected sites-available/sites-enabled directories.
type Paths struct {
	Available string `yaml:"available"`
	Enabled   string `yaml:"enabled"`
}

// Defaults fill in values a site does not set.
type Defaults struct {
	ServerDomain string `yaml:"server_domain"`
	EnvLink      string `yaml:"env_link"`
	WebDAV       bool   `yaml:"webdav"`
	SitesBase    string `yaml:"sites_base"`
}

const (
	configDir  = ".config/siterender"
	configFile = "config.yaml"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "SITERENDER_CONFIG"
)

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Driver: "nginx",
		Defaults: Defaults{
			ServerDomain: "localhost",
			EnvLink:      "env",
			WebDAV:       true,
			SitesBase:    "/srv",
		},
		Sites: make(map[string]*Site),
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path, honouring SITERENDER_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from the default location
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to read config", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to parse config "+path, err)
	}

	if cfg.Sites == nil {
		cfg.Sites = make(map[string]*Site)
	}
	for name, site := range cfg.Sites {
		if site.Name == "" {
			site.Name = name
		}
	}

	return cfg, nil
}

// Save writes the config to the default location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// AddSite adds a site to the config
func (c *Config) AddSite(site *Site) error {
	if err := ValidateName(site.Name); err != nil {
		return err
	}
	if _, exists := c.Sites[site.Name]; exists {
		return &errors.TemplateError{Code: errors.ErrCodeAlreadyExists, Message: "site already exists", Name: site.Name}
	}
	c.Sites[site.Name] = site
	return nil
}

// GetSite returns a site by prjname
func (c *Config) GetSite(name string) (*Site, error) {
	site, exists := c.Sites[name]
	if !exists {
		return nil, errors.SiteNotFound(name)
	}
	return site, nil
}

// RemoveSite removes a site from the config
func (c *Config) RemoveSite(name string) error {
	if _, exists := c.Sites[name]; !exists {
		return errors.SiteNotFound(name)
	}
	delete(c.Sites, name)
	return nil
}

// ListSites returns all sites sorted by name
func (c *Config) ListSites() []*Site {
	sites := make([]*Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool {
		return sites[i].Name < sites[j].Name
	})
	return sites
}

// ValidDrivers returns the supported driver names
func ValidDrivers() []string {
	return []string{"nginx", "apache"}
}

// IsValidDriver reports whether name is a supported driver
func IsValidDriver(name string) bool {
	for _, d := range ValidDrivers() {
		if d == name {
			return true
		}
	}
	return false
}
