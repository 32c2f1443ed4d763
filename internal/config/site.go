package config

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/template"
)

// Site is a named render context: the values one project's server
// configuration is rendered with, plus its install state.
type Site struct {
	Name         string            `yaml:"prjname"`
	ProjectDir   string            `yaml:"project_dir,omitempty"`
	ServerDomain string            `yaml:"server_domain,omitempty"`
	EnvLink      string            `yaml:"env_link,omitempty"`
	WebDAV       *bool             `yaml:"webdav,omitempty"` // nil inherits defaults.webdav
	Extra        map[string]string `yaml:"extra,omitempty"`
	Installed    bool              `yaml:"installed"`
	Enabled      bool              `yaml:"enabled"`
	Checksum     string            `yaml:"checksum,omitempty"` // of the installed document
	CreatedAt    time.Time         `yaml:"created_at"`
}

// Placeholder and flag names the builtin templates use.
const (
	KeyPrjName      = "prjname"
	KeyProjectDir   = "project_dir"
	KeyServerDomain = "server_domain"
	KeyEnvLink      = "env_link"
	FlagWebDAV      = "webdav"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName checks that name can serve as prjname: it ends up in upstream
// names, log file names and a Python module path.
func ValidateName(name string) error {
	if name == "" {
		return errors.Validation("prjname cannot be empty")
	}
	if !namePattern.MatchString(name) {
		return errors.Validation("prjname must start with a letter or underscore and contain only letters, digits and underscores: " + name)
	}
	return nil
}

// Context builds the render context for site, filling gaps from the defaults.
// Extra values are applied first so the core keys always win.
func (c *Config) Context(site *Site) template.Context {
	ctx := template.NewContext()
	for k, v := range site.Extra {
		ctx.Set(k, v)
	}

	projectDir := site.ProjectDir
	if projectDir == "" {
		projectDir = filepath.Join(c.Defaults.SitesBase, site.Name)
	}
	domain := site.ServerDomain
	if domain == "" {
		domain = c.Defaults.ServerDomain
	}
	envLink := site.EnvLink
	if envLink == "" {
		envLink = c.Defaults.EnvLink
	}
	webdav := c.Defaults.WebDAV
	if site.WebDAV != nil {
		webdav = *site.WebDAV
	}

	return ctx.
		Set(KeyPrjName, site.Name).
		Set(KeyProjectDir, projectDir).
		Set(KeyServerDomain, domain).
		Set(KeyEnvLink, envLink).
		SetFlag(FlagWebDAV, webdav)
}

// DefaultContext is the context of the defaults alone, used when rendering
// without a site.
func (c *Config) DefaultContext() template.Context {
	ctx := template.NewContext().
		Set(KeyServerDomain, c.Defaults.ServerDomain).
		Set(KeyEnvLink, c.Defaults.EnvLink).
		SetFlag(FlagWebDAV, c.Defaults.WebDAV)
	return ctx
}
