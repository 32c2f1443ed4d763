package cli

import (
	"os"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/driver"
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/input"
	"github.com/ksyq12/siterender/internal/platform"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader     ConfigLoader
	PlatformDetector PlatformDetector
	DriverFactory    DriverFactory
	RootChecker      RootChecker
	StdinReader      input.Reader
	Executor         executor.CommandExecutor
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// PlatformDetector handles platform path detection
type PlatformDetector interface {
	DetectPaths() (*platform.PlatformPaths, error)
}

// DriverFactory creates driver instances
type DriverFactory interface {
	Create(name string, paths driver.Paths) (driver.Driver, error)
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// Package-level dependencies (can be overridden for testing)
var deps = newDefaultDeps()

func newDefaultDeps() *Dependencies {
	exec := executor.NewSystemExecutor()
	return &Dependencies{
		ConfigLoader:     &realConfigLoader{},
		PlatformDetector: &realPlatformDetector{},
		DriverFactory:    &realDriverFactory{exec: exec},
		RootChecker:      &realRootChecker{},
		StdinReader:      input.NewStdinReader(),
		Executor:         exec,
	}
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// realConfigLoader honours --config, then $SITERENDER_CONFIG, then the default path.
type realConfigLoader struct{}

func (r *realConfigLoader) Load() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	if configPath != "" {
		return cfg.SaveTo(configPath)
	}
	return cfg.Save()
}

type realPlatformDetector struct{}

func (r *realPlatformDetector) DetectPaths() (*platform.PlatformPaths, error) {
	return platform.DetectPaths()
}

type realDriverFactory struct {
	exec executor.CommandExecutor
}

func (r *realDriverFactory) Create(name string, paths driver.Paths) (driver.Driver, error) {
	return driver.New(name, paths, r.exec)
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.ErrRootRequired
	}
	return nil
}
