package cli

import (
	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/driver"
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/input"
	"github.com/ksyq12/siterender/internal/platform"
)

// MockConfigLoader serves an in-memory config and counts saves.
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockConfigLoader) Load() (*config.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockPlatformDetector returns Paths, or a Debian layout when Paths is nil.
type MockPlatformDetector struct {
	Paths *platform.PlatformPaths
	Err   error
	Calls int
}

func (m *MockPlatformDetector) DetectPaths() (*platform.PlatformPaths, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Paths != nil {
		return m.Paths, nil
	}
	return &platform.PlatformPaths{
		Layout: "debian",
		Nginx: platform.PathConfig{
			Available: "/etc/nginx/sites-available",
			Enabled:   "/etc/nginx/sites-enabled",
		},
		Apache: platform.PathConfig{
			Available: "/etc/apache2/sites-available",
			Enabled:   "/etc/apache2/sites-enabled",
		},
	}, nil
}

// MockDriverFactory hands out Driver, or a fresh MockDriver over the
// requested paths when Driver is nil. Requested paths are recorded.
type MockDriverFactory struct {
	Driver   driver.Driver
	Err      error
	Requests []driver.Paths
}

func (m *MockDriverFactory) Create(name string, paths driver.Paths) (driver.Driver, error) {
	m.Requests = append(m.Requests, paths)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Driver != nil {
		return m.Driver, nil
	}
	return driver.NewMockDriver(name, paths.Available, paths.Enabled), nil
}

// MockRootChecker fails with ErrRootRequired unless IsRoot is set.
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return errors.ErrRootRequired
	}
	return nil
}

// MockDependenciesBuilder assembles a Dependencies of test doubles.
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps starts from root access, an empty config, a Debian layout,
// a "y" answer on stdin and an executor that accepts everything.
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:     &MockConfigLoader{Cfg: config.New()},
			PlatformDetector: &MockPlatformDetector{},
			DriverFactory:    &MockDriverFactory{},
			RootChecker:      &MockRootChecker{IsRoot: true},
			StdinReader:      input.NewStringReader("y\n"),
			Executor:         &executor.MockExecutor{},
		},
	}
}

func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

func (b *MockDependenciesBuilder) WithDriver(drv driver.Driver) *MockDependenciesBuilder {
	b.deps.DriverFactory = &MockDriverFactory{Driver: drv}
	return b
}

func (b *MockDependenciesBuilder) WithDriverFactory(factory DriverFactory) *MockDependenciesBuilder {
	b.deps.DriverFactory = factory
	return b
}

func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
	return b
}

// WithStdinInput queues answers for confirmation prompts.
func (b *MockDependenciesBuilder) WithStdinInput(answers ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(answers...)
	return b
}

// WithExecutor sets the executor used by validators and doctor checks.
func (b *MockDependenciesBuilder) WithExecutor(exec executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = exec
	return b
}

func (b *MockDependenciesBuilder) WithPlatformPaths(paths *platform.PlatformPaths) *MockDependenciesBuilder {
	b.deps.PlatformDetector = &MockPlatformDetector{Paths: paths}
	return b
}

func (b *MockDependenciesBuilder) WithPlatformError(err error) *MockDependenciesBuilder {
	b.deps.PlatformDetector = &MockPlatformDetector{Err: err}
	return b
}

func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}
