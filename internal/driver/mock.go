package driver

import "github.com/ksyq12/siterender/internal/errors"

// MockDriver is a test double for Driver interface. Installed content is kept
// in memory so Read returns what Install wrote unless ReadFunc says otherwise.
type MockDriver struct {
	name  string
	paths Paths

	Files map[string]string

	// Function mocks - set these to customize behavior
	InstallFunc   func(name, content string) error
	ReadFunc      func(name string) (string, error)
	RemoveFunc    func(name string) error
	EnableFunc    func(name string) error
	DisableFunc   func(name string) error
	ListFunc      func() ([]string, error)
	IsEnabledFunc func(name string) (bool, error)
	TestFunc      func() error
	ReloadFunc    func() error

	// Call tracking - check these to verify interactions
	InstallCalls   []InstallCall
	RemoveCalls    []string
	EnableCalls    []string
	DisableCalls   []string
	ListCalls      int
	IsEnabledCalls []string
	TestCalls      int
	ReloadCalls    int
}

// InstallCall records arguments passed to Install
type InstallCall struct {
	Name    string
	Content string
}

// NewMockDriver creates a new MockDriver with default no-op implementations
func NewMockDriver(name, availableDir, enabledDir string) *MockDriver {
	return &MockDriver{
		name: name,
		paths: Paths{
			Available: availableDir,
			Enabled:   enabledDir,
		},
		Files: make(map[string]string),
	}
}

// Name returns the driver name
func (m *MockDriver) Name() string {
	return m.name
}

// Template returns the driver name, matching the builtin of the same name
func (m *MockDriver) Template() string {
	return m.name
}

// Paths returns the configured paths
func (m *MockDriver) Paths() Paths {
	return m.paths
}

// Install records the call and stores content unless InstallFunc fails
func (m *MockDriver) Install(name, content string) error {
	m.InstallCalls = append(m.InstallCalls, InstallCall{Name: name, Content: content})
	if m.InstallFunc != nil {
		if err := m.InstallFunc(name, content); err != nil {
			return err
		}
	}
	m.Files[name] = content
	return nil
}

// Read returns stored content or invokes the mock function if set
func (m *MockDriver) Read(name string) (string, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(name)
	}
	content, ok := m.Files[name]
	if !ok {
		return "", errors.SiteNotFound(name)
	}
	return content, nil
}

// Remove records the call and invokes the mock function if set
func (m *MockDriver) Remove(name string) error {
	m.RemoveCalls = append(m.RemoveCalls, name)
	if m.RemoveFunc != nil {
		return m.RemoveFunc(name)
	}
	delete(m.Files, name)
	return nil
}

// Enable records the call and invokes the mock function if set
func (m *MockDriver) Enable(name string) error {
	m.EnableCalls = append(m.EnableCalls, name)
	if m.EnableFunc != nil {
		return m.EnableFunc(name)
	}
	return nil
}

// Disable records the call and invokes the mock function if set
func (m *MockDriver) Disable(name string) error {
	m.DisableCalls = append(m.DisableCalls, name)
	if m.DisableFunc != nil {
		return m.DisableFunc(name)
	}
	return nil
}

// List records the call and invokes the mock function if set
func (m *MockDriver) List() ([]string, error) {
	m.ListCalls++
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return []string{}, nil
}

// IsEnabled records the call and invokes the mock function if set
func (m *MockDriver) IsEnabled(name string) (bool, error) {
	m.IsEnabledCalls = append(m.IsEnabledCalls, name)
	if m.IsEnabledFunc != nil {
		return m.IsEnabledFunc(name)
	}
	return false, nil
}

// Test records the call and invokes the mock function if set
func (m *MockDriver) Test() error {
	m.TestCalls++
	if m.TestFunc != nil {
		return m.TestFunc()
	}
	return nil
}

// Reload records the call and invokes the mock function if set
func (m *MockDriver) Reload() error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}
