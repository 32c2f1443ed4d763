// Package executor runs the external programs siterender depends on:
// server config checkers (nginx -t, apache2ctl -t) and reload commands.
package executor

import (
	"os/exec"
	"strings"

	"github.com/ksyq12/siterender/internal/logger"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command and returns its combined stdout and stderr
	Execute(name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(name string, args ...string) ([]byte, error) {
	logger.DebugFields("Executing command", map[string]interface{}{
		"cmd":  name,
		"args": strings.Join(args, " "),
	})
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		logger.Debug("%s exited with error: %v", name, err)
	}
	return out, err
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// String returns the call as a shell-like command line.
func (c CommandCall) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// Execute records the call and invokes ExecuteFunc when set
func (m *MockExecutor) Execute(name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath invokes LookPathFunc when set, otherwise reports /usr/bin/<file>
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// Commands returns the recorded calls as command lines.
func (m *MockExecutor) Commands() []string {
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.String()
	}
	return out
}
