package driver

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
)

func TestApacheDriver(t *testing.T) {
	tempDir := t.TempDir()
	availableDir := filepath.Join(tempDir, "sites-available")
	enabledDir := filepath.Join(tempDir, "sites-enabled")

	t.Run("InstallAndEnable", func(t *testing.T) {
		drv := NewApacheWithExecutor(availableDir, enabledDir, &executor.MockExecutor{})
		if err := drv.Install("acme", "<VirtualHost *:80>\n</VirtualHost>\n"); err != nil {
			t.Fatalf("Install failed: %v", err)
		}
		if err := drv.Enable("acme"); err != nil {
			t.Fatalf("Enable failed: %v", err)
		}
		if _, err := os.Lstat(filepath.Join(enabledDir, "acme.conf")); err != nil {
			t.Errorf("expected acme.conf symlink: %v", err)
		}
		if drv.Template() != "apache" {
			t.Errorf("unexpected template %s", drv.Template())
		}
	})

	t.Run("Test_success", func(t *testing.T) {
		mock := &executor.MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("Syntax OK"), nil
			},
		}

		drv := NewApacheWithExecutor(availableDir, enabledDir, mock)
		if err := drv.Test(); err != nil {
			t.Errorf("Test should succeed: %v", err)
		}
		if got := mock.Commands(); len(got) != 1 || got[0] != "apache2ctl configtest" {
			t.Errorf("expected apache2ctl configtest, got %v", got)
		}
	})

	t.Run("Test_failure", func(t *testing.T) {
		mock := &executor.MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("AH00526: Syntax error on line 3"), stderrors.New("exit status 1")
			},
		}

		drv := NewApacheWithExecutor(availableDir, enabledDir, mock)
		if err := drv.Test(); !errors.Is(err, errors.ErrValidationFailed) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Reload_fallback", func(t *testing.T) {
		mock := &executor.MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				if name == "systemctl" {
					return nil, stderrors.New("no systemd")
				}
				return nil, nil
			},
		}

		drv := NewApacheWithExecutor(availableDir, enabledDir, mock)
		if err := drv.Reload(); err != nil {
			t.Errorf("Reload should succeed with fallback: %v", err)
		}
		got := mock.Commands()
		if len(got) != 2 || got[0] != "systemctl reload apache2" || got[1] != "apache2ctl graceful" {
			t.Errorf("unexpected commands %v", got)
		}
	})
}
