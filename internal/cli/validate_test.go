package cli

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/validator"
)

func writeRendered(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acme.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		driver     string
		execute    func(name string, args ...string) ([]byte, error)
		missing    bool
		wantErr    error
		wantBinary string
	}{
		{
			name:       "defaults to configured driver",
			wantBinary: "nginx",
		},
		{
			name:       "apache driver",
			driver:     "apache",
			wantBinary: "apache2ctl",
		},
		{
			name:       "explicit target",
			target:     "apache",
			wantBinary: "apache2ctl",
		},
		{
			name: "rejected",
			execute: func(name string, args ...string) ([]byte, error) {
				return []byte("nginx: [emerg] invalid number of arguments"), stderrors.New("exit status 1")
			},
			wantErr:    errors.ErrValidationFailed,
			wantBinary: "nginx",
		},
		{
			name:    "missing file",
			missing: true,
			wantErr: errors.ErrTemplateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.driver != "" {
				env.cfg.Driver = tt.driver
			}
			validateTarget = tt.target
			mock := &executor.MockExecutor{ExecuteFunc: tt.execute}
			deps.Executor = mock

			path := filepath.Join(t.TempDir(), "absent.conf")
			if !tt.missing {
				path = writeRendered(t, renderAcme(t, env))
			}

			err := runValidate(nil, []string{path})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantBinary == "" {
				if len(mock.Calls) != 0 {
					t.Errorf("no checker should run, got %v", mock.Commands())
				}
				return
			}
			if len(mock.Calls) != 1 || mock.Calls[0].Name != tt.wantBinary {
				t.Errorf("expected %s, got %v", tt.wantBinary, mock.Commands())
			}
		})
	}
}

func TestRunValidateJSON(t *testing.T) {
	env := newTestEnv(t)
	jsonOutput = true
	deps.Executor = &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("nginx: [emerg] unexpected \"}\"\n"), stderrors.New("exit status 1")
		},
	}

	path := writeRendered(t, "server {\n}\n}\n")
	err := runValidate(nil, []string{path})
	if !errors.Is(err, errors.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}

	var res validator.Result
	if err := json.Unmarshal(env.out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.out.String())
	}
	if res.OK || res.Validator != "nginx" || !strings.Contains(res.Output, "unexpected") {
		t.Errorf("unexpected result: %+v", res)
	}
}
