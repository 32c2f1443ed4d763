package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/executor"
)

func TestCheckSystemRequirements(t *testing.T) {
	tests := []struct {
		name    string
		missing string
		want    map[string]string
	}{
		{
			name: "both installed",
			want: map[string]string{
				"Nginx installed (1.24.0)":  "success",
				"Apache installed (2.4.58)": "success",
			},
		},
		{
			name:    "optional server missing",
			missing: "apache2ctl",
			want: map[string]string{
				"Nginx installed (1.24.0)":        "success",
				"Apache not installed (optional)": "warning",
			},
		},
		{
			name:    "configured server missing",
			missing: "nginx",
			want: map[string]string{
				"Nginx not installed":       "error",
				"Apache installed (2.4.58)": "success",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &executor.MockExecutor{
				LookPathFunc: func(file string) (string, error) {
					if file == tt.missing {
						return "", fmt.Errorf("not found")
					}
					return "/usr/sbin/" + file, nil
				},
				ExecuteFunc: func(name string, args ...string) ([]byte, error) {
					if name == "nginx" {
						return []byte("nginx version: nginx/1.24.0 (Ubuntu)\n"), nil
					}
					return []byte("Server version: Apache/2.4.58 (Ubuntu)\n"), nil
				},
			}

			results := checkSystemRequirements(mock, config.New())
			got := make(map[string]string)
			for _, r := range results {
				got[r.Message] = r.Status
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for msg, status := range tt.want {
				if got[msg] != status {
					t.Errorf("%q: status %q, want %q (all: %v)", msg, got[msg], status, got)
				}
			}
		})
	}
}

func TestCheckConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("driver: nginx\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configPath = path
	t.Cleanup(func() { configPath = "" })

	cfg := config.New()
	cfg.TemplateDir = filepath.Join(t.TempDir(), "missing")

	results := checkConfiguration(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}
	if results[0].Status != "success" {
		t.Errorf("config file check: %+v", results[0])
	}
	if results[1].Status != "error" || !strings.Contains(results[1].Message, "not found") {
		t.Errorf("template dir check: %+v", results[1])
	}
}

func TestCheckSites(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*testing.T, *testEnv)
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "not installed",
			wantStatus: "success",
			wantMsg:    "not installed",
		},
		{
			name: "installed and current",
			setup: func(t *testing.T, env *testEnv) {
				content := renderAcme(t, env)
				env.drv.Files["acme"] = content
				env.drv.IsEnabledFunc = func(string) (bool, error) { return true, nil }
				site := env.cfg.Sites["acme"]
				site.Installed, site.Enabled = true, true
				site.Checksum = fmt.Sprintf("%016x", xxhash.Sum64String(content))
			},
			wantStatus: "success",
			wantMsg:    "enabled, up to date",
		},
		{
			name: "edited by hand",
			setup: func(t *testing.T, env *testEnv) {
				content := renderAcme(t, env)
				env.drv.Files["acme"] = content + "# local tweak\n"
				env.drv.IsEnabledFunc = func(string) (bool, error) { return true, nil }
				site := env.cfg.Sites["acme"]
				site.Installed, site.Enabled = true, true
				site.Checksum = fmt.Sprintf("%016x", xxhash.Sum64String(content))
			},
			wantStatus: "warning",
			wantMsg:    "modified outside siterender",
		},
		{
			name: "stale after config change",
			setup: func(t *testing.T, env *testEnv) {
				content := renderAcme(t, env)
				env.drv.Files["acme"] = content
				site := env.cfg.Sites["acme"]
				site.Installed = true
				site.Checksum = fmt.Sprintf("%016x", xxhash.Sum64String(content))
				site.ServerDomain = "new.example.com"
			},
			wantStatus: "warning",
			wantMsg:    "differs from a fresh render",
		},
		{
			name: "file missing",
			setup: func(t *testing.T, env *testEnv) {
				env.cfg.Sites["acme"].Installed = true
			},
			wantStatus: "error",
			wantMsg:    "has no configuration",
		},
		{
			name: "unrenderable",
			setup: func(t *testing.T, env *testEnv) {
				env.cfg.Sites["acme"].EnvLink = "env; rm"
			},
			wantStatus: "error",
			wantMsg:    "does not render",
		},
		{
			name: "enabled mismatch",
			setup: func(t *testing.T, env *testEnv) {
				env.cfg.Sites["acme"].Enabled = true
			},
			wantStatus: "warning",
			wantMsg:    "enabled mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(t, env)
			}

			statuses := checkSites(env.drv, env.cfg)
			if len(statuses) != 1 {
				t.Fatalf("expected 1 site, got %d", len(statuses))
			}

			found := false
			for _, c := range statuses[0].Checks {
				if c.Status == tt.wantStatus && strings.Contains(c.Message, tt.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("no %s check containing %q in %+v", tt.wantStatus, tt.wantMsg, statuses[0].Checks)
			}
		})
	}
}

func TestRunDoctor(t *testing.T) {
	env := newTestEnv(t)
	configPath = filepath.Join(t.TempDir(), "absent.yaml")

	if err := runDoctor(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := env.out.String()
	for _, want := range []string{
		"Checking system requirements...",
		"Config file not found, using defaults",
		"Checking sites...",
		"acme - not installed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
