package cli

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/input"
)

func TestRunInstall(t *testing.T) {
	tests := []struct {
		name        string
		site        string
		setup       func(*testing.T, *testEnv)
		wantErr     bool
		errContains string
		validate    func(*testing.T, *testEnv)
	}{
		{
			name: "fresh install",
			site: "acme",
			validate: func(t *testing.T, env *testEnv) {
				d := env.drv
				if len(d.InstallCalls) != 1 {
					t.Fatalf("expected 1 Install call, got %d", len(d.InstallCalls))
				}
				content := d.InstallCalls[0].Content
				if !strings.Contains(content, "upstream django_acme {") || !strings.Contains(content, "server_name acme.example.com;") {
					t.Errorf("unexpected content:\n%s", content)
				}
				if !strings.Contains(content, "dav_methods PUT DELETE MKCOL COPY MOVE;") {
					t.Error("webdav defaults to true")
				}
				if len(d.EnableCalls) != 1 || d.TestCalls != 1 || d.ReloadCalls != 1 {
					t.Errorf("expected enable/test/reload once, got %d/%d/%d", len(d.EnableCalls), d.TestCalls, d.ReloadCalls)
				}

				site := env.cfg.Sites["acme"]
				if !site.Installed || !site.Enabled || len(site.Checksum) != 16 {
					t.Errorf("site state not recorded: %+v", site)
				}
				if env.loader.SaveCalls != 1 {
					t.Errorf("expected 1 save, got %d", env.loader.SaveCalls)
				}
			},
		},
		{
			name: "webdav disabled by site",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				off := false
				env.cfg.Sites["acme"].WebDAV = &off
			},
			validate: func(t *testing.T, env *testEnv) {
				if strings.Contains(env.drv.Files["acme"], "dav_methods") {
					t.Error("webdav block should be dropped")
				}
			},
		},
		{
			name: "unchanged install is skipped",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.Files["acme"] = renderAcme(t, env)
				env.drv.IsEnabledFunc = func(string) (bool, error) { return true, nil }
			},
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.InstallCalls) != 0 || env.drv.ReloadCalls != 0 {
					t.Error("nothing should be written or reloaded")
				}
				if !strings.Contains(env.out.String(), "up to date") {
					t.Errorf("unexpected output: %s", env.out.String())
				}
			},
		},
		{
			name: "overwrite declined",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.Files["acme"] = "# hand edited\n"
				deps.StdinReader = input.NewStringReader("n\n")
			},
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.InstallCalls) != 0 {
					t.Error("declined overwrite must not write")
				}
				if !strings.Contains(env.out.String(), "-# hand edited") {
					t.Errorf("diff should be shown before asking:\n%s", env.out.String())
				}
			},
		},
		{
			name: "overwrite with --yes",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.Files["acme"] = "# hand edited\n"
				deps.StdinReader = input.NewStringReader()
				assumeYes = true
			},
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.InstallCalls) != 1 {
					t.Errorf("expected overwrite, got %d Install calls", len(env.drv.InstallCalls))
				}
			},
		},
		{
			name: "test failure restores previous configuration",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.Files["acme"] = "# previous\n"
				env.drv.IsEnabledFunc = func(string) (bool, error) { return true, nil }
				env.drv.TestFunc = func() error {
					return errors.ValidationFailed("nginx", "nginx: [emerg] bad", stderrors.New("exit status 1"))
				}
				assumeYes = true
			},
			wantErr: true,
			validate: func(t *testing.T, env *testEnv) {
				if got := env.drv.Files["acme"]; got != "# previous\n" {
					t.Errorf("previous content not restored, got %q", got)
				}
				if env.drv.ReloadCalls != 0 {
					t.Error("must not reload after a failed test")
				}
				if env.cfg.Sites["acme"].Installed {
					t.Error("failed install must not be recorded")
				}
			},
		},
		{
			name: "test failure on fresh install removes the site",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.TestFunc = func() error { return stderrors.New("syntax error") }
			},
			wantErr: true,
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.RemoveCalls) != 1 {
					t.Errorf("expected rollback Remove, got %v", env.drv.RemoveCalls)
				}
				if _, ok := env.drv.Files["acme"]; ok {
					t.Error("file should be gone after rollback")
				}
			},
		},
		{
			name: "enable failure rolls back",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.EnableFunc = func(string) error { return stderrors.New("symlink failed") }
			},
			wantErr:     true,
			errContains: "symlink failed",
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.RemoveCalls) != 1 || env.drv.TestCalls != 0 {
					t.Errorf("expected Remove and no Test, got %v / %d", env.drv.RemoveCalls, env.drv.TestCalls)
				}
			},
		},
		{
			name: "unreadable previous configuration is kept",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.Files["acme"] = "# previous\n"
				env.drv.ReadFunc = func(string) (string, error) {
					return "", stderrors.New("open /etc/nginx/sites-available/acme.conf: permission denied")
				}
				env.drv.TestFunc = func() error { return stderrors.New("emerg") }
				assumeYes = true
			},
			wantErr:     true,
			errContains: "permission denied",
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.InstallCalls) != 0 || len(env.drv.RemoveCalls) != 0 {
					t.Errorf("nothing should be written or removed, got %d installs, removes %v",
						len(env.drv.InstallCalls), env.drv.RemoveCalls)
				}
				if env.drv.Files["acme"] != "# previous\n" {
					t.Error("previous configuration must survive")
				}
			},
		},
		{
			name: "enabled state unknown",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.drv.IsEnabledFunc = func(string) (bool, error) {
					return false, stderrors.New("failed to check site status: input/output error")
				}
			},
			wantErr:     true,
			errContains: "input/output error",
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.InstallCalls) != 0 || len(env.drv.EnableCalls) != 0 {
					t.Error("install must stop before touching the server")
				}
			},
		},
		{
			name:        "unknown site",
			site:        "ghost",
			wantErr:     true,
			errContains: "site not found",
		},
		{
			name: "root required",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				deps.RootChecker = &MockRootChecker{IsRoot: false}
			},
			wantErr:     true,
			errContains: "root privileges",
		},
		{
			name: "unsafe value fails before touching the server",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				env.cfg.Sites["acme"].ServerDomain = "acme.example.com;"
			},
			wantErr:     true,
			errContains: "server_domain",
			validate: func(t *testing.T, env *testEnv) {
				if len(env.drv.InstallCalls) != 0 {
					t.Error("nothing should be written")
				}
			},
		},
		{
			name: "no-reload still tests",
			site: "acme",
			setup: func(t *testing.T, env *testEnv) {
				noReload = true
			},
			validate: func(t *testing.T, env *testEnv) {
				if env.drv.TestCalls != 1 || env.drv.ReloadCalls != 0 {
					t.Errorf("expected test without reload, got %d/%d", env.drv.TestCalls, env.drv.ReloadCalls)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(t, env)
			}

			err := runInstall(nil, []string{tt.site})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, env)
			}
		})
	}
}

func TestRunInstallDryRun(t *testing.T) {
	env := newTestEnv(t)
	dryRun = true
	jsonOutput = true

	if err := runInstall(nil, []string{"acme"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := env.drv
	if len(d.InstallCalls) != 0 || len(d.EnableCalls) != 0 || d.TestCalls != 0 || d.ReloadCalls != 0 {
		t.Error("dry run must not touch the driver")
	}
	if env.loader.SaveCalls != 0 {
		t.Error("dry run must not save config")
	}

	out := env.out.String()
	for _, want := range []string{`"dry_run": true`, `"write_config"`, `"create_symlink"`, `"reload_server"`, "upstream django_acme"} {
		if !strings.Contains(out, want) {
			t.Errorf("dry-run output missing %s:\n%s", want, out)
		}
	}
}

func TestRunInstallValidate(t *testing.T) {
	env := newTestEnv(t)
	installValidate = true

	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("nginx: [emerg] unknown directive \"dav_methods\""), stderrors.New("exit status 1")
		},
	}
	deps.Executor = mock

	err := runInstall(nil, []string{"acme"})
	if !errors.Is(err, errors.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if len(mock.Calls) != 1 || mock.Calls[0].Name != "nginx" {
		t.Errorf("expected nginx -t run, got %v", mock.Commands())
	}
	if len(env.drv.InstallCalls) != 0 {
		t.Error("rejected configuration must not be installed")
	}
}
