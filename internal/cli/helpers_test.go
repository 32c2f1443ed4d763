package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/driver"
	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// testEnv is the injected state of one CLI test.
type testEnv struct {
	cfg    *config.Config
	loader *MockConfigLoader
	drv    *driver.MockDriver
	out    *bytes.Buffer
}

// newTestEnv installs mock dependencies with one site, acme, and captures
// output. Flags are reset and everything is restored on cleanup.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir := t.TempDir()
	drv := driver.NewMockDriver("nginx",
		filepath.Join(tempDir, "sites-available"),
		filepath.Join(tempDir, "sites-enabled"))

	cfg := config.New()
	cfg.Sites["acme"] = &config.Site{
		Name:         "acme",
		ServerDomain: "acme.example.com",
		CreatedAt:    time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	loader := &MockConfigLoader{Cfg: cfg}

	oldDeps := GetDeps()
	SetDeps(NewMockDeps().
		WithConfigLoader(loader).
		WithDriver(drv).
		Build())

	var buf bytes.Buffer
	output.SetWriter(&buf)

	resetFlags()
	t.Cleanup(func() {
		SetDeps(oldDeps)
		output.SetWriter(nil)
		resetFlags()
	})

	return &testEnv{cfg: cfg, loader: loader, drv: drv, out: &buf}
}

func resetFlags() {
	jsonOutput = false
	dryRun = false
	noReload = false
	configPath = ""
	forceRemove = false
	assumeYes = false
	installValidate = false

	renderCtx = contextOptions{}
	renderOut = ""
	renderOutDir = ""
	renderValidate = false
	renderTarget = ""
	renderWatch = false

	siteProjectDir = ""
	siteDomain = ""
	siteEnvLink = ""
	siteWebDAV = ""
	siteExtra = nil

	validateTarget = ""
}

// renderAcme renders the builtin nginx template the way install does.
func renderAcme(t *testing.T, env *testEnv) string {
	t.Helper()
	tmpl, err := template.Builtin("nginx")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := template.Render(tmpl, env.cfg.Context(env.cfg.Sites["acme"]))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Content
}
