package validator

import (
	"fmt"
	"os"

	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/template"
)

// Apache validates virtual hosts with `apache2ctl -t`. The wrapper pulls in
// the system main config first so the modules the document needs
// (mod_ssl, mod_wsgi) are loaded.
type Apache struct {
	Binary     string
	ServerRoot string
	MainConfig string
	TempDir    string
	exec       executor.CommandExecutor
}

// NewApache creates an Apache validator with Debian defaults.
func NewApache(exec executor.CommandExecutor) *Apache {
	return &Apache{
		Binary:     "apache2ctl",
		ServerRoot: "/etc/apache2",
		MainConfig: "/etc/apache2/apache2.conf",
		exec:       exec,
	}
}

// Name returns "apache".
func (v *Apache) Name() string { return "apache" }

// Validate runs the apache config test against the main config plus doc.
func (v *Apache) Validate(doc *template.Document) error {
	dir, _, main, err := stage(v.TempDir, "siterender-apache-", doc, func(_, site string) string {
		return fmt.Sprintf("Include %s\nInclude %s\n", v.MainConfig, site)
	})
	if err != nil {
		return err
	}
	defer removeAll(dir)

	return check(v.exec, v.Name(), v.Binary, "-d", v.ServerRoot, "-f", main, "-t")
}

func removeAll(dir string) {
	_ = os.RemoveAll(dir)
}
