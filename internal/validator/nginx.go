package validator

import (
	"fmt"

	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/template"
)

// nginxWrapper is a main config just large enough to host a server block.
const nginxWrapper = `pid %[1]s/nginx.pid;
error_log stderr;
events {}
http {
    include %[2]s;
}
`

// Nginx validates server blocks with `nginx -t`.
type Nginx struct {
	Binary  string
	TempDir string // parent for staging dirs, "" for os.TempDir
	exec    executor.CommandExecutor
}

// NewNginx creates an Nginx validator using the nginx binary on PATH.
func NewNginx(exec executor.CommandExecutor) *Nginx {
	return &Nginx{Binary: "nginx", exec: exec}
}

// Name returns "nginx".
func (v *Nginx) Name() string { return "nginx" }

// Validate runs nginx -t against doc included from a wrapper http block.
func (v *Nginx) Validate(doc *template.Document) error {
	dir, _, main, err := stage(v.TempDir, "siterender-nginx-", doc, func(dir, site string) string {
		return fmt.Sprintf(nginxWrapper, dir, site)
	})
	if err != nil {
		return err
	}
	defer removeAll(dir)

	return check(v.exec, v.Name(), v.Binary, "-t", "-q", "-p", dir, "-c", main)
}
