package template

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/siterender/internal/errors"
)

//go:embed builtin/*.tmpl
var builtinFS embed.FS

// Info describes an embedded template.
type Info struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Validator   string `json:"validator,omitempty"`
	Description string `json:"description"`
}

var builtins = []Info{
	{
		Name:        "nginx",
		File:        "nginx.conf.tmpl",
		Validator:   "nginx",
		Description: "Nginx server block proxying to uWSGI, serving static/media, optional WebDAV",
	},
	{
		Name:        "apache",
		File:        "apache.conf.tmpl",
		Validator:   "apache",
		Description: "Apache HTTP->HTTPS redirect plus mod_wsgi virtual host",
	},
	{
		Name:        "uwsgi",
		File:        "uwsgi.ini.tmpl",
		Description: "uWSGI ini for the application socket used by the nginx template",
	},
	{
		Name:        "supervisor",
		File:        "supervisor.conf.tmpl",
		Description: "supervisor program entry starting the uWSGI daemon",
	},
}

// Builtins lists the embedded templates.
func Builtins() []Info {
	out := make([]Info, len(builtins))
	copy(out, builtins)
	return out
}

// LookupBuiltin returns the description of the named embedded template.
func LookupBuiltin(name string) (Info, bool) {
	for _, b := range builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Info{}, false
}

// Builtin parses the named embedded template.
func Builtin(name string) (*Template, error) {
	info, ok := LookupBuiltin(name)
	if !ok {
		return nil, errors.NotFound(name)
	}
	content, err := builtinFS.ReadFile("builtin/" + info.File)
	if err != nil {
		return nil, errors.NotFound(name)
	}
	return Parse(name, string(content))
}

// IsFileRef reports whether ref names a file rather than a builtin.
func IsFileRef(ref string) bool {
	return strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') ||
		strings.HasSuffix(ref, ".tmpl")
}

// Resolve loads ref as a file when it looks like a path, from dir/<ref>.tmpl
// when dir holds an override, and as a builtin otherwise.
func Resolve(ref, dir string) (*Template, error) {
	if IsFileRef(ref) {
		return Load(ref)
	}
	if dir != "" {
		override := filepath.Join(dir, ref+".tmpl")
		if _, err := os.Stat(override); err == nil {
			return Load(override)
		}
	}
	return Builtin(ref)
}

// ResolvePath returns the file Resolve would read for ref, or "" for a builtin.
func ResolvePath(ref, dir string) string {
	if IsFileRef(ref) {
		return ref
	}
	if dir != "" {
		override := filepath.Join(dir, ref+".tmpl")
		if _, err := os.Stat(override); err == nil {
			return override
		}
	}
	return ""
}
