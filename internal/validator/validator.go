// Package validator runs a rendered document past the target server's own
// configuration check.
//
// siterender does not understand Nginx or Apache syntax itself. A Validator
// wraps the rendered document in a minimal main configuration, asks the
// server binary for a dry-run (`nginx -t`, `apache2ctl -t`) and reports the
// verdict. Templates without a checker use Nop.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/executor"
	"github.com/ksyq12/siterender/internal/logger"
	"github.com/ksyq12/siterender/internal/template"
)

// Validator checks a rendered document. A nil error means the consumer
// accepts it; a rejection is an errors.ErrValidationFailed.
type Validator interface {
	Name() string
	Validate(doc *template.Document) error
}

// Result is the outcome of a validation, suitable for JSON output.
type Result struct {
	Validator string `json:"validator"`
	OK        bool   `json:"ok"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Run validates doc with v and folds the outcome into a Result.
func Run(v Validator, doc *template.Document) Result {
	res := Result{Validator: v.Name(), OK: true}
	if err := v.Validate(doc); err != nil {
		res.OK = false
		res.Error = err.Error()
		var te *errors.TemplateError
		if errors.As(err, &te) {
			res.Output = te.Output
		}
	}
	return res
}

// Func adapts a function to the Validator interface.
type Func struct {
	Label string
	Fn    func(doc *template.Document) error
}

// Name returns the label.
func (f Func) Name() string { return f.Label }

// Validate calls Fn.
func (f Func) Validate(doc *template.Document) error { return f.Fn(doc) }

// Nop accepts every document.
type Nop struct{}

// Name returns "none".
func (Nop) Name() string { return "none" }

// Validate always succeeds.
func (Nop) Validate(*template.Document) error { return nil }

// ForTarget returns the validator for a builtin template's target server.
// An empty target yields Nop.
func ForTarget(target string, exec executor.CommandExecutor) (Validator, error) {
	switch target {
	case "":
		return Nop{}, nil
	case "nginx":
		return NewNginx(exec), nil
	case "apache":
		return NewApache(exec), nil
	default:
		return nil, errors.Validation(fmt.Sprintf("no validator for target %s (available: nginx, apache)", target))
	}
}

// stage writes doc and a wrapper config into a fresh temp dir and returns the
// dir and both paths. The caller removes dir.
func stage(root, prefix string, doc *template.Document, wrapper func(dir, site string) string) (dir, site, main string, err error) {
	dir, err = os.MkdirTemp(root, prefix)
	if err != nil {
		return "", "", "", errors.Wrap(errors.ErrCodeInternal, "failed to create temp dir", err)
	}
	site = filepath.Join(dir, "site.conf")
	main = filepath.Join(dir, "main.conf")
	if err = os.WriteFile(site, []byte(doc.Content), 0644); err == nil {
		err = os.WriteFile(main, []byte(wrapper(dir, site)), 0644)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", "", "", errors.Wrap(errors.ErrCodeInternal, "failed to stage config for validation", err)
	}
	return dir, site, main, nil
}

// check runs a server binary and converts a failure into a validation error.
func check(exec executor.CommandExecutor, label, binary string, args ...string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, binary+" not found in PATH", err)
	}
	out, err := exec.Execute(binary, args...)
	if err != nil {
		return errors.ValidationFailed(label, strings.TrimSpace(string(out)), err)
	}
	logger.Debug("%s accepted the rendered configuration", label)
	return nil
}
