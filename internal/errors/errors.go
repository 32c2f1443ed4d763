// Package errors provides the error taxonomy of siterender.
//
// Every failure surfaced by loading, rendering, validating or installing a
// template is a *TemplateError carrying a Code. None of them are retried:
// each is fixed by correcting the template, the render context or the
// environment.
//
// # Error Codes
//
//   - NOT_FOUND: template (or site) does not exist
//   - PARSE: template structure is malformed
//   - MISSING_VARIABLE: render context lacks a referenced name
//   - INVALID_CONTEXT: a value would break the target config syntax
//   - VALIDATION: the target server rejected the rendered output
//   - CONFIG, DRIVER, PERMISSION, INTERNAL: environment failures
//
// # Usage
//
//	return errors.NotFound("/srv/templates/nginx.tmpl")
//	return errors.Parse("nginx", 12, "nested conditional blocks are not supported")
//	return errors.MissingVariable("nginx", "server_domain")
//
// Check with errors.Is against the sentinels, or errors.As for details:
//
//	if errors.Is(err, errors.ErrMissingVariable) {
//	    var te *errors.TemplateError
//	    errors.As(err, &te)
//	    fmt.Println("missing", te.Name)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"        // Template or site not found
	ErrCodeParse           ErrorCode = "PARSE"            // Malformed template structure
	ErrCodeMissingVariable ErrorCode = "MISSING_VARIABLE" // Render context incomplete
	ErrCodeInvalidContext  ErrorCode = "INVALID_CONTEXT"  // Unsafe substitution value
	ErrCodeValidation      ErrorCode = "VALIDATION"       // Rejected by the target server
	ErrCodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"   // Site already exists
	ErrCodePermission      ErrorCode = "PERMISSION"       // Permission denied
	ErrCodeConfig          ErrorCode = "CONFIG"           // Configuration error
	ErrCodeDriver          ErrorCode = "DRIVER"           // Web server driver error
	ErrCodeInternal        ErrorCode = "INTERNAL"         // Internal/unexpected error
)

// TemplateError represents a structured error with context about the operation.
type TemplateError struct {
	Code     ErrorCode // Error category
	Message  string    // Human-readable message
	Template string    // Template name or path (if applicable)
	Name     string    // Placeholder or flag name (if applicable)
	Line     int       // 1-based source line (0 when unknown)
	Output   string    // Output of an external checker (VALIDATION only)
	Err      error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Name)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	switch {
	case e.Template != "" && e.Line > 0:
		return fmt.Sprintf("template %s:%d: %s", e.Template, e.Line, msg)
	case e.Template != "":
		return fmt.Sprintf("template %s: %s", e.Template, msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *TemplateError) Is(target error) bool {
	t, ok := target.(*TemplateError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for use with errors.Is.
var (
	// ErrTemplateNotFound indicates the template path or builtin name does not exist.
	ErrTemplateNotFound = &TemplateError{Code: ErrCodeNotFound, Message: "template not found"}

	// ErrParse indicates a malformed placeholder or conditional block.
	ErrParse = &TemplateError{Code: ErrCodeParse, Message: "malformed template"}

	// ErrMissingVariable indicates the render context lacks a referenced name.
	ErrMissingVariable = &TemplateError{Code: ErrCodeMissingVariable, Message: "missing variable"}

	// ErrInvalidContext indicates a value unsafe for the target config syntax.
	ErrInvalidContext = &TemplateError{Code: ErrCodeInvalidContext, Message: "invalid context value"}

	// ErrValidationFailed indicates the target server rejected the rendered output.
	ErrValidationFailed = &TemplateError{Code: ErrCodeValidation, Message: "validation failed"}

	// ErrSiteExists indicates a site with the same name is already configured.
	ErrSiteExists = &TemplateError{Code: ErrCodeAlreadyExists, Message: "site already exists"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &TemplateError{Code: ErrCodePermission, Message: "root privileges required"}

	// ErrSiteNotFound indicates a site has no configuration file or config entry.
	ErrSiteNotFound = &TemplateError{Code: ErrCodeNotFound, Message: "site not found"}

	// ErrConfigInvalid indicates the configuration is invalid or corrupt.
	ErrConfigInvalid = &TemplateError{Code: ErrCodeConfig, Message: "invalid configuration"}

	// ErrDriverNotFound indicates the specified driver is not available.
	ErrDriverNotFound = &TemplateError{Code: ErrCodeDriver, Message: "driver not found"}
)

// NotFound creates an error for a template that doesn't exist.
func NotFound(template string) error {
	return &TemplateError{
		Code:     ErrCodeNotFound,
		Message:  "template not found",
		Template: template,
	}
}

// SiteNotFound creates an error for a site missing from the configuration.
func SiteNotFound(site string) error {
	return &TemplateError{
		Code:    ErrCodeNotFound,
		Message: "site not found",
		Name:    site,
	}
}

// Parse creates an error for malformed template structure at line.
func Parse(template string, line int, msg string) error {
	return &TemplateError{
		Code:     ErrCodeParse,
		Message:  msg,
		Template: template,
		Line:     line,
	}
}

// MissingVariable creates an error naming the first unresolved placeholder or flag.
func MissingVariable(template, name string) error {
	return &TemplateError{
		Code:     ErrCodeMissingVariable,
		Message:  "missing variable",
		Template: template,
		Name:     name,
	}
}

// InvalidContext creates an error for a value that would break the target syntax.
func InvalidContext(template, name, reason string) error {
	return &TemplateError{
		Code:     ErrCodeInvalidContext,
		Message:  "invalid value for",
		Template: template,
		Name:     name,
		Err:      errors.New(reason),
	}
}

// ValidationFailed creates an error carrying the output of an external checker.
func ValidationFailed(checker, output string, err error) error {
	return &TemplateError{
		Code:    ErrCodeValidation,
		Message: checker + " rejected the rendered configuration",
		Output:  output,
		Err:     err,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &TemplateError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &TemplateError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
