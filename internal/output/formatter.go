// Package output prints user-facing results: colored status lines, tables,
// JSON documents, rendered configurations and unified diffs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ksyq12/siterender/internal/errors"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	addColor     = color.New(color.FgGreen)
	delColor     = color.New(color.FgRed)
)

var out io.Writer = os.Stdout

// SetWriter redirects all output; nil restores stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Writer returns the current output destination.
func Writer() io.Writer {
	return out
}

// JSON outputs data as JSON
func JSON(data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table outputs data as a formatted table
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) {
		padded := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(padded, "  "), " "))
	}

	line(headers)
	sep := make([]string, len(headers))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	line(sep)
	for _, row := range rows {
		line(row)
	}
}

// Document writes rendered text verbatim.
func Document(content string) {
	fmt.Fprint(out, content)
}

// Diff returns a unified diff of two configurations, or "" when equal.
func Diff(before, after, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

// PrintDiff writes a unified diff with added and removed lines colored.
func PrintDiff(diff string) {
	for _, l := range splitLines(diff) {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			fmt.Fprint(out, l)
		case strings.HasPrefix(l, "+"):
			_, _ = addColor.Fprint(out, l)
		case strings.HasPrefix(l, "-"):
			_, _ = delColor.Fprint(out, l)
		default:
			fmt.Fprint(out, l)
		}
	}
}

// splitLines splits s after each newline. Unlike difflib.SplitLines it adds
// no empty trailing line.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Rejected prints err and, for a validation failure, the checker's output.
func Rejected(err error) {
	Error("%v", err)
	var te *errors.TemplateError
	if errors.As(err, &te) && te.Output != "" {
		for _, l := range strings.Split(te.Output, "\n") {
			fmt.Fprintln(out, "    "+l)
		}
	}
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(out, "✓ "+format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(out, "✗ "+format+"\n", args...)
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(out, "! "+format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(out, "→ "+format+"\n", args...)
}

// Print prints a plain message
func Print(format string, args ...interface{}) {
	fmt.Fprintf(out, format+"\n", args...)
}
