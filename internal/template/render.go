package template

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ksyq12/siterender/internal/errors"
)

// Context supplies placeholder values and conditional flags for a render.
type Context struct {
	Values map[string]string
	Flags  map[string]bool
}

// NewContext returns an empty Context ready for Set and SetFlag.
func NewContext() Context {
	return Context{
		Values: make(map[string]string),
		Flags:  make(map[string]bool),
	}
}

// Set assigns a placeholder value.
func (c Context) Set(name, value string) Context {
	c.Values[name] = value
	return c
}

// SetFlag assigns a conditional flag.
func (c Context) SetFlag(name string, on bool) Context {
	c.Flags[name] = on
	return c
}

// Merge returns a new Context with the entries of other layered over c.
func (c Context) Merge(other Context) Context {
	out := NewContext()
	for k, v := range c.Values {
		out.Values[k] = v
	}
	for k, v := range c.Flags {
		out.Flags[k] = v
	}
	for k, v := range other.Values {
		out.Values[k] = v
	}
	for k, v := range other.Flags {
		out.Flags[k] = v
	}
	return out
}

// Document is the fully rendered output of a template.
type Document struct {
	Content string
}

// String returns the rendered text.
func (d *Document) String() string {
	return d.Content
}

// Checksum returns the xxhash of the rendered text.
func (d *Document) Checksum() uint64 {
	return xxhash.Sum64String(d.Content)
}

// ChecksumHex returns Checksum as a fixed-width hex string.
func (d *Document) ChecksumHex() string {
	return fmt.Sprintf("%016x", d.Checksum())
}

// unsafeChars break unquoted Apache and Nginx directive arguments.
const unsafeChars = "\"'`;{}#\\$"

// checkValue reports why value cannot be substituted, or "" when it can.
func checkValue(value string) string {
	if value == "" {
		return "value is empty"
	}
	for _, r := range value {
		switch {
		case unicode.IsSpace(r):
			return "contains whitespace"
		case unicode.IsControl(r):
			return "contains a control character"
		case strings.ContainsRune(unsafeChars, r):
			return fmt.Sprintf("contains %q", r)
		}
	}
	return ""
}

// check verifies, in document order, that ctx resolves every placeholder and
// flag of t and that every referenced value is safe.
func check(t *Template, ctx Context) error {
	var err error
	walk(t.nodes, func(n Node) {
		if err != nil {
			return
		}
		switch n := n.(type) {
		case *Placeholder:
			value, ok := ctx.Values[n.Name]
			if !ok {
				err = errors.MissingVariable(t.name, n.Name)
				return
			}
			if reason := checkValue(value); reason != "" {
				err = errors.InvalidContext(t.name, n.Name, reason)
			}
		case *Conditional:
			if _, ok := ctx.Flags[n.Flag]; !ok {
				err = errors.MissingVariable(t.name, n.Flag)
			}
		}
	})
	return err
}

// Render substitutes placeholders and resolves conditionals. It is a pure
// function of its arguments and safe to call concurrently.
func Render(t *Template, ctx Context) (*Document, error) {
	if err := check(t, ctx); err != nil {
		return nil, err
	}

	var b strings.Builder
	write(&b, t.nodes, ctx)
	return &Document{Content: b.String()}, nil
}

func write(b *strings.Builder, nodes []Node, ctx Context) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *Placeholder:
			b.WriteString(ctx.Values[n.Name])
		case *Conditional:
			if ctx.Flags[n.Flag] {
				write(b, n.Then, ctx)
			} else {
				write(b, n.Else, ctx)
			}
		}
	}
}

// Job pairs a template with the context to render it with.
type Job struct {
	Template *Template
	Context  Context
}

// RenderAll renders jobs concurrently. Documents are returned in job order;
// the first failure cancels the remaining jobs and is returned.
func RenderAll(ctx context.Context, jobs []Job) ([]*Document, error) {
	docs := make([]*Document, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := Render(job.Template, job.Context)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
