package template

import (
	"os"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ksyq12/siterender/internal/errors"
)

// Node is one element of a parsed template: *Text, *Placeholder or *Conditional.
type Node interface {
	node()
}

// Text is a literal fragment copied to the output unchanged.
type Text struct {
	Value string
}

// Placeholder is a {{ name }} substitution point.
type Placeholder struct {
	Name string
	Line int
}

// Conditional is a flat {% if flag %} ... {% else %} ... {% endif %} block.
type Conditional struct {
	Flag string
	Line int
	Then []Node
	Else []Node
}

func (*Text) node()        {}
func (*Placeholder) node() {}
func (*Conditional) node() {}

// Template is a parsed template. It is immutable once created and safe for
// concurrent use.
type Template struct {
	name     string
	nodes    []Node
	checksum uint64
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads and parses the template file at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read template "+path, err)
	}
	return Parse(path, string(data))
}

// Parse parses text into a Template identified by name.
func Parse(name, text string) (*Template, error) {
	p := &parser{name: name, src: text}
	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Template{
		name:     name,
		nodes:    nodes,
		checksum: xxhash.Sum64String(text),
	}, nil
}

// Name returns the path or builtin name the template was loaded from.
func (t *Template) Name() string {
	return t.name
}

// Nodes returns the top-level nodes in document order.
func (t *Template) Nodes() []Node {
	nodes := make([]Node, len(t.nodes))
	copy(nodes, t.nodes)
	return nodes
}

// Checksum returns the xxhash of the template source.
func (t *Template) Checksum() uint64 {
	return t.checksum
}

// Placeholders returns the distinct placeholder names in document order,
// including those inside conditional blocks.
func (t *Template) Placeholders() []string {
	var names []string
	seen := make(map[string]bool)
	walk(t.nodes, func(n Node) {
		if p, ok := n.(*Placeholder); ok && !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	})
	return names
}

// Flags returns the distinct conditional flag names in document order.
func (t *Template) Flags() []string {
	var names []string
	seen := make(map[string]bool)
	walk(t.nodes, func(n Node) {
		if c, ok := n.(*Conditional); ok && !seen[c.Flag] {
			seen[c.Flag] = true
			names = append(names, c.Flag)
		}
	})
	return names
}

// walk visits nodes depth-first in document order: a conditional is visited
// before its Then branch, which is visited before its Else branch.
func walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		if c, ok := n.(*Conditional); ok {
			walk(c.Then, fn)
			walk(c.Else, fn)
		}
	}
}

// parser turns template source into nodes in a single left-to-right scan.
type parser struct {
	name string
	src  string
	pos  int

	root []Node
	cond *Conditional // open conditional, nil at top level
	els  bool         // inside the else branch of cond
	text strings.Builder
}

func (p *parser) parse() ([]Node, error) {
	for p.pos < len(p.src) {
		next := indexAny(p.src[p.pos:], "{{", "{%")
		if next < 0 {
			p.text.WriteString(p.src[p.pos:])
			break
		}
		start := p.pos + next
		p.text.WriteString(p.src[p.pos:start])

		var err error
		if strings.HasPrefix(p.src[start:], "{{") {
			err = p.placeholder(start)
		} else {
			err = p.tag(start)
		}
		if err != nil {
			return nil, err
		}
	}
	p.flushText()

	if p.cond != nil {
		return nil, errors.Parse(p.name, p.cond.Line, "unclosed conditional block {% if "+p.cond.Flag+" %}")
	}
	return p.root, nil
}

func (p *parser) placeholder(start int) error {
	line := p.lineAt(start)
	end := closing(p.src, start+2, "}}")
	if end < 0 {
		return errors.Parse(p.name, line, "unclosed placeholder")
	}
	name := strings.TrimSpace(p.src[start+2 : end])
	if !identPattern.MatchString(name) {
		return errors.Parse(p.name, line, "malformed placeholder {{"+p.src[start+2:end]+"}}")
	}
	p.flushText()
	p.emit(&Placeholder{Name: name, Line: line})
	p.pos = end + 2
	return nil
}

func (p *parser) tag(start int) error {
	line := p.lineAt(start)
	end := closing(p.src, start+2, "%}")
	if end < 0 {
		return errors.Parse(p.name, line, "unclosed block tag")
	}
	fields := strings.Fields(p.src[start+2 : end])
	tagEnd := end + 2

	// A tag alone on its line swallows the whole line.
	lineStart := strings.LastIndexByte(p.src[:start], '\n') + 1
	if isBlank(p.src[lineStart:start]) {
		rest := p.src[tagEnd:]
		eol := strings.IndexByte(rest, '\n')
		if eol < 0 {
			eol = len(rest)
		}
		if isBlank(rest[:eol]) {
			p.trimText(start - lineStart)
			tagEnd += eol
			if tagEnd < len(p.src) {
				tagEnd++
			}
		}
	}

	switch {
	case len(fields) == 2 && fields[0] == "if":
		if p.cond != nil {
			return errors.Parse(p.name, line, "nested conditional blocks are not supported")
		}
		if !identPattern.MatchString(fields[1]) {
			return errors.Parse(p.name, line, "malformed conditional flag "+fields[1])
		}
		p.flushText()
		p.cond = &Conditional{Flag: fields[1], Line: line}
		p.els = false
	case len(fields) == 1 && fields[0] == "else":
		if p.cond == nil {
			return errors.Parse(p.name, line, "else without matching if")
		}
		if p.els {
			return errors.Parse(p.name, line, "duplicate else in conditional block")
		}
		p.flushText()
		p.els = true
	case len(fields) == 1 && fields[0] == "endif":
		if p.cond == nil {
			return errors.Parse(p.name, line, "endif without matching if")
		}
		p.flushText()
		p.root = append(p.root, p.cond)
		p.cond = nil
		p.els = false
	default:
		return errors.Parse(p.name, line, "unknown block tag {%"+p.src[start+2:end]+"%}")
	}

	p.pos = tagEnd
	return nil
}

// emit appends n to the branch currently being built.
func (p *parser) emit(n Node) {
	switch {
	case p.cond == nil:
		p.root = append(p.root, n)
	case p.els:
		p.cond.Else = append(p.cond.Else, n)
	default:
		p.cond.Then = append(p.cond.Then, n)
	}
}

func (p *parser) flushText() {
	if p.text.Len() == 0 {
		return
	}
	p.emit(&Text{Value: p.text.String()})
	p.text.Reset()
}

// trimText drops the last n bytes of pending text (the indentation before a
// standalone tag).
func (p *parser) trimText(n int) {
	if n == 0 {
		return
	}
	s := p.text.String()
	p.text.Reset()
	p.text.WriteString(s[:len(s)-n])
}

func (p *parser) lineAt(pos int) int {
	return strings.Count(p.src[:pos], "\n") + 1
}

// indexAny returns the index of the first occurrence of any of the markers in s.
func indexAny(s string, markers ...string) int {
	first := -1
	for _, m := range markers {
		if i := strings.Index(s, m); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	return first
}

// closing finds delim on the same line starting at from.
func closing(src string, from int, delim string) int {
	rest := src[from:]
	if eol := strings.IndexByte(rest, '\n'); eol >= 0 {
		rest = rest[:eol]
	}
	i := strings.Index(rest, delim)
	if i < 0 {
		return -1
	}
	return from + i
}

func isBlank(s string) bool {
	return strings.Trim(s, " \t\r") == ""
}
