// Package input reads interactive answers from the terminal.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Reader is an interface for reading user input
type Reader interface {
	ReadString(delim byte) (string, error)
}

// StdinReader wraps bufio.Reader for os.Stdin
type StdinReader struct {
	reader *bufio.Reader
}

// NewStdinReader creates a new StdinReader
func NewStdinReader() *StdinReader {
	return &StdinReader{
		reader: bufio.NewReader(os.Stdin),
	}
}

// ReadString reads until delimiter
func (r *StdinReader) ReadString(delim byte) (string, error) {
	return r.reader.ReadString(delim)
}

// StringReader replays scripted input, behaving like bufio.Reader over the
// concatenation of its inputs.
type StringReader struct {
	data string
	pos  int
}

// NewStringReader creates a reader from strings.
func NewStringReader(inputs ...string) *StringReader {
	return &StringReader{data: strings.Join(inputs, "")}
}

// ReadString returns data up to and including delim. When delim is absent it
// returns the remainder with io.EOF.
func (r *StringReader) ReadString(delim byte) (string, error) {
	if r.pos >= len(r.data) {
		return "", io.EOF
	}
	rest := r.data[r.pos:]
	idx := strings.IndexByte(rest, delim)
	if idx == -1 {
		r.pos = len(r.data)
		return rest, io.EOF
	}
	r.pos += idx + 1
	return rest[:idx+1], nil
}

// Confirm reads one line and reports whether it is "y" or "yes". Anything
// else, including end of input, is a no.
func Confirm(r Reader) bool {
	answer, _ := r.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
