// Package descriptor reads the line-oriented text inputs of a simulation run.
package descriptor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const byteOrderMark = "\uFEFF"

var (
	// ErrSyntax marks a line that does not follow its grammar.
	ErrSyntax = errors.New("malformed line")
	// ErrLineCount is returned when a fixed-size file has the wrong number of lines.
	ErrLineCount = errors.New("wrong number of lines")
)

// LineError locates a failure in an input file.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("could not parse %s line %d", e.File, e.Line)
}

func (e *LineError) Unwrap() error { return e.Err }

// ReadLines splits r into lines, dropping line terminators and a leading byte
// order mark.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// Cursor walks the lines of one file and numbers them from 1.
type Cursor struct {
	file  string
	lines []string
	pos   int
}

func NewCursor(file string, lines []string) *Cursor {
	return &Cursor{file: file, lines: lines}
}

// File returns the name used in errors.
func (c *Cursor) File() string { return c.file }

// Done reports whether every line has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.lines) }

// Line returns the number of the last consumed line.
func (c *Cursor) Line() int { return c.pos }

// Next consumes one line. Running out of input is reported at the line after
// the last one.
func (c *Cursor) Next() (string, error) {
	if c.Done() {
		c.pos++
		return "", c.Fail(io.ErrUnexpectedEOF)
	}
	line := c.lines[c.pos]
	c.pos++
	return line, nil
}

// Peek returns the next line without consuming it.
func (c *Cursor) Peek() (string, bool) {
	if c.Done() {
		return "", false
	}
	return c.lines[c.pos], true
}

// Field consumes a line that must start with prefix and returns the rest.
func (c *Cursor) Field(prefix string) (string, error) {
	line, err := c.Next()
	if err != nil {
		return "", err
	}
	value, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return "", c.Fail(fmt.Errorf("expected %q: %w", prefix, ErrSyntax))
	}
	return value, nil
}

// IntField consumes a prefixed line holding a base-10 integer.
func (c *Cursor) IntField(prefix string) (int, error) {
	value, err := c.Field(prefix)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, c.Fail(fmt.Errorf("%s%q: %w", prefix, value, ErrSyntax))
	}
	return n, nil
}

// Blank consumes a required empty line.
func (c *Cursor) Blank() error {
	line, err := c.Next()
	if err != nil {
		return err
	}
	if line != "" {
		return c.Fail(fmt.Errorf("expected blank line: %w", ErrSyntax))
	}
	return nil
}

// Terminator consumes the blank line closing a block. End of input is
// accepted in its place.
func (c *Cursor) Terminator() error {
	if c.Done() {
		return nil
	}
	return c.Blank()
}

// Fail wraps err with the current line.
func (c *Cursor) Fail(err error) error {
	return c.FailAt(c.pos, err)
}

// FailAt wraps err with a specific line.
func (c *Cursor) FailAt(line int, err error) error {
	var le *LineError
	if errors.As(err, &le) {
		return err
	}
	return &LineError{File: c.file, Line: line, Err: err}
}

// ParseAmount parses "<int> <name>" as used for ingredient amounts and deltas.
func ParseAmount(line string) (int, string, error) {
	number, name, ok := strings.Cut(line, " ")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("amount line %q: %w", line, ErrSyntax)
	}
	n, err := strconv.Atoi(number)
	if err != nil {
		return 0, "", fmt.Errorf("amount %q: %w", number, ErrSyntax)
	}
	return n, name, nil
}

// SplitList splits a ", " separated list. An empty value is an empty list.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ", ")
}

// ParseIDs parses a ", " separated list of integers.
func ParseIDs(value string) ([]int, error) {
	parts := SplitList(value)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty id list: %w", ErrSyntax)
	}
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("id %q: %w", p, ErrSyntax)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
