// Package template compiles reminder template lines such as
//
//	in [DURATION] [UNIT] at [TIME] [TEXT];+
//
// into matchers made of literal words and typed placeholders.
package template

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PlaceholderKind is the type of a slot filled from user text.
type PlaceholderKind int

const (
	Duration PlaceholderKind = iota
	Unit
	Date
	Time
	Text
)

var kindNames = map[PlaceholderKind]string{
	Duration: "DURATION",
	Unit:     "UNIT",
	Date:     "DATE",
	Time:     "TIME",
	Text:     "TEXT",
}

// String returns the bracketed form used in template sources, e.g. "[UNIT]".
func (k PlaceholderKind) String() string {
	if name, ok := kindNames[k]; ok {
		return "[" + name + "]"
	}
	return fmt.Sprintf("[KIND(%d)]", int(k))
}

// ParseKind maps a placeholder name without brackets to its kind.
func ParseKind(name string) (PlaceholderKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// FormatError reports a malformed template line.
type FormatError struct {
	Line   int // 1-based; 0 when compiled outside a source file
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("template line %d %q: %s", e.Line, e.Text, e.Reason)
	}
	return fmt.Sprintf("template %q: %s", e.Text, e.Reason)
}

// segment is one word of the pattern; literal is set for non-placeholders.
type segment struct {
	literal     string
	placeholder PlaceholderKind
	isLiteral   bool
}

// Template is a compiled template line. It is immutable after Compile.
type Template struct {
	segments     []segment
	placeholders []PlaceholderKind
	literals     []string
	isAddition   bool
}

// Compile builds a Template from one line of the form "<pattern>;<+|->".
// A missing second clause means subtraction.
func Compile(line string) (*Template, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, &FormatError{Text: line, Reason: "empty template"}
	}

	pattern, direction, _ := strings.Cut(trimmed, ";")
	words := strings.Fields(pattern)
	if len(words) == 0 {
		return nil, &FormatError{Text: line, Reason: "empty pattern"}
	}

	t := &Template{isAddition: strings.Contains(direction, "+")}
	for _, w := range words {
		if isPlaceholder(w) {
			kind, ok := ParseKind(w[1 : len(w)-1])
			if !ok {
				return nil, &FormatError{Text: line, Reason: fmt.Sprintf("unknown placeholder %s", w)}
			}
			t.segments = append(t.segments, segment{placeholder: kind})
			t.placeholders = append(t.placeholders, kind)
			continue
		}
		lit := w + " "
		t.segments = append(t.segments, segment{literal: lit, isLiteral: true})
		t.literals = append(t.literals, lit)
	}
	return t, nil
}

func isPlaceholder(word string) bool {
	return len(word) >= 2 && word[0] == '[' && word[len(word)-1] == ']'
}

// Parse compiles every non-blank line of r in order.
func Parse(r io.Reader) ([]*Template, error) {
	var templates []*Template
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := Compile(line)
		if err != nil {
			if fe, ok := err.(*FormatError); ok {
				fe.Line = lineNo
			}
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	return templates, nil
}

// Placeholders returns the placeholder kinds in pattern order.
func (t *Template) Placeholders() []PlaceholderKind {
	return append([]PlaceholderKind(nil), t.placeholders...)
}

// Literals returns the literal words in pattern order, each with its
// trailing space.
func (t *Template) Literals() []string {
	return append([]string(nil), t.literals...)
}

// IsAddition reports whether the duration is added to the anchor.
func (t *Template) IsAddition() bool { return t.isAddition }

// Pattern re-renders the pattern clause from literals and placeholders.
func (t *Template) Pattern() string {
	words := make([]string, len(t.segments))
	for i, s := range t.segments {
		if s.isLiteral {
			words[i] = strings.TrimSuffix(s.literal, " ")
		} else {
			words[i] = s.placeholder.String()
		}
	}
	return strings.Join(words, " ")
}

// String renders the template in source form.
func (t *Template) String() string {
	if t.isAddition {
		return t.Pattern() + ";+"
	}
	return t.Pattern() + ";-"
}
