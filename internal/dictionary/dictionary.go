// Package dictionary maps canonical keys to sets of accepted synonyms.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// FormatError reports a malformed dictionary line.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dictionary line %d %q: %s", e.Line, e.Text, e.Reason)
}

type entry struct {
	key      string
	synonyms []string
}

// Dictionary is an ordered set of key=synonyms entries. Lookups walk the
// entries in source order, so the first key claiming a synonym wins.
// A Dictionary is never modified after Parse.
type Dictionary struct {
	entries []entry
	index   map[string]int
}

// Parse reads lines of the form "key=syn1,syn2". Blank lines are skipped.
func Parse(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{index: map[string]int{}}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, rest, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &FormatError{Line: lineNo, Text: line, Reason: "missing '='"}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &FormatError{Line: lineNo, Text: line, Reason: "empty key"}
		}
		if _, dup := d.index[key]; dup {
			return nil, &FormatError{Line: lineNo, Text: line, Reason: "duplicate key " + key}
		}

		var synonyms []string
		for _, s := range strings.Split(rest, ",") {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				synonyms = append(synonyms, s)
			}
		}
		d.index[key] = len(d.entries)
		d.entries = append(d.entries, entry{key: key, synonyms: synonyms})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return d, nil
}

// Resolve returns the canonical key whose synonyms contain term
// (case-insensitive), or term itself when no entry claims it.
func (d *Dictionary) Resolve(term string) string {
	if d == nil {
		return term
	}
	lower := strings.ToLower(term)
	for _, e := range d.entries {
		if slices.Contains(e.synonyms, lower) {
			return e.key
		}
	}
	return term
}

// Keys returns the canonical keys in source order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Synonyms returns the synonyms registered for key.
func (d *Dictionary) Synonyms(key string) []string {
	i, ok := d.index[key]
	if !ok {
		return nil
	}
	return slices.Clone(d.entries[i].synonyms)
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }
