// Package matcher turns free-form reminder text into an absolute date-time
// and display text by trying an ordered list of templates.
//
// An Engine holds only immutable state and may be shared between
// goroutines. Match is pure: the reference time is always supplied by the
// caller.
package matcher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-reminder/internal/dictionary"
	"github.com/Tiliavir/trivial-reminder/internal/template"
	"github.com/Tiliavir/trivial-reminder/internal/timecalc"
)

// ErrNoTemplateMatched is returned when no template yields a usable parse.
var ErrNoTemplateMatched = errors.New("could not interpret reminder text")

// InvalidUnitError is returned when an accepted parse names a unit that
// cannot be used for date arithmetic.
type InvalidUnitError struct {
	Unit string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("%q is not a valid unit", e.Unit)
}

// InvalidDurationError is returned when an accepted parse pairs a unit with
// a duration that is not a number or moves the date too far.
type InvalidDurationError struct {
	Duration string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("%q is not a valid duration", e.Duration)
}

// Fields holds the values decoded from the placeholders of one template.
// Nil means the placeholder was absent or could not be decoded.
type Fields struct {
	Duration *int
	Unit     *string
	Date     *time.Time
	Time     *Clock
	Text     *string
}

// accepted reports whether the fields carry display text and at least one
// temporal value.
func (f Fields) accepted() bool {
	temporal := f.Duration != nil || f.Unit != nil || f.Date != nil || f.Time != nil
	return temporal && f.Text != nil
}

// Result is a successfully interpreted reminder.
type Result struct {
	At       time.Time
	Text     string
	Template string
	Fields   Fields
}

// Engine matches reminder text against templates.
type Engine struct {
	templates    []*template.Template
	definitions  *dictionary.Dictionary
	replacements *dictionary.Dictionary
	fillers      map[string]struct{}
	log          *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFillerWords drops the given tokens (case-insensitive) before
// placeholders are decoded.
func WithFillerWords(words ...string) Option {
	return func(e *Engine) {
		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				e.fillers[strings.ToLower(w)] = struct{}{}
			}
		}
	}
}

// WithLogger traces template attempts at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New builds an Engine. Templates are tried in the given order.
func New(templates []*template.Template, definitions, replacements *dictionary.Dictionary, opts ...Option) *Engine {
	e := &Engine{
		templates:    append([]*template.Template(nil), templates...),
		definitions:  definitions,
		replacements: replacements,
		fillers:      map[string]struct{}{},
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Templates returns the templates in matching order.
func (e *Engine) Templates() []*template.Template {
	return append([]*template.Template(nil), e.templates...)
}

// Match interprets text relative to now. The first template whose parse is
// accepted decides the result; later templates are not consulted even if
// date resolution then fails.
func (e *Engine) Match(text string, now time.Time) (Result, error) {
	for i, tpl := range e.templates {
		fields, duration, ok := e.decode(tpl, text, now)
		if !ok {
			continue
		}
		e.log.Debug("template accepted",
			zap.Int("index", i),
			zap.String("template", tpl.String()))

		at, err := resolve(fields, duration, tpl.IsAddition(), now)
		if err != nil {
			return Result{}, err
		}
		return Result{
			At:       at,
			Text:     *fields.Text,
			Template: tpl.String(),
			Fields:   fields,
		}, nil
	}
	return Result{}, ErrNoTemplateMatched
}

// decode runs containment, literal stripping, tokenization and positional
// decoding for one template. duration is the raw token at the [DURATION]
// position, empty when the template has none.
func (e *Engine) decode(tpl *template.Template, text string, now time.Time) (f Fields, duration string, ok bool) {
	literals := tpl.Literals()
	for _, lit := range literals {
		if !strings.Contains(text, lit) {
			return Fields{}, "", false
		}
	}

	// Every occurrence of every literal goes, wherever it sits in the text.
	pairs := make([]string, 0, 2*len(literals))
	for _, lit := range literals {
		pairs = append(pairs, lit, "")
	}
	residual := strings.NewReplacer(pairs...).Replace(text)

	tokens := e.tokenize(residual)
	kinds := tpl.Placeholders()
	if len(tokens) < len(kinds) {
		e.log.Debug("too few tokens",
			zap.String("template", tpl.String()),
			zap.Int("tokens", len(tokens)),
			zap.Int("placeholders", len(kinds)))
		return Fields{}, "", false
	}

	for i, kind := range kinds {
		tok := tokens[i]
		switch kind {
		case template.Duration:
			duration = tok
			if n, ok := decodeDuration(tok, e.definitions); ok {
				f.Duration = &n
			}
		case template.Unit:
			if u, ok := decodeUnit(tok, e.definitions); ok {
				f.Unit = &u
			}
		case template.Date:
			if d, ok := decodeDate(tok, e.definitions, now); ok {
				f.Date = &d
			}
		case template.Time:
			if c, ok := decodeTime(tok); ok {
				f.Time = &c
			}
		case template.Text:
			if s, ok := decodeText(tokens[i:], e.replacements); ok {
				f.Text = &s
			}
		}
	}

	if !f.accepted() {
		e.log.Debug("template rejected", zap.String("template", tpl.String()))
		return Fields{}, "", false
	}
	return f, duration, true
}

func (e *Engine) tokenize(s string) []string {
	var tokens []string
	for _, tok := range strings.Split(s, " ") {
		if tok == "" {
			continue
		}
		if _, filler := e.fillers[strings.ToLower(tok)]; filler {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// resolve computes the anchor from the optional date and time and applies
// the duration in the given unit. A unit without a [DURATION] placeholder
// steps once; a placeholder that did not decode is an error.
func resolve(f Fields, duration string, add bool, now time.Time) (time.Time, error) {
	date := now
	if f.Date != nil {
		date = *f.Date
	}
	clock := Clock{Hour: 12}
	if f.Time != nil {
		clock = *f.Time
	}
	anchor := timecalc.At(date, clock.Hour, clock.Minute)

	if f.Unit == nil {
		return anchor, nil
	}

	n := 1
	if duration != "" {
		if f.Duration == nil {
			return time.Time{}, &InvalidDurationError{Duration: duration}
		}
		n = *f.Duration
	}
	if !add {
		n = -n
	}
	at, err := timecalc.Shift(anchor, *f.Unit, n)
	switch {
	case errors.Is(err, timecalc.ErrUnknownUnit):
		return time.Time{}, &InvalidUnitError{Unit: *f.Unit}
	case err != nil:
		return time.Time{}, &InvalidDurationError{Duration: duration}
	}
	return at, nil
}
