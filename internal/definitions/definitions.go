// Package definitions loads the three definition sources the matcher
// needs: templates, the definitions dictionary and the replacements
// dictionary. Sources without a configured path come from the built-in
// defaults.
package definitions

import (
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/Tiliavir/trivial-reminder/internal/dictionary"
	"github.com/Tiliavir/trivial-reminder/internal/matcher"
	"github.com/Tiliavir/trivial-reminder/internal/template"
)

//go:embed defaults/*.rmd
var defaults embed.FS

// Paths points at user-supplied definition files. Empty fields select the
// built-in default for that source.
type Paths struct {
	Templates    string
	Definitions  string
	Replacements string
}

// Set is a fully loaded, read-only collection of definition sources.
type Set struct {
	Templates    []*template.Template
	Definitions  *dictionary.Dictionary
	Replacements *dictionary.Dictionary
}

// Default loads the built-in sources.
func Default() (*Set, error) {
	return Load(Paths{})
}

// Load reads and compiles all three sources. Any malformed line aborts
// loading.
func Load(p Paths) (*Set, error) {
	var s Set

	err := withSource("templates", p.Templates, func(r io.Reader) error {
		var err error
		s.Templates, err = template.Parse(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = withSource("definitions", p.Definitions, func(r io.Reader) error {
		var err error
		s.Definitions, err = dictionary.Parse(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = withSource("replacements", p.Replacements, func(r io.Reader) error {
		var err error
		s.Replacements, err = dictionary.Parse(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(s.Templates) == 0 {
		return nil, fmt.Errorf("loading templates: no templates defined")
	}
	return &s, nil
}

// Engine builds a matcher over the loaded sources.
func (s *Set) Engine(opts ...matcher.Option) *matcher.Engine {
	return matcher.New(s.Templates, s.Definitions, s.Replacements, opts...)
}

func withSource(name, path string, fn func(io.Reader) error) error {
	var (
		f   io.ReadCloser
		err error
	)
	if path == "" {
		f, err = defaults.Open("defaults/" + name + ".rmd")
		path = "built-in " + name
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("loading %s from %s: %w", name, path, err)
	}
	return nil
}
