// Package views renders the site's page templates. Templates are plain
// html/template files loaded from an fs.FS, so a site can override the
// embedded defaults without recompiling.
package views

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"

	"github.com/a-h/templ"
)

// ErrTemplateNotFound is returned when a named template was not loaded.
var ErrTemplateNotFound = errors.New("template not found")

// Renderer holds the parsed page templates. It is immutable after New and
// safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses every *.html file at the root of fsys. Each file is
// addressable by its base name, and files may reference each other with
// {{ template "name.html" . }}.
func New(fsys fs.FS) (*Renderer, error) {
	matches, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no *.html templates found: %w", ErrTemplateNotFound)
	}
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Has reports whether name was loaded.
func (r *Renderer) Has(name string) bool {
	return r.tmpl.Lookup(name) != nil
}

// Require returns an error naming every template in names that was not
// loaded.
func (r *Renderer) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !r.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrTemplateNotFound, missing)
	}
	return nil
}

// Names returns the loaded template names in sorted order.
func (r *Renderer) Names() []string {
	var names []string
	for _, t := range r.tmpl.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Render executes the template name with data into w.
func (r *Renderer) Render(w io.Writer, name string, data Context) error {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Component wraps Render as a templ.Component so pages share the same
// response helpers as any other component.
func (r *Renderer) Component(name string, data Context) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return r.Render(w, name, data)
	})
}
