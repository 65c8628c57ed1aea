package template

import (
	"errors"
	"fmt"
	"sort"

	"lookpub/internal/config"
)

// ErrUnknownTemplate marks lookups for names the registry does not hold.
var ErrUnknownTemplate = errors.New("unknown template")

// Registry resolves template names to parsed templates.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string]*Template{}}
}

// Add registers a template under its name, replacing any previous entry.
func (r *Registry) Add(t *Template) {
	if t == nil {
		return
	}
	r.templates[t.Name()] = t
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (*Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig builds a registry from the configured template table. Patterns
// are resolved against the project root by the config layer.
func FromConfig(cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()
	for name := range cfg.Templates {
		pattern, ok := cfg.TemplatePattern(name)
		if !ok {
			return nil, fmt.Errorf("template %s: empty pattern", name)
		}
		tpl, err := New(name, pattern)
		if err != nil {
			return nil, err
		}
		registry.Add(tpl)
	}
	return registry, nil
}
