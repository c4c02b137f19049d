// Package plugins provides the template capabilities actions can ask for by
// name. A capability is either installed or missing, and installed ones can
// be disabled in the config.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aidanlsb/raven-actions/internal/template"
	"github.com/aidanlsb/raven-actions/internal/vault"
)

// Names of the template plugins actions can request.
const (
	Templates = "templates"
	Templater = "templater"
)

var (
	// ErrMissingPlugin is returned for a plugin that is not installed.
	ErrMissingPlugin = errors.New("plugin not installed")

	// ErrPluginDisabled is returned for an installed plugin that is turned off.
	ErrPluginDisabled = errors.New("plugin disabled")
)

// TemplateCapability renders a template for a note.
type TemplateCapability interface {
	// Render returns the content the note at notePath should get from the
	// template at templatePath.
	Render(ctx context.Context, templatePath, notePath string) (string, error)
}

// Provider hands out capabilities by plugin name.
type Provider interface {
	Plugin(name string) (TemplateCapability, error)
}

// Registry is the Provider used in production.
type Registry struct {
	installed map[string]TemplateCapability
	enabled   map[string]bool
}

// NewRegistry builds a registry of installed plugins; only names listed in
// enabled are handed out.
func NewRegistry(installed map[string]TemplateCapability, enabled []string) *Registry {
	r := &Registry{
		installed: make(map[string]TemplateCapability, len(installed)),
		enabled:   make(map[string]bool, len(enabled)),
	}
	for name, c := range installed {
		r.installed[name] = c
	}
	for _, name := range enabled {
		r.enabled[name] = true
	}
	return r
}

// Plugin returns the capability registered under name.
func (r *Registry) Plugin(name string) (TemplateCapability, error) {
	c, ok := r.installed[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPlugin, name)
	}
	if !r.enabled[name] {
		return nil, fmt.Errorf("%w: %s", ErrPluginDisabled, name)
	}
	return c, nil
}

// Installed lists installed plugin names, sorted.
func (r *Registry) Installed() []string {
	names := make([]string, 0, len(r.installed))
	for name := range r.installed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CoreTemplates is the built-in "templates" plugin: variable substitution
// over a template note stored in the vault.
type CoreTemplates struct {
	store vault.Store
	now   func() time.Time
}

// NewCoreTemplates returns the core templates plugin reading from store.
func NewCoreTemplates(store vault.Store, now func() time.Time) *CoreTemplates {
	if now == nil {
		now = time.Now
	}
	return &CoreTemplates{store: store, now: now}
}

// Render loads the template and expands its variables for notePath.
func (c *CoreTemplates) Render(ctx context.Context, templatePath, notePath string) (string, error) {
	content, err := template.Load(ctx, c.store, templatePath)
	if err != nil {
		return "", err
	}
	return template.Apply(content, template.NewVariables(notePath, c.now())), nil
}
