// Package periodic computes and creates daily, weekly, monthly, quarterly
// and yearly notes.
package periodic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aidanlsb/raven-actions/internal/dates"
	"github.com/aidanlsb/raven-actions/internal/paths"
	"github.com/aidanlsb/raven-actions/internal/template"
	"github.com/aidanlsb/raven-actions/internal/vault"
)

// Type is a periodic note kind.
type Type string

// Periodic note kinds.
const (
	Daily     Type = "daily"
	Weekly    Type = "weekly"
	Monthly   Type = "monthly"
	Quarterly Type = "quarterly"
	Yearly    Type = "yearly"
)

// Types lists every kind in period-length order.
var Types = []Type{Daily, Weekly, Monthly, Quarterly, Yearly}

// ErrDisabled is returned for a kind that is not enabled.
var ErrDisabled = errors.New("periodic note type is disabled")

var defaultFormats = map[Type]string{
	Daily:     "YYYY-MM-DD",
	Weekly:    "gggg-[W]ww",
	Monthly:   "YYYY-MM",
	Quarterly: "YYYY-[Q]Q",
	Yearly:    "YYYY",
}

// ParseType validates a kind name.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := defaultFormats[t]; !ok {
		return "", fmt.Errorf("unknown periodic note type %q", s)
	}
	return t, nil
}

// Settings configures one kind.
type Settings struct {
	Enabled  bool
	Folder   string // vault-relative
	Format   string // moment-style, defaults per kind
	Template string // vault-relative template note, optional
}

// Generator resolves and creates periodic notes.
type Generator struct {
	store    vault.Store
	settings map[Type]Settings
	now      func() time.Time
}

// New returns a Generator. Kinds missing from settings are disabled.
func New(store vault.Store, settings map[Type]Settings, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	copied := make(map[Type]Settings, len(settings))
	for t, s := range settings {
		copied[t] = s
	}
	return &Generator{store: store, settings: copied, now: now}
}

// Enabled reports whether kind t is turned on.
func (g *Generator) Enabled(t Type) bool {
	return g.settings[t].Enabled
}

// PathFor returns the vault path of the kind-t note covering at.
func (g *Generator) PathFor(t Type, at time.Time) (string, error) {
	s, ok := g.settings[t]
	if !ok || !s.Enabled {
		return "", fmt.Errorf("%w: %s", ErrDisabled, t)
	}
	format := s.Format
	if format == "" {
		format = defaultFormats[t]
	}

	name := dates.Format(at, format)
	folder, err := paths.SanitizeDirPath(s.Folder)
	if err != nil {
		return "", fmt.Errorf("%s notes folder: %w", t, err)
	}
	if folder != "" {
		name = folder + "/" + name
	}
	return paths.SanitizeNotePath(name)
}

// Current returns the path of the kind-t note for the current period.
func (g *Generator) Current(t Type) (string, error) {
	return g.PathFor(t, g.now())
}

// Create writes the current kind-t note from its template, replacing an
// existing one when overwrite is set, and returns its path.
func (g *Generator) Create(ctx context.Context, t Type, overwrite bool) (string, error) {
	at := g.now()
	notePath, err := g.PathFor(t, at)
	if err != nil {
		return "", err
	}

	content := ""
	if tmpl := g.settings[t].Template; tmpl != "" {
		tmplPath, err := paths.SanitizeNotePath(tmpl)
		if err != nil {
			return "", fmt.Errorf("%s notes template: %w", t, err)
		}
		raw, err := template.Load(ctx, g.store, tmplPath)
		if err != nil {
			return "", err
		}
		content = template.Apply(raw, template.NewVariables(notePath, at))
	}

	if overwrite {
		_, err = g.store.Write(ctx, notePath, content)
	} else {
		_, err = g.store.Create(ctx, notePath, content)
	}
	if err != nil {
		return "", err
	}
	return notePath, nil
}
