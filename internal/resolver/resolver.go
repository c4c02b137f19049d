// Package resolver decides which note a request addresses.
//
// A request names its note through exactly one targeting field: an explicit
// vault path (file), a front-matter identifier (uid) or a periodic note kind
// (periodic-note). Hard resolution requires the note to exist; soft
// resolution only computes where it is or would be.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/paths"
	"github.com/aidanlsb/raven-actions/internal/periodic"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/vault"
)

// Targeting field names, reported as Target.InputKey.
const (
	KeyFile         = "file"
	KeyUID          = "uid"
	KeyPeriodicNote = "periodic-note"
)

// DefaultUIDKey is the front-matter key uid lookups read.
const DefaultUIDKey = "uid"

// Mode is the existence policy of a resolution.
type Mode int

const (
	// Hard requires the target to exist.
	Hard Mode = iota
	// Soft tolerates a missing target.
	Soft
)

func (m Mode) String() string {
	if m == Soft {
		return "soft"
	}
	return "hard"
}

// Target is the outcome of resolving a request's targeting fields.
type Target struct {
	// InputKey is the targeting field the caller supplied.
	InputKey string
	// Path is the canonical vault path. It is empty when a uid matched no
	// note, since a uid alone does not say where a note would live.
	Path string
	// Note is the existing note, nil when it does not exist.
	Note *vault.Note
	// Matches lists every note carrying the requested uid when more than
	// one does. The first entry is the one resolved.
	Matches []string
}

// Exists reports whether the target note exists.
func (t Target) Exists() bool {
	return t.Note != nil
}

// Ambiguous reports whether a uid matched more than one note.
func (t Target) Ambiguous() bool {
	return len(t.Matches) > 1
}

// PeriodicNotes computes the path of the current periodic note of a kind.
type PeriodicNotes interface {
	Current(t periodic.Type) (string, error)
}

// Resolver resolves targeting fields against a vault.
type Resolver struct {
	store    vault.Store
	periodic PeriodicNotes
	uidKey   string
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithUIDKey sets the front-matter key uid lookups read.
func WithUIDKey(key string) Option {
	return func(r *Resolver) {
		if key != "" {
			r.uidKey = key
		}
	}
}

// WithLogger sets the logger ambiguity warnings go to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Resolver over store.
func New(store vault.Store, notes PeriodicNotes, opts ...Option) *Resolver {
	r := &Resolver{
		store:    store,
		periodic: notes,
		uidKey:   DefaultUIDKey,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UIDKey returns the front-matter key holding note identifiers.
func (r *Resolver) UIDKey() string {
	return r.uidKey
}

// Hard resolves t and fails with NotFound unless the note exists.
func (r *Resolver) Hard(ctx context.Context, t schema.Targeting) (Target, error) {
	return r.Resolve(ctx, t, Hard)
}

// Soft resolves t without requiring the note to exist.
func (r *Resolver) Soft(ctx context.Context, t schema.Targeting) (Target, error) {
	return r.Resolve(ctx, t, Soft)
}

// Resolve resolves t under mode. Errors are outcome.Failure values.
func (r *Resolver) Resolve(ctx context.Context, t schema.Targeting, mode Mode) (Target, error) {
	key, value, err := selectField(t, mode)
	if err != nil {
		return Target{}, err
	}

	var target Target
	switch key {
	case KeyFile:
		target, err = r.byPath(ctx, key, value)
	case KeyPeriodicNote:
		target, err = r.byPeriodic(ctx, value)
	case KeyUID:
		target, err = r.byUID(ctx, value)
	}
	if err != nil {
		return Target{}, err
	}

	if mode == Hard && !target.Exists() {
		return Target{}, outcome.Fail(outcome.NotFound, "Note not found")
	}
	return target, nil
}

// selectField enforces that exactly one targeting field is set.
func selectField(t schema.Targeting, mode Mode) (string, string, error) {
	var keys []string
	var value string
	for _, f := range []struct{ key, value string }{
		{KeyFile, t.File},
		{KeyUID, t.UID},
		{KeyPeriodicNote, t.PeriodicNote},
	} {
		if f.value != "" {
			keys = append(keys, f.key)
			value = f.value
		}
	}

	switch len(keys) {
	case 1:
		return keys[0], value, nil
	case 0:
		if mode == Hard {
			return "", "", outcome.Fail(outcome.NotFound, "Note not found")
		}
		return "", "", outcome.Failf(outcome.ValidationError,
			"one of %s, %s or %s is required", KeyFile, KeyUID, KeyPeriodicNote)
	default:
		return "", "", outcome.Failf(outcome.ValidationError,
			"only one of %s, %s or %s may be given, got %v", KeyFile, KeyUID, KeyPeriodicNote, keys)
	}
}

func (r *Resolver) byPath(ctx context.Context, key, raw string) (Target, error) {
	notePath, err := paths.SanitizeNotePath(raw)
	if err != nil {
		return Target{}, outcome.Failf(outcome.ValidationError, "%s: %v", key, err)
	}
	note, err := r.load(ctx, notePath)
	if err != nil {
		return Target{}, err
	}
	return Target{InputKey: key, Path: notePath, Note: note}, nil
}

func (r *Resolver) byPeriodic(ctx context.Context, raw string) (Target, error) {
	kind, err := periodic.ParseType(raw)
	if err != nil {
		return Target{}, outcome.Failf(outcome.ValidationError, "%s: %v", KeyPeriodicNote, err)
	}
	if r.periodic == nil {
		return Target{}, outcome.Fail(outcome.PluginDisabled, "Periodic notes are not available")
	}
	notePath, err := r.periodic.Current(kind)
	if errors.Is(err, periodic.ErrDisabled) {
		return Target{}, outcome.Failf(outcome.PluginDisabled, "Periodic notes of type %s are not enabled", kind)
	}
	if err != nil {
		return Target{}, outcome.Failf(outcome.HandlerError, "resolve %s note: %v", kind, err)
	}
	note, err := r.load(ctx, notePath)
	if err != nil {
		return Target{}, err
	}
	return Target{InputKey: KeyPeriodicNote, Path: notePath, Note: note}, nil
}

// byUID scans every note's front matter. Notes are visited in path order,
// so when several carry the same uid the lexicographically first path wins.
func (r *Resolver) byUID(ctx context.Context, uid string) (Target, error) {
	files, err := r.store.List(ctx)
	if err != nil {
		return Target{}, outcome.Failf(outcome.HandlerError, "list notes: %v", err)
	}

	var first *vault.Note
	var matches []string
	for _, f := range files {
		note, err := vault.Load(ctx, r.store, f.Path)
		if err != nil {
			continue
		}
		if note.Property(r.uidKey) != uid {
			continue
		}
		if first == nil {
			first = note
		}
		matches = append(matches, f.Path)
	}

	if first == nil {
		return Target{InputKey: KeyUID}, nil
	}

	target := Target{InputKey: KeyUID, Path: first.Path, Note: first}
	if len(matches) > 1 {
		target.Matches = matches
		r.logger.Warn("uid matches several notes, using the first",
			"uid", uid, "key", r.uidKey, "path", first.Path, "matches", matches)
	}
	return target, nil
}

func (r *Resolver) load(ctx context.Context, notePath string) (*vault.Note, error) {
	note, err := vault.Load(ctx, r.store, notePath)
	if errors.Is(err, vault.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, outcome.Failf(outcome.HandlerError, "read %s: %v", notePath, err)
	}
	return note, nil
}
