// Package routes maps action paths to their parameter pipeline and handler.
//
// A Tree groups entries by namespace ("/note" -> "/get", "/create", ...).
// New flattens it once into a read-only Registry keyed by the normalized
// full path, e.g. "/actions-uri/note/get".
package routes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

// ErrDuplicateRoute is returned by New when two entries share a full path.
var ErrDuplicateRoute = errors.New("duplicate route")

// Transport identifies the front door a call came through.
type Transport int

const (
	HTTP Transport = iota
	URI
)

func (t Transport) String() string {
	if t == URI {
		return "uri"
	}
	return "http"
}

// Invocation is a call whose parameters passed both pipeline stages.
type Invocation func(ctx context.Context) outcome.Outcome

// Binder runs the parameter pipeline for one action.
type Binder func(ctx context.Context, raw schema.Params, opts ...schema.Option) (Invocation, error)

// Entry is one sub-route of a group.
type Entry struct {
	Path string
	Bind Binder

	// RequiresCallbacks marks actions that only return data; over the URI
	// transport they need both x-success and x-error.
	RequiresCallbacks bool

	hello bool
}

// Tree is the static route table: group path -> entries.
type Tree map[string][]Entry

// Route is a registered action.
type Route struct {
	Path  string
	Group string
	entry Entry
}

// RequiresCallbacks reports whether the URI transport must carry both
// callback URLs.
func (r Route) RequiresCallbacks() bool {
	return r.entry.RequiresCallbacks
}

// Prepare runs validation and targeting for raw, with the action parameter
// set to the route path. Failures are returned as outcome.Failure.
func (r Route) Prepare(ctx context.Context, raw schema.Params, t Transport) (Invocation, error) {
	in := raw.Clone()
	in["action"] = r.Path

	var opts []schema.Option
	if t == URI && r.entry.RequiresCallbacks {
		opts = append(opts, schema.RequireCallbacks())
	}

	inv, err := r.entry.Bind(ctx, in, opts...)
	if err != nil {
		return nil, AsFailure(err)
	}
	return inv, nil
}

// Call prepares and runs the action.
func (r Route) Call(ctx context.Context, raw schema.Params, t Transport) outcome.Outcome {
	inv, err := r.Prepare(ctx, raw, t)
	if err != nil {
		return AsFailure(err)
	}
	return inv(ctx)
}

// AsFailure maps a pipeline error to the failure callers see.
func AsFailure(err error) outcome.Failure {
	var f outcome.Failure
	if errors.As(err, &f) {
		return f
	}
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return outcome.Fail(outcome.ValidationError, verr.Error())
	}
	return outcome.Fail(outcome.HandlerError, err.Error())
}

// Registry is the flattened, read-only route table.
type Registry struct {
	prefix string
	routes map[string]Route
	groups map[string][]string
}

type options struct {
	prefix string
}

// Option configures New.
type Option func(*options)

// WithPrefix mounts every group under prefix, e.g. "actions-uri".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// New flattens tree into a Registry and fails on duplicate paths.
func New(tree Tree, opts ...Option) (*Registry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		prefix: Normalize(o.prefix),
		routes: make(map[string]Route),
		groups: make(map[string][]string),
	}

	groupKeys := make([]string, 0, len(tree))
	for group := range tree {
		groupKeys = append(groupKeys, group)
	}
	sort.Strings(groupKeys)

	for _, group := range groupKeys {
		groupPath := Normalize(o.prefix + "/" + group)
		var hellos []string
		for _, e := range tree[group] {
			full := Normalize(o.prefix + "/" + group + "/" + e.Path)
			if _, exists := r.routes[full]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, full)
			}
			if e.Bind == nil && !e.hello {
				return nil, fmt.Errorf("route %s has no binder", full)
			}
			r.routes[full] = Route{Path: full, Group: groupPath, entry: e}
			r.groups[groupPath] = append(r.groups[groupPath], full)
			if e.hello {
				hellos = append(hellos, full)
			}
		}
		sort.Strings(r.groups[groupPath])

		for _, full := range hellos {
			route := r.routes[full]
			route.entry.Bind = helloBinder(groupPath, full, r.groups[groupPath])
			r.routes[full] = route
		}
	}

	return r, nil
}

// Lookup returns the route registered at p. No prefix matching is done.
func (r *Registry) Lookup(p string) (Route, bool) {
	route, ok := r.routes[Normalize(p)]
	return route, ok
}

// Paths lists every registered path, sorted.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.routes))
	for p := range r.routes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Groups returns each group path with its sorted route paths.
func (r *Registry) Groups() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for g, ps := range r.groups {
		out[g] = append([]string(nil), ps...)
	}
	return out
}

// Prefix returns the normalized namespace prefix, "" when none.
func (r *Registry) Prefix() string {
	if r.prefix == "/" {
		return ""
	}
	return r.prefix
}

// Normalize collapses repeated slashes, strips a trailing slash and
// ensures a leading one.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimSuffix(p, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
