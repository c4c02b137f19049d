// Package dispatch runs actions for both transports: it looks up the route,
// runs the parameter pipeline and the handler, and delivers the outcome.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/raven-actions/internal/callback"
	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

// Reporter shows a failure to the local user when the caller gave no error
// callback.
type Reporter interface {
	Report(ctx context.Context, action string, f outcome.Failure)
}

// LogReporter reports failures through a logger.
type LogReporter struct {
	Logger *slog.Logger
}

// Report logs f at error level.
func (r LogReporter) Report(ctx context.Context, action string, f outcome.Failure) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(ctx, "action failed", "action", action, "code", f.Code.String(), "error", f.Message)
}

// Dispatcher owns the registry and the delivery of outcomes.
type Dispatcher struct {
	registry *routes.Registry
	encoder  *callback.Encoder
	reporter Reporter
	scheme   string
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReporter sets where failures without an error callback go.
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) { d.reporter = r }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithScheme restricts HandleURL to URIs of the given scheme.
func WithScheme(scheme string) Option {
	return func(d *Dispatcher) { d.scheme = strings.TrimSuffix(scheme, "://") }
}

// New returns a Dispatcher over registry delivering callbacks with encoder.
func New(registry *routes.Registry, encoder *callback.Encoder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		encoder:  encoder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.reporter == nil {
		d.reporter = LogReporter{Logger: d.logger}
	}
	if d.encoder == nil {
		d.encoder = callback.NewEncoder(nil)
	}
	return d
}

// Registry returns the route registry.
func (d *Dispatcher) Registry() *routes.Registry {
	return d.registry
}

// Call runs the action at path for the HTTP transport. ok is false when no
// action is registered at path.
func (d *Dispatcher) Call(ctx context.Context, path string, raw schema.Params) (o outcome.Outcome, ok bool) {
	route, ok := d.registry.Lookup(path)
	if !ok {
		d.logger.DebugContext(ctx, "unknown action", "path", path, "transport", routes.HTTP.String())
		return nil, false
	}
	return d.run(ctx, route, raw, routes.HTTP), true
}

// HandleURI runs action for the URI transport and delivers the outcome:
// a success to x-success, a failure to x-error, or to the Reporter when
// there is no x-error. It returns the callback URL that was opened, if any.
func (d *Dispatcher) HandleURI(ctx context.Context, action string, raw schema.Params) (string, error) {
	var o outcome.Outcome
	route, ok := d.registry.Lookup(action)
	if ok {
		o = d.run(ctx, route, raw, routes.URI)
	} else {
		o = outcome.Failf(outcome.NotFound, "Unknown action %s", routes.Normalize(action))
		d.logger.WarnContext(ctx, "unknown action", "action", action, "transport", routes.URI.String())
	}
	return d.deliver(ctx, action, o, raw)
}

// HandleURL parses an incoming URI such as
// raven://actions-uri/note/get?file=Foo.md and handles it.
func (d *Dispatcher) HandleURL(ctx context.Context, rawURL string) (string, error) {
	action, raw, err := d.ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	return d.HandleURI(ctx, action, raw)
}

// ParseURL splits an incoming URI into the action path and its parameters.
func (d *Dispatcher) ParseURL(rawURL string) (string, schema.Params, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("parse action url: %w", err)
	}
	if d.scheme != "" && !strings.EqualFold(u.Scheme, d.scheme) {
		return "", nil, fmt.Errorf("action url %q: expected scheme %s", rawURL, d.scheme)
	}
	action := routes.Normalize(u.Host + "/" + u.Path)
	return action, ParamsFromQuery(u.Query()), nil
}

// ParamsFromQuery flattens query values. A repeated key keeps its last value.
func ParamsFromQuery(values url.Values) schema.Params {
	raw := make(schema.Params, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			raw[k] = vs[len(vs)-1]
		}
	}
	return raw
}

func (d *Dispatcher) run(ctx context.Context, route routes.Route, raw schema.Params, t routes.Transport) outcome.Outcome {
	start := time.Now()
	logger := d.logger.With("request_id", uuid.NewString(), "action", route.Path, "transport", t.String())
	if callID := raw["call-id"]; callID != "" {
		logger = logger.With("call_id", callID)
	}

	o := route.Call(ctx, raw, t)

	switch v := o.(type) {
	case outcome.Success:
		logger.InfoContext(ctx, "action succeeded", "path", v.ProcessedPath, "duration", time.Since(start))
	case outcome.Failure:
		logger.InfoContext(ctx, "action failed", "code", v.Code.String(), "error", v.Message, "duration", time.Since(start))
	}
	return o
}

func (d *Dispatcher) deliver(ctx context.Context, action string, o outcome.Outcome, raw schema.Params) (string, error) {
	switch v := o.(type) {
	case outcome.Success:
		base := raw["x-success"]
		if base == "" {
			return "", nil
		}
		return d.encoder.Send(ctx, base, v, raw)

	case outcome.Failure:
		base := raw["x-error"]
		if base == "" {
			d.reporter.Report(ctx, action, v)
			return "", nil
		}
		u, err := d.encoder.Send(ctx, base, v, raw)
		if err != nil && u == "" {
			// The error callback itself is unusable; tell the user directly.
			d.reporter.Report(ctx, action, v)
		}
		return u, err

	default:
		return "", fmt.Errorf("unknown outcome %T", o)
	}
}
