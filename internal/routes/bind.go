package routes

import (
	"context"
	"fmt"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

// Resolve is the second pipeline stage: it turns validated parameters into
// the context a handler needs, usually the targeted note.
type Resolve[P, C any] func(ctx context.Context, p *P) (C, error)

// Handler performs an action on validated, resolved parameters.
type Handler[P, C any] func(ctx context.Context, p *P, c C) outcome.Outcome

// Bind composes decoding into P, resolution into C and the handler.
// The handler only runs when both stages succeed.
func Bind[P, C any](resolve Resolve[P, C], handle Handler[P, C]) Binder {
	return func(ctx context.Context, raw schema.Params, opts ...schema.Option) (Invocation, error) {
		p, err := schema.Decode[P](raw, opts...)
		if err != nil {
			return nil, err
		}
		c, err := resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) outcome.Outcome {
			return handle(ctx, p, c)
		}, nil
	}
}

// Plain binds an action that needs no second stage.
func Plain[P any](handle func(ctx context.Context, p *P) outcome.Outcome) Binder {
	return Bind[P, struct{}](
		func(context.Context, *P) (struct{}, error) { return struct{}{}, nil },
		func(ctx context.Context, p *P, _ struct{}) outcome.Outcome { return handle(ctx, p) },
	)
}

// Hello is the zero-parameter discovery action at the root of a group.
// It lists the group's actions.
func Hello() Entry {
	return Entry{Path: "/", hello: true}
}

// helloBinder lists the group's other actions; the hello path itself is left out.
func helloBinder(group, self string, paths []string) Binder {
	actions := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != self {
			actions = append(actions, p)
		}
	}
	return Plain(func(context.Context, *schema.Base) outcome.Outcome {
		return outcome.OK(outcome.HelloResult{
			Message: fmt.Sprintf("Hello from %s", group),
			Actions: actions,
		})
	})
}
