package actions

import (
	"context"
	"maps"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/resolver"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/vault"
)

const propsModeOverwrite, propsModeUpdate = "overwrite", "update"

type setPropertiesParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Properties schema.Properties `param:"properties" validate:"required,jsonprops"`
	Mode       string            `param:"mode" validate:"omitempty,oneof=overwrite update"`
}

type removeKeysParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Keys schema.StringList `param:"keys" validate:"required,jsonstrings"`
}

func (h *Handlers) propertyRoutes() []routes.Entry {
	return []routes.Entry{
		routes.Hello(),
		{Path: "/get", Bind: routes.Bind(h.resolveGet, h.getProperties), RequiresCallbacks: true},
		{Path: "/set", Bind: routes.Bind(h.resolveSetProperties, h.setProperties)},
		{Path: "/clear", Bind: routes.Bind(h.resolveTarget, h.clearProperties), RequiresCallbacks: true},
		{Path: "/remove-keys", Bind: routes.Bind(h.resolveRemoveKeys, h.removeKeys)},
	}
}

func (h *Handlers) resolveSetProperties(ctx context.Context, p *setPropertiesParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) resolveRemoveKeys(ctx context.Context, p *removeKeysParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) getProperties(ctx context.Context, _ *getParams, t resolver.Target) outcome.Outcome {
	props, err := t.Note.Properties()
	if err != nil {
		return outcome.Fail(outcome.HandlerError, err.Error())
	}
	return outcome.OK(outcome.PropertiesResult{Properties: props}, t.Path)
}

// setProperties replaces the front matter, or merges into it with mode=update.
func (h *Handlers) setProperties(ctx context.Context, p *setPropertiesParams, t resolver.Target) outcome.Outcome {
	props := p.Properties.Values
	if p.Mode == propsModeUpdate {
		current, err := t.Note.Properties()
		if err != nil {
			return outcome.Fail(outcome.HandlerError, err.Error())
		}
		maps.Copy(current, p.Properties.Values)
		props = current
	}
	return h.writeProperties(ctx, t.Path, props)
}

func (h *Handlers) clearProperties(ctx context.Context, _ *targetParams, t resolver.Target) outcome.Outcome {
	return h.writeProperties(ctx, t.Path, nil)
}

func (h *Handlers) removeKeys(ctx context.Context, p *removeKeysParams, t resolver.Target) outcome.Outcome {
	props, err := t.Note.Properties()
	if err != nil {
		return outcome.Fail(outcome.HandlerError, err.Error())
	}
	for _, key := range p.Keys.Items {
		delete(props, key)
	}
	return h.writeProperties(ctx, t.Path, props)
}

func (h *Handlers) writeProperties(ctx context.Context, notePath string, props map[string]any) outcome.Outcome {
	note, err := vault.SetProperties(ctx, h.store, notePath, props)
	if err != nil {
		return storeFailure(err)
	}
	return outcome.OK(h.fileResult(ctx, note), note.Path)
}
