package actions

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/parser"
	"github.com/aidanlsb/raven-actions/internal/paths"
	"github.com/aidanlsb/raven-actions/internal/periodic"
	"github.com/aidanlsb/raven-actions/internal/plugins"
	"github.com/aidanlsb/raven-actions/internal/resolver"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/template"
	"github.com/aidanlsb/raven-actions/internal/vault"
)

// Values of the create action's apply parameter.
const (
	applyContent   = "content"
	applyTemplater = plugins.Templater
	applyTemplates = plugins.Templates
)

const ifExistsOverwrite, ifExistsSkip = "overwrite", "skip"

type callbackParams struct {
	schema.Base `param:",squash"`
}

type getParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Silent schema.Bool `param:"silent" validate:"booltoken"`
}

type firstNamedParams struct {
	schema.Base `param:",squash"`

	File   string `param:"file" validate:"required,notepath"`
	SortBy string `param:"sort-by" validate:"omitempty,oneof=best-guess path-asc path-desc ctime-asc ctime-desc mtime-asc mtime-desc"`
}

type targetParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`
}

type createParams struct {
	schema.Base `param:",squash"`

	File         string      `param:"file" validate:"omitempty,notepath"`
	PeriodicNote string      `param:"periodic-note" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
	Apply        string      `param:"apply" default:"content" validate:"oneof=content templater templates"`
	Content      string      `param:"content"`
	TemplateFile string      `param:"template-file" validate:"required_unless=Apply content"`
	IfExists     string      `param:"if-exists" validate:"omitempty,oneof=overwrite skip"`
	Silent       schema.Bool `param:"silent" validate:"booltoken"`
}

type appendParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Content          string      `param:"content" validate:"required"`
	Silent           schema.Bool `param:"silent" validate:"booltoken"`
	BelowHeadline    string      `param:"below-headline"`
	CreateIfNotFound schema.Bool `param:"create-if-not-found" validate:"booltoken"`
	EnsureNewline    schema.Bool `param:"ensure-newline" validate:"booltoken"`
}

type prependParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Content           string      `param:"content" validate:"required"`
	Silent            schema.Bool `param:"silent" validate:"booltoken"`
	BelowHeadline     string      `param:"below-headline"`
	CreateIfNotFound  schema.Bool `param:"create-if-not-found" validate:"booltoken"`
	EnsureNewline     schema.Bool `param:"ensure-newline" validate:"booltoken"`
	IgnoreFrontMatter schema.Bool `param:"ignore-front-matter" validate:"booltoken"`
}

type touchParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Silent schema.Bool `param:"silent" validate:"booltoken"`
}

type renameParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	NewFilename string      `param:"new-filename" validate:"required,notepath"`
	Silent      schema.Bool `param:"silent" validate:"booltoken"`
}

type replaceParams struct {
	schema.Base      `param:",squash"`
	schema.Targeting `param:",squash"`

	Search  string      `param:"search" validate:"min=1"`
	Replace string      `param:"replace"`
	Silent  schema.Bool `param:"silent" validate:"booltoken"`
}

// createTarget is the resolved create request: the note to write and, when
// a template is applied, the template's vault path.
type createTarget struct {
	resolver.Target
	TemplatePath string
}

// regexTarget is a resolved regex replacement.
type regexTarget struct {
	resolver.Target
	Pattern *regexp.Regexp
}

func (h *Handlers) noteRoutes() []routes.Entry {
	return []routes.Entry{
		routes.Hello(),
		{Path: "/list", Bind: routes.Plain(h.list), RequiresCallbacks: true},
		{Path: "/get", Bind: routes.Bind(h.resolveGet, h.get), RequiresCallbacks: true},
		{Path: "/get-first-named", Bind: routes.Plain(h.getFirstNamed), RequiresCallbacks: true},
		{Path: "/get-active", Bind: routes.Plain(h.getActive), RequiresCallbacks: true},
		{Path: "/open", Bind: routes.Bind(h.resolveTarget, h.open)},
		{Path: "/create", Bind: routes.Bind(h.resolveCreate, h.create)},
		{Path: "/append", Bind: routes.Bind(h.resolveAppend, h.append)},
		{Path: "/prepend", Bind: routes.Bind(h.resolvePrepend, h.prepend)},
		{Path: "/touch", Bind: routes.Bind(h.resolveTouch, h.touch)},
		{Path: "/delete", Bind: routes.Bind(h.resolveTarget, h.delete)},
		{Path: "/trash", Bind: routes.Bind(h.resolveTarget, h.trash)},
		{Path: "/rename", Bind: routes.Bind(h.resolveRename, h.rename)},
		{Path: "/search-string-and-replace", Bind: routes.Bind(h.resolveReplace, h.replaceString)},
		{Path: "/search-regex-and-replace", Bind: routes.Bind(h.resolveRegex, h.replaceRegex)},
	}
}

// Stage 2 resolvers.

func (h *Handlers) resolveGet(ctx context.Context, p *getParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) resolveTarget(ctx context.Context, p *targetParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) resolveTouch(ctx context.Context, p *touchParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) resolveRename(ctx context.Context, p *renameParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) resolveReplace(ctx context.Context, p *replaceParams) (resolver.Target, error) {
	return h.hard(ctx, p.Targeting)
}

func (h *Handlers) resolveAppend(ctx context.Context, p *appendParams) (resolver.Target, error) {
	return h.soft(ctx, p.Targeting)
}

func (h *Handlers) resolvePrepend(ctx context.Context, p *prependParams) (resolver.Target, error) {
	return h.soft(ctx, p.Targeting)
}

func (h *Handlers) resolveRegex(ctx context.Context, p *replaceParams) (regexTarget, error) {
	re, err := parser.ParseRegexp(p.Search)
	if err != nil {
		return regexTarget{}, outcome.Failf(outcome.ValidationError, "search: %v", err)
	}
	t, err := h.hard(ctx, p.Targeting)
	if err != nil {
		return regexTarget{}, err
	}
	return regexTarget{Target: t, Pattern: re}, nil
}

func (h *Handlers) resolveCreate(ctx context.Context, p *createParams) (createTarget, error) {
	t, err := h.soft(ctx, schema.Targeting{File: p.File, PeriodicNote: p.PeriodicNote})
	if err != nil {
		return createTarget{}, err
	}
	c := createTarget{Target: t}
	if t.InputKey == resolver.KeyPeriodicNote || p.Apply == applyContent {
		return c, nil
	}

	tmpl, err := template.ResolveFileRef(p.TemplateFile, h.templateFolder)
	if err != nil {
		return createTarget{}, outcome.Failf(outcome.ValidationError, "template-file: %v", err)
	}
	if _, err := h.store.Stat(ctx, tmpl); err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return createTarget{}, outcome.Failf(outcome.ValidationError, "template-file: no template at %s", tmpl)
		}
		return createTarget{}, outcome.Failf(outcome.HandlerError, "read template %s: %v", tmpl, err)
	}
	c.TemplatePath = tmpl
	return c, nil
}

// Handlers.

func (h *Handlers) list(ctx context.Context, _ *callbackParams) outcome.Outcome {
	files, err := h.store.List(ctx)
	if err != nil {
		return outcome.Failf(outcome.HandlerError, "list notes: %v", err)
	}
	notePaths := make([]string, 0, len(files))
	for _, f := range files {
		notePaths = append(notePaths, f.Path)
	}
	return outcome.OK(outcome.PathsResult{Paths: notePaths})
}

func (h *Handlers) get(ctx context.Context, p *getParams, t resolver.Target) outcome.Outcome {
	res := outcome.OK(h.fileResult(ctx, t.Note), t.Path)
	h.focus(ctx, t.Path, p.Silent)
	return res
}

func (h *Handlers) getFirstNamed(ctx context.Context, p *firstNamedParams) outcome.Outcome {
	note, err := h.resolver.ByName(ctx, p.File, p.SortBy)
	if err != nil {
		return routes.AsFailure(err)
	}
	return outcome.OK(h.fileResult(ctx, note), note.Path)
}

func (h *Handlers) getActive(ctx context.Context, _ *callbackParams) outcome.Outcome {
	active, ok := h.workspace.Active(ctx)
	if !ok || !paths.IsNote(active) {
		return outcome.Fail(outcome.NotFound, msgNoActiveNote)
	}
	res := h.details(ctx, active)
	if !res.IsSuccess() {
		return outcome.Fail(outcome.NotFound, msgNoActiveNote)
	}
	return res
}

func (h *Handlers) open(ctx context.Context, _ *targetParams, t resolver.Target) outcome.Outcome {
	if err := h.workspace.FocusOrOpen(ctx, t.Path); err != nil {
		return outcome.Failf(outcome.HandlerError, "open %s: %v", t.Path, err)
	}
	return textResult(msgNoteOpened, t.Path)
}

func (h *Handlers) create(ctx context.Context, p *createParams, c createTarget) outcome.Outcome {
	if c.Exists() && p.IfExists == ifExistsSkip {
		h.focus(ctx, c.Path, p.Silent)
		return h.details(ctx, c.Path)
	}
	overwrite := p.IfExists == ifExistsOverwrite

	if c.InputKey == resolver.KeyPeriodicNote {
		return h.createPeriodic(ctx, periodic.Type(p.PeriodicNote), c.Target, overwrite, p.Silent)
	}
	return h.createNote(ctx, p, c, overwrite)
}

func (h *Handlers) createNote(ctx context.Context, p *createParams, c createTarget, overwrite bool) outcome.Outcome {
	content := p.Content
	if p.Apply != applyContent {
		capability, err := h.plugins.Plugin(p.Apply)
		if err != nil {
			return pluginFailure(err)
		}
		content, err = capability.Render(ctx, c.TemplatePath, c.Path)
		if err != nil {
			return outcome.Failf(outcome.HandlerError, "apply template %s: %v", c.TemplatePath, err)
		}
	}

	var err error
	if c.Exists() && overwrite {
		_, err = h.store.Write(ctx, c.Path, content)
	} else {
		_, err = h.store.Create(ctx, c.Path, content)
	}
	if err != nil {
		return createFailure(err)
	}

	h.logger.InfoContext(ctx, "note created", "path", c.Path, "apply", p.Apply)
	h.focus(ctx, c.Path, p.Silent)
	return h.details(ctx, c.Path)
}

func (h *Handlers) createPeriodic(ctx context.Context, kind periodic.Type, t resolver.Target, overwrite bool, silent schema.Bool) outcome.Outcome {
	if t.Exists() {
		if !overwrite {
			h.focus(ctx, t.Path, silent)
			return h.details(ctx, t.Path)
		}
		if _, err := h.store.Trash(ctx, t.Path); err != nil {
			return storeFailure(err)
		}
	}

	if h.periodic == nil {
		return outcome.Fail(outcome.PluginDisabled, "Periodic notes are not available")
	}
	notePath, err := h.periodic.Create(ctx, kind, false)
	if errors.Is(err, periodic.ErrDisabled) {
		return outcome.Failf(outcome.PluginDisabled, "Periodic notes of type %s are not enabled", kind)
	}
	if err != nil {
		return createFailure(err)
	}

	h.logger.InfoContext(ctx, "periodic note created", "path", notePath, "type", kind)
	h.focus(ctx, notePath, silent)
	return h.details(ctx, notePath)
}

func (h *Handlers) append(ctx context.Context, p *appendParams, t resolver.Target) outcome.Outcome {
	return h.editNote(ctx, t, p.UID, p.CreateIfNotFound, p.Silent, msgContentAppended, func(content string) (string, error) {
		if p.BelowHeadline != "" {
			return parser.AppendBelowHeadline(content, p.BelowHeadline, p.Content)
		}
		return parser.Append(content, p.Content, p.EnsureNewline.Value), nil
	})
}

func (h *Handlers) prepend(ctx context.Context, p *prependParams, t resolver.Target) outcome.Outcome {
	return h.editNote(ctx, t, p.UID, p.CreateIfNotFound, p.Silent, msgContentPrepended, func(content string) (string, error) {
		if p.BelowHeadline != "" {
			return parser.PrependBelowHeadline(content, p.BelowHeadline, p.Content, p.EnsureNewline.Value)
		}
		return parser.Prepend(content, p.Content, p.EnsureNewline.Value, p.IgnoreFrontMatter.Value), nil
	})
}

// editNote rewrites the targeted note with edit, creating it first when it
// is missing and create is set. A note requested by uid is created at the
// uid as path and gets the uid written into its front matter.
func (h *Handlers) editNote(ctx context.Context, t resolver.Target, uid string, create, silent schema.Bool, message string, edit func(string) (string, error)) outcome.Outcome {
	notePath := t.Path
	if !t.Exists() {
		if !create.Value {
			return outcome.Fail(outcome.NotFound, msgNoteNotFound)
		}
		if t.InputKey == resolver.KeyUID {
			p, err := paths.SanitizeNotePath(uid)
			if err != nil {
				return outcome.Failf(outcome.ValidationError, "uid: %v", err)
			}
			notePath = p
		}
		if _, err := h.store.Create(ctx, notePath, ""); err != nil {
			return createFailure(err)
		}
		if t.InputKey == resolver.KeyUID {
			props := map[string]any{h.resolver.UIDKey(): uid}
			if _, err := vault.SetProperties(ctx, h.store, notePath, props); err != nil {
				return outcome.Failf(outcome.HandlerError, "set %s: %v", h.resolver.UIDKey(), err)
			}
		}
	}

	content, err := h.store.Read(ctx, notePath)
	if err != nil {
		return storeFailure(err)
	}
	updated, err := edit(content)
	if errors.Is(err, parser.ErrHeadlineNotFound) {
		return outcome.Fail(outcome.NotFound, msgHeadlineNotFound)
	}
	if err != nil {
		return outcome.Fail(outcome.HandlerError, err.Error())
	}
	if _, err := h.store.Write(ctx, notePath, updated); err != nil {
		return outcome.Failf(outcome.HandlerError, "%s: %v", msgUnableToWrite, err)
	}

	h.focus(ctx, notePath, silent)
	return textResult(message, notePath)
}

func (h *Handlers) touch(ctx context.Context, p *touchParams, t resolver.Target) outcome.Outcome {
	if err := h.store.Touch(ctx, t.Path); err != nil {
		return storeFailure(err)
	}
	h.focus(ctx, t.Path, p.Silent)
	return textResult(msgNoteTouched, t.Path)
}

func (h *Handlers) delete(ctx context.Context, _ *targetParams, t resolver.Target) outcome.Outcome {
	if err := h.store.Delete(ctx, t.Path); err != nil {
		return storeFailure(err)
	}
	h.logger.InfoContext(ctx, "note deleted", "path", t.Path)
	return textResult(msgNoteDeleted, t.Path)
}

func (h *Handlers) trash(ctx context.Context, _ *targetParams, t resolver.Target) outcome.Outcome {
	dest, err := h.store.Trash(ctx, t.Path)
	if err != nil {
		return storeFailure(err)
	}
	h.logger.InfoContext(ctx, "note trashed", "path", t.Path, "trash", dest)
	return textResult(msgNoteTrashed, t.Path)
}

func (h *Handlers) rename(ctx context.Context, p *renameParams, t resolver.Target) outcome.Outcome {
	newPath, err := paths.SanitizeNotePath(p.NewFilename)
	if err != nil {
		return outcome.Failf(outcome.ValidationError, "new-filename: %v", err)
	}
	if newPath == t.Path {
		return textResult(msgNoteRenamed, t.Path)
	}
	if err := h.store.Rename(ctx, t.Path, newPath); err != nil {
		return storeFailure(err)
	}
	h.logger.InfoContext(ctx, "note renamed", "from", t.Path, "to", newPath)
	return textResult(msgNoteRenamed, t.Path)
}

func (h *Handlers) replaceString(ctx context.Context, p *replaceParams, t resolver.Target) outcome.Outcome {
	return h.replace(ctx, t, p.Silent, func(content string) (string, int) {
		return parser.ReplaceString(content, p.Search, p.Replace)
	})
}

func (h *Handlers) replaceRegex(ctx context.Context, p *replaceParams, t regexTarget) outcome.Outcome {
	return h.replace(ctx, t.Target, p.Silent, func(content string) (string, int) {
		return parser.ReplaceRegexp(content, t.Pattern, p.Replace)
	})
}

func (h *Handlers) replace(ctx context.Context, t resolver.Target, silent schema.Bool, fn func(string) (string, int)) outcome.Outcome {
	updated, n := fn(t.Note.Content)
	if n > 0 {
		if _, err := h.store.Write(ctx, t.Path, updated); err != nil {
			return outcome.Failf(outcome.HandlerError, "%s: %v", msgUnableToWrite, err)
		}
	}
	h.focus(ctx, t.Path, silent)
	return textResult(replacedMessage(n), t.Path)
}

func replacedMessage(n int) string {
	switch n {
	case 0:
		return "No replacements made"
	case 1:
		return "Replaced 1 occurrence"
	default:
		return fmt.Sprintf("Replaced %d occurrences", n)
	}
}

func createFailure(err error) outcome.Failure {
	if errors.Is(err, vault.ErrExists) {
		return outcome.Fail(outcome.UnableToCreateNote, msgNoteExists)
	}
	return outcome.Failf(outcome.UnableToCreateNote, "%s: %v", msgUnableToWrite, err)
}

func pluginFailure(err error) outcome.Failure {
	switch {
	case errors.Is(err, plugins.ErrMissingPlugin):
		return outcome.Fail(outcome.MissingPlugin, err.Error())
	case errors.Is(err, plugins.ErrPluginDisabled):
		return outcome.Fail(outcome.PluginDisabled, err.Error())
	default:
		return outcome.Fail(outcome.HandlerError, err.Error())
	}
}
