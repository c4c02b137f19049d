// Package actions implements the vault actions: the route tree of the
// /note, /note-properties and /search groups and their handlers.
package actions

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/parser"
	"github.com/aidanlsb/raven-actions/internal/periodic"
	"github.com/aidanlsb/raven-actions/internal/plugins"
	"github.com/aidanlsb/raven-actions/internal/resolver"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/vault"
	"github.com/aidanlsb/raven-actions/internal/workspace"
)

// Messages returned in TextResult payloads and failures.
const (
	msgNoteNotFound     = "Note not found"
	msgNoActiveNote     = "No active note"
	msgNoteOpened       = "Note opened"
	msgNoteTouched      = "Note touched"
	msgNoteDeleted      = "Note deleted"
	msgNoteTrashed      = "Note moved to trash"
	msgNoteRenamed      = "Note renamed"
	msgContentAppended  = "Content appended"
	msgContentPrepended = "Content prepended"
	msgNoteExists       = "A note with this name already exists"
	msgUnableToWrite    = "Unable to write note"
	msgHeadlineNotFound = "Headline not found"
)

// Deps are the collaborators the handlers work with.
type Deps struct {
	Store     vault.Store
	Resolver  *resolver.Resolver
	Workspace workspace.Workspace
	Plugins   plugins.Provider

	// Periodic creates periodic notes; nil disables periodic creation.
	Periodic *periodic.Generator

	// TemplateFolder is where bare template file names are looked up.
	TemplateFolder string

	Logger *slog.Logger
}

// Handlers holds the action handlers.
type Handlers struct {
	store          vault.Store
	resolver       *resolver.Resolver
	workspace      workspace.Workspace
	plugins        plugins.Provider
	periodic       *periodic.Generator
	templateFolder string
	logger         *slog.Logger
}

// New returns Handlers over d. A nil Workspace tracks focus in memory.
func New(d Deps) *Handlers {
	h := &Handlers{
		store:          d.Store,
		resolver:       d.Resolver,
		workspace:      d.Workspace,
		plugins:        d.Plugins,
		periodic:       d.Periodic,
		templateFolder: d.TemplateFolder,
		logger:         d.Logger,
	}
	if h.workspace == nil {
		h.workspace = &workspace.Memory{}
	}
	if h.plugins == nil {
		h.plugins = plugins.NewRegistry(nil, nil)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Tree returns the route table of every action group.
func (h *Handlers) Tree() routes.Tree {
	return routes.Tree{
		"/note":            h.noteRoutes(),
		"/note-properties": h.propertyRoutes(),
		"/search":          h.searchRoutes(),
	}
}

// hard is the Stage 2 resolution for actions on an existing note.
func (h *Handlers) hard(ctx context.Context, t schema.Targeting) (resolver.Target, error) {
	return h.resolver.Hard(ctx, t)
}

// soft is the Stage 2 resolution for actions that may create the note.
func (h *Handlers) soft(ctx context.Context, t schema.Targeting) (resolver.Target, error) {
	return h.resolver.Soft(ctx, t)
}

// details reads the note at notePath and describes it.
func (h *Handlers) details(ctx context.Context, notePath string) outcome.Outcome {
	note, err := vault.Load(ctx, h.store, notePath)
	if errors.Is(err, vault.ErrNotFound) {
		return outcome.Fail(outcome.NotFound, msgNoteNotFound)
	}
	if err != nil {
		return outcome.Failf(outcome.HandlerError, "read %s: %v", notePath, err)
	}
	return outcome.OK(h.fileResult(ctx, note), note.Path)
}

func (h *Handlers) fileResult(ctx context.Context, note *vault.Note) outcome.FileResult {
	doc := parser.Split(note.Content)
	props, err := note.Properties()
	if err != nil {
		h.logger.WarnContext(ctx, "unreadable front matter", "path", note.Path, "error", err)
		props = map[string]any{}
	}
	return outcome.FileResult{
		FilePath:    note.Path,
		Content:     note.Content,
		Body:        doc.Body,
		FrontMatter: doc.FrontMatter,
		Properties:  props,
		UID:         note.Property(h.resolver.UIDKey()),
	}
}

// focus brings the note up unless the caller asked for silence. Focus
// failures do not fail the action.
func (h *Handlers) focus(ctx context.Context, notePath string, silent schema.Bool) {
	if silent.Value {
		return
	}
	if err := h.workspace.FocusOrOpen(ctx, notePath); err != nil {
		h.logger.WarnContext(ctx, "focus note failed", "path", notePath, "error", err)
	}
}

func textResult(message, notePath string) outcome.Outcome {
	return outcome.OK(outcome.TextResult{Message: message}, notePath)
}

// storeFailure maps a vault error to a failure.
func storeFailure(err error) outcome.Failure {
	switch {
	case errors.Is(err, vault.ErrNotFound):
		return outcome.Fail(outcome.NotFound, msgNoteNotFound)
	case errors.Is(err, vault.ErrExists):
		return outcome.Fail(outcome.UnableToCreateNote, msgNoteExists)
	default:
		return outcome.Fail(outcome.HandlerError, err.Error())
	}
}
