package actions

import (
	"context"
	"strings"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

type searchParams struct {
	schema.Base `param:",squash"`

	Query string `param:"query" validate:"min=1"`
}

func (h *Handlers) searchRoutes() []routes.Entry {
	return []routes.Entry{
		routes.Hello(),
		{Path: "/all-notes", Bind: routes.Plain(h.searchAllNotes), RequiresCallbacks: true},
	}
}

// searchAllNotes returns the notes whose path or content contains the query,
// ignoring case.
func (h *Handlers) searchAllNotes(ctx context.Context, p *searchParams) outcome.Outcome {
	files, err := h.store.List(ctx)
	if err != nil {
		return outcome.Failf(outcome.HandlerError, "list notes: %v", err)
	}

	query := strings.ToLower(p.Query)
	matches := []string{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return outcome.Fail(outcome.HandlerError, err.Error())
		}
		if strings.Contains(strings.ToLower(f.Path), query) {
			matches = append(matches, f.Path)
			continue
		}
		content, err := h.store.Read(ctx, f.Path)
		if err != nil {
			h.logger.WarnContext(ctx, "skipping unreadable note", "path", f.Path, "error", err)
			continue
		}
		if strings.Contains(strings.ToLower(content), query) {
			matches = append(matches, f.Path)
		}
	}
	return outcome.OK(outcome.PathsResult{Paths: matches})
}
