package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aidanlsb/raven-actions/internal/actions"
	"github.com/aidanlsb/raven-actions/internal/callback"
	"github.com/aidanlsb/raven-actions/internal/config"
	"github.com/aidanlsb/raven-actions/internal/dispatch"
	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/periodic"
	"github.com/aidanlsb/raven-actions/internal/plugins"
	"github.com/aidanlsb/raven-actions/internal/resolver"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/ui"
	"github.com/aidanlsb/raven-actions/internal/vault"
	"github.com/aidanlsb/raven-actions/internal/workspace"
)

// app is the fully wired action stack for one vault.
type app struct {
	registry   *routes.Registry
	dispatcher *dispatch.Dispatcher
	periodic   *periodic.Generator
}

type appOptions struct {
	opener   callback.Opener
	reporter dispatch.Reporter
}

// newApp wires the vault at vaultPath into a dispatcher.
func newApp(c *config.Config, vaultPath, statePath string, l *slog.Logger, opts appOptions) (*app, error) {
	store, err := vault.Open(vaultPath)
	if err != nil {
		return nil, err
	}

	gen := periodic.New(store, c.PeriodicSettings(), nil)
	res := resolver.New(store, gen,
		resolver.WithUIDKey(c.UIDKey()),
		resolver.WithLogger(l))
	reg := plugins.NewRegistry(map[string]plugins.TemplateCapability{
		plugins.Templates: plugins.NewCoreTemplates(store, nil),
	}, c.EnabledPlugins())
	ws := workspace.NewEditor(c.GetEditor(), vaultPath,
		workspace.WithStatePath(statePath),
		workspace.WithLogger(l))

	handlers := actions.New(actions.Deps{
		Store:          store,
		Resolver:       res,
		Workspace:      ws,
		Plugins:        reg,
		Periodic:       gen,
		TemplateFolder: c.TemplateFolder(),
		Logger:         l,
	})

	registry, err := routes.New(handlers.Tree(), routes.WithPrefix(c.Prefix()))
	if err != nil {
		return nil, fmt.Errorf("build routes: %w", err)
	}

	opener := opts.opener
	if opener == nil {
		opener = callback.SystemOpener{Command: c.Opener}
	}
	dopts := []dispatch.Option{dispatch.WithLogger(l), dispatch.WithScheme(c.Scheme())}
	if opts.reporter != nil {
		dopts = append(dopts, dispatch.WithReporter(opts.reporter))
	}

	return &app{
		registry:   registry,
		dispatcher: dispatch.New(registry, callback.NewEncoder(opener), dopts...),
		periodic:   gen,
	}, nil
}

// loadApp builds the app for the resolved vault.
func loadApp(opts appOptions) (*app, error) {
	return newApp(getConfig(), getVaultPath(), resolvedStatePath, logger, opts)
}

// terminalReporter prints failures that have no error callback to w.
type terminalReporter struct {
	w io.Writer
}

func (r terminalReporter) Report(_ context.Context, action string, f outcome.Failure) {
	fmt.Fprintln(r.w, ui.Errorf("%s: %s", ui.FilePath(action), f.Message))
	fmt.Fprintln(r.w, ui.Hint(fmt.Sprintf("  %s (%d)", f.Code, int(f.Code))))
}
