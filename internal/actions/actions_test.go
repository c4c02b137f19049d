package actions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/periodic"
	"github.com/aidanlsb/raven-actions/internal/plugins"
	"github.com/aidanlsb/raven-actions/internal/resolver"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/testutil"
	"github.com/aidanlsb/raven-actions/internal/workspace"
)

var fixedNow = time.Date(2025, 5, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	vault    *testutil.TestVault
	ws       *workspace.Memory
	registry *routes.Registry
}

type fixtureOption func(*Deps)

func withPlugins(p plugins.Provider) fixtureOption {
	return func(d *Deps) { d.Plugins = p }
}

func newFixture(t *testing.T, v *testutil.TestVault, opts ...fixtureOption) *fixture {
	t.Helper()

	v.Build()
	gen := periodic.New(v.Store, map[periodic.Type]periodic.Settings{
		periodic.Daily: {Enabled: true, Folder: "daily"},
	}, func() time.Time { return fixedNow })

	ws := &workspace.Memory{}
	d := Deps{
		Store:          v.Store,
		Resolver:       resolver.New(v.Store, gen),
		Workspace:      ws,
		Periodic:       gen,
		TemplateFolder: "templates",
		Plugins: plugins.NewRegistry(map[string]plugins.TemplateCapability{
			plugins.Templates: plugins.NewCoreTemplates(v.Store, func() time.Time { return fixedNow }),
		}, []string{plugins.Templates}),
	}
	for _, opt := range opts {
		opt(&d)
	}

	reg, err := routes.New(New(d).Tree())
	require.NoError(t, err)
	return &fixture{vault: v, ws: ws, registry: reg}
}

func (f *fixture) call(t *testing.T, path string, params schema.Params) outcome.Outcome {
	t.Helper()
	return f.callVia(t, routes.HTTP, path, params)
}

func (f *fixture) callVia(t *testing.T, transport routes.Transport, path string, params schema.Params) outcome.Outcome {
	t.Helper()
	route, ok := f.registry.Lookup(path)
	require.True(t, ok, "route %s not registered", path)
	return route.Call(context.Background(), params, transport)
}

func requireSuccess(t *testing.T, o outcome.Outcome) outcome.Success {
	t.Helper()
	s, ok := o.(outcome.Success)
	require.True(t, ok, "expected success, got %#v", o)
	return s
}

func requireFailure(t *testing.T, o outcome.Outcome, code outcome.ErrorCode) outcome.Failure {
	t.Helper()
	f, ok := o.(outcome.Failure)
	require.True(t, ok, "expected failure, got %#v", o)
	assert.Equal(t, code, f.Code, "message: %s", f.Message)
	return f
}

func TestTreeRegistersEveryAction(t *testing.T) {
	f := newFixture(t, testutil.NewTestVault(t))

	assert.Equal(t, []string{
		"/note",
		"/note-properties",
		"/note-properties/clear",
		"/note-properties/get",
		"/note-properties/remove-keys",
		"/note-properties/set",
		"/note/append",
		"/note/create",
		"/note/delete",
		"/note/get",
		"/note/get-active",
		"/note/get-first-named",
		"/note/list",
		"/note/open",
		"/note/prepend",
		"/note/rename",
		"/note/search-regex-and-replace",
		"/note/search-string-and-replace",
		"/note/touch",
		"/note/trash",
		"/search",
		"/search/all-notes",
	}, f.registry.Paths())
}

func TestHello(t *testing.T) {
	f := newFixture(t, testutil.NewTestVault(t))

	s := requireSuccess(t, f.call(t, "/search", schema.Params{}))
	hello, ok := s.Result.(outcome.HelloResult)
	require.True(t, ok)
	assert.Equal(t, []string{"/search/all-notes"}, hello.Actions)
}
