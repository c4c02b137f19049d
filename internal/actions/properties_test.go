package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/testutil"
)

func propsVault(t *testing.T) *testutil.TestVault {
	return testutil.NewTestVault(t).
		WithFile("Foo.md", "---\nstatus: draft\ncount: 2\n---\nbody\n").
		WithFile("Plain.md", "just text\n")
}

func TestPropertiesGet(t *testing.T) {
	f := newFixture(t, propsVault(t))

	s := requireSuccess(t, f.call(t, "/note-properties/get", schema.Params{"file": "Foo"}))
	assert.Equal(t, "Foo.md", s.ProcessedPath)
	assert.Equal(t, outcome.PropertiesResult{Properties: map[string]any{"status": "draft", "count": 2}}, s.Result)

	s = requireSuccess(t, f.call(t, "/note-properties/get", schema.Params{"file": "Plain"}))
	assert.Equal(t, outcome.PropertiesResult{Properties: map[string]any{}}, s.Result)

	requireFailure(t, f.call(t, "/note-properties/get", schema.Params{"file": "Nope"}), outcome.NotFound)
}

func TestPropertiesSet(t *testing.T) {
	t.Run("overwrite by default", func(t *testing.T) {
		f := newFixture(t, propsVault(t))

		s := requireSuccess(t, f.call(t, "/note-properties/set", schema.Params{
			"file": "Foo", "properties": `{"status":"done","flag":true}`,
		}))
		assert.Equal(t, "Foo.md", s.ProcessedPath)
		assert.Equal(t, "---\nflag: true\nstatus: done\n---\nbody\n", f.vault.ReadFile("Foo.md"))
	})

	t.Run("update merges", func(t *testing.T) {
		f := newFixture(t, propsVault(t))

		requireSuccess(t, f.call(t, "/note-properties/set", schema.Params{
			"file": "Foo", "properties": `{"status":"done"}`, "mode": "update",
		}))
		assert.Equal(t, "---\ncount: 2\nstatus: done\n---\nbody\n", f.vault.ReadFile("Foo.md"))
	})

	t.Run("adds front matter to a plain note", func(t *testing.T) {
		f := newFixture(t, propsVault(t))

		requireSuccess(t, f.call(t, "/note-properties/set", schema.Params{
			"file": "Plain", "properties": `{"a":"b"}`,
		}))
		assert.Equal(t, "---\na: b\n---\njust text\n", f.vault.ReadFile("Plain.md"))
	})

	t.Run("nested values are rejected", func(t *testing.T) {
		f := newFixture(t, propsVault(t))

		requireFailure(t, f.call(t, "/note-properties/set", schema.Params{
			"file": "Foo", "properties": `{"a":{"b":1}}`,
		}), outcome.ValidationError)
	})

	t.Run("unknown mode", func(t *testing.T) {
		f := newFixture(t, propsVault(t))

		requireFailure(t, f.call(t, "/note-properties/set", schema.Params{
			"file": "Foo", "properties": `{}`, "mode": "merge",
		}), outcome.ValidationError)
	})
}

func TestPropertiesClear(t *testing.T) {
	f := newFixture(t, propsVault(t))

	s := requireSuccess(t, f.call(t, "/note-properties/clear", schema.Params{"file": "Foo"}))
	assert.Empty(t, s.Result.(outcome.FileResult).Properties)
	assert.Equal(t, "body\n", f.vault.ReadFile("Foo.md"))

	t.Run("uri transport needs callbacks", func(t *testing.T) {
		f := newFixture(t, propsVault(t))

		fail := requireFailure(t, f.callVia(t, routes.URI, "/note-properties/clear", schema.Params{"file": "Foo"}), outcome.ValidationError)
		assert.Contains(t, fail.Message, "x-success")
		assert.Contains(t, f.vault.ReadFile("Foo.md"), "status: draft")
	})
}

func TestPropertiesRemoveKeys(t *testing.T) {
	f := newFixture(t, propsVault(t))

	requireSuccess(t, f.call(t, "/note-properties/remove-keys", schema.Params{
		"file": "Foo", "keys": `["count","missing"]`,
	}))
	assert.Equal(t, "---\nstatus: draft\n---\nbody\n", f.vault.ReadFile("Foo.md"))

	requireFailure(t, f.call(t, "/note-properties/remove-keys", schema.Params{
		"file": "Foo", "keys": `"count"`,
	}), outcome.ValidationError)
}
