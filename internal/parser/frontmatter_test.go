package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantFM   string
		wantHas  bool
		wantBody string
		wantLine int
	}{
		{
			name:     "basic frontmatter",
			content:  "---\nuid: abc\ntitle: Freya\n---\n# Freya\n\nSome content",
			wantFM:   "uid: abc\ntitle: Freya",
			wantHas:  true,
			wantBody: "# Freya\n\nSome content",
			wantLine: 4,
		},
		{
			name:     "no frontmatter",
			content:  "# Just a heading\n\nSome content",
			wantBody: "# Just a heading\n\nSome content",
		},
		{
			name:     "empty frontmatter still counts",
			content:  "---\n---\nContent",
			wantHas:  true,
			wantBody: "Content",
			wantLine: 2,
		},
		{
			name:     "unclosed fence is body",
			content:  "---\nuid: abc\nno closing",
			wantBody: "---\nuid: abc\nno closing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Split(tt.content)
			assert.Equal(t, tt.wantFM, doc.FrontMatter)
			assert.Equal(t, tt.wantHas, doc.HasFrontMatter)
			assert.Equal(t, tt.wantBody, doc.Body)
			assert.Equal(t, tt.wantLine, doc.BodyLine)
		})
	}
}

func TestParseProperties(t *testing.T) {
	content := "---\ntitle: Hello\ncount: 3\ndone: true\ntags:\n  - a\n  - b\ndate: 2025-02-01\n---\nbody"

	props, err := ParseProperties(content)
	require.NoError(t, err)
	assert.Equal(t, "Hello", props["title"])
	assert.Equal(t, 3, props["count"])
	assert.Equal(t, true, props["done"])
	assert.Equal(t, []any{"a", "b"}, props["tags"])
	assert.Equal(t, "2025-02-01", props["date"])
}

func TestParsePropertiesWithoutFrontmatter(t *testing.T) {
	props, err := ParseProperties("just text")
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestParsePropertiesInvalidYAML(t *testing.T) {
	_, err := ParseProperties("---\n: : :\n  - [\n---\nbody")
	assert.Error(t, err)
}

func TestRenderProperties(t *testing.T) {
	out, err := RenderProperties(map[string]any{"b": 1, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 1", out)

	out, err = RenderProperties(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestReplaceFrontMatter(t *testing.T) {
	assert.Equal(t, "body", ReplaceFrontMatter("---\na: 1\n---\nbody", ""))
	assert.Equal(t, "---\na: 1\n---\nbody", ReplaceFrontMatter("body", "a: 1"))
	assert.Equal(t, "---\nb: 2\n---\nbody", ReplaceFrontMatter("---\na: 1\n---\nbody", "b: 2\n"))
}

func TestPropertyKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, PropertyKeys(map[string]any{"c": 1, "a": 2, "b": 3}))
}
