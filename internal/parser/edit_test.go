package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	assert.Equal(t, "abcdef", Append("abc", "def", false))
	assert.Equal(t, "abc\ndef", Append("abc", "def", true))
	assert.Equal(t, "abc\ndef", Append("abc\n", "def", true))
	assert.Equal(t, "def", Append("", "def", true))
}

func TestPrepend(t *testing.T) {
	note := "---\na: 1\n---\nbody"

	assert.Equal(t, "---\na: 1\n---\ntopbody", Prepend(note, "top", false, false))
	assert.Equal(t, "---\na: 1\n---\ntop\nbody", Prepend(note, "top", true, false))
	assert.Equal(t, "top\n---\na: 1\n---\nbody", Prepend(note, "top", true, true))
	assert.Equal(t, "top\nplain", Prepend("plain", "top", true, false))
}

func TestAppendBelowHeadline(t *testing.T) {
	note := "---\ntags: a\n---\n# Tasks\n- one\n\n# Notes\ntext"

	got, err := AppendBelowHeadline(note, "Tasks", "- two")
	require.NoError(t, err)
	assert.Equal(t, "---\ntags: a\n---\n# Tasks\n- one\n- two\n\n# Notes\ntext", got)

	got, err = AppendBelowHeadline(note, "Notes", "more")
	require.NoError(t, err)
	assert.Equal(t, "---\ntags: a\n---\n# Tasks\n- one\n\n# Notes\ntext\nmore", got)
}

func TestPrependBelowHeadline(t *testing.T) {
	got, err := PrependBelowHeadline("# Tasks\n- one", "Tasks", "- zero", false)
	require.NoError(t, err)
	assert.Equal(t, "# Tasks\n- zero\n- one", got)

	got, err = PrependBelowHeadline("# Tasks\n- one", "Tasks", "- zero", true)
	require.NoError(t, err)
	assert.Equal(t, "# Tasks\n- zero\n\n- one", got)
}

func TestBelowHeadlineMissing(t *testing.T) {
	_, err := AppendBelowHeadline("# Tasks\n", "Groceries", "x")
	assert.True(t, errors.Is(err, ErrHeadlineNotFound))

	_, err = PrependBelowHeadline("# Tasks\n", "Groceries", "x", false)
	assert.True(t, errors.Is(err, ErrHeadlineNotFound))
}

func TestReplaceString(t *testing.T) {
	got, n := ReplaceString("foo bar foo", "foo", "baz")
	assert.Equal(t, "baz bar baz", got)
	assert.Equal(t, 2, n)

	got, n = ReplaceString("foo", "nope", "x")
	assert.Equal(t, "foo", got)
	assert.Equal(t, 0, n)
}

func TestReplaceRegexpReplacementTokens(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		content string
		replace string
		want    string
	}{
		{"group followed by text", "/(foo)/", "foo bar\n", "$1x", "foox bar\n"},
		{"whole match", "/o+/", "foo", "[$&]", "f[oo]"},
		{"literal dollar", "/bar/", "a bar", "$$5", "a $5"},
		{"two digit group falls back to one", "/(a)(b)/", "ab", "$12", "a2"},
		{"missing group stays literal", "/(a)/", "a", "$3", "$3"},
		{"zero stays literal", "/(a)/", "a", "$0", "$0"},
		{"before and after", "/b/", "abc", "[$`|$']", "a[a|c]c"},
		{"named group", "/(?P<word>\\w+)!/", "hi!", "$<word>?", "hi?"},
		{"trailing dollar", "/x/", "x", "y$", "y$"},
		{"unmatched optional group", "/(a)?b/", "b", "[$1]", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := ParseRegexp(tt.pattern)
			require.NoError(t, err)
			got, n := ReplaceRegexp(tt.content, re, tt.replace)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, n)
		})
	}
}

func TestParseRegexp(t *testing.T) {
	re, err := ParseRegexp("/fo+/gi")
	require.NoError(t, err)
	assert.True(t, re.MatchString("FOO"))

	re, err = ParseRegexp(`(\w+)@example`)
	require.NoError(t, err)
	got, n := ReplaceRegexp("me@example you@example", re, "$1@test")
	assert.Equal(t, "me@test you@test", got)
	assert.Equal(t, 2, n)

	_, err = ParseRegexp("/x/q")
	assert.Error(t, err)

	_, err = ParseRegexp("(unclosed")
	assert.Error(t, err)
}
