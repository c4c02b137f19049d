package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownSingleTrailingNewline(t *testing.T) {
	for _, width := range []int{0, 40, 80} {
		out, err := RenderMarkdown("# Inbox\n\n- [ ] call Bob\n\n", width)
		if err != nil {
			t.Fatalf("RenderMarkdown(width=%d) error = %v", width, err)
		}
		if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
			t.Fatalf("width=%d: expected exactly one trailing newline, got %q", width, out)
		}
		if !strings.Contains(out, "Bob") {
			t.Fatalf("width=%d: body text missing from %q", width, out)
		}
	}
}

func TestNoteMarkdownStyleEmphasizesHeadingsAndCode(t *testing.T) {
	style := noteMarkdownStyle()

	for name, h := range map[string]*bool{"H1": style.H1.Underline, "H2": style.H2.Underline} {
		if h == nil || !*h {
			t.Errorf("expected %s to be underlined", name)
		}
	}
	if style.Code.Color == nil {
		t.Errorf("expected inline code to have a color")
	}
	if style.CodeBlock.Theme == "" {
		t.Errorf("expected code blocks to use a syntax theme")
	}
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() { markdownCodeTheme = orig })

	tests := []struct {
		input string
		want  string
	}{
		{"dracula", "dracula"},
		{"  DrAcUlA ", "dracula"},
		{"not-a-real-theme", defaultCodeTheme},
		{"", defaultCodeTheme},
	}
	for _, tt := range tests {
		ConfigureMarkdownCodeTheme(tt.input)
		if markdownCodeTheme != tt.want {
			t.Errorf("ConfigureMarkdownCodeTheme(%q) -> %q, want %q", tt.input, markdownCodeTheme, tt.want)
		}
		if got := noteMarkdownStyle().CodeBlock.Theme; got != tt.want {
			t.Errorf("style theme = %q, want %q", got, tt.want)
		}
	}
}
