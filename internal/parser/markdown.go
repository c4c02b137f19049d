package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/raven-actions/internal/slugs"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 0-indexed, relative to the content passed in
}

// ExtractHeadings extracts headings from markdown content using goldmark.
// Headings inside code blocks are not reported.
func ExtractHeadings(content string) []Heading {
	var headings []Heading

	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	lineStarts := computeLineStarts(content)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var sb strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				sb.Write(textNode.Segment.Value(source))
			}
		}
		headingText := strings.TrimSpace(sb.String())
		if headingText == "" || heading.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Line:  offsetToLine(lineStarts, heading.Lines().At(0).Start),
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// FindHeading locates a headline in content. The request may carry its
// leading hashes ("## Tasks"), in which case the level must match too.
// Matching falls back to heading slugs so "tasks" finds "Tasks".
func FindHeading(content, headline string) (Heading, bool) {
	level, wanted := splitHeadline(headline)
	if wanted == "" {
		return Heading{}, false
	}

	headings := ExtractHeadings(content)
	for _, pass := range []func(string) string{strings.TrimSpace, slugs.HeadingSlug} {
		for _, h := range headings {
			if level > 0 && h.Level != level {
				continue
			}
			if pass(h.Text) == pass(wanted) {
				return h, true
			}
		}
	}
	return Heading{}, false
}

func splitHeadline(headline string) (int, string) {
	headline = strings.TrimSpace(headline)
	level := 0
	for level < len(headline) && headline[level] == '#' {
		level++
	}
	if level > 6 {
		return 0, ""
	}
	return level, strings.TrimSpace(headline[level:])
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
