// Package parser splits notes into front matter and body and edits them.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Document is a note split into its front-matter block and its body.
type Document struct {
	// FrontMatter is the raw YAML between the fences, without the fences.
	FrontMatter string

	// HasFrontMatter is true when the note opens with a closed '---' block.
	HasFrontMatter bool

	// Body is everything after the closing fence (or the whole note).
	Body string

	// BodyLine is the 0-indexed line where Body starts.
	BodyLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != fence {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// Split separates a note into front matter and body.
// An unclosed opening fence is treated as body text.
func Split(content string) Document {
	lines := strings.Split(content, "\n")
	_, end, ok := FrontmatterBounds(lines)
	if !ok || end == -1 {
		return Document{Body: content}
	}

	return Document{
		FrontMatter:    strings.Join(lines[1:end], "\n"),
		HasFrontMatter: true,
		Body:           strings.Join(lines[end+1:], "\n"),
		BodyLine:       end + 1,
	}
}

// Join renders a note from a front-matter YAML string and a body.
// An empty front matter produces a note without a fence block.
func Join(frontMatter, body string) string {
	frontMatter = strings.TrimRight(frontMatter, "\n")
	if strings.TrimSpace(frontMatter) == "" {
		return body
	}
	return fence + "\n" + frontMatter + "\n" + fence + "\n" + body
}

// ParseProperties decodes the front matter of a note into plain values:
// strings, float64/int, bool, nil, []any and map[string]any.
// YAML timestamps are rendered back to strings. A note without front matter
// has no properties.
func ParseProperties(content string) (map[string]any, error) {
	doc := Split(content)
	props := map[string]any{}
	if !doc.HasFrontMatter || strings.TrimSpace(doc.FrontMatter) == "" {
		return props, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(doc.FrontMatter), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	for k, v := range raw {
		props[k] = plainValue(v)
	}
	return props, nil
}

// RenderProperties encodes properties as a YAML block with sorted keys.
// Empty properties render to "".
func RenderProperties(props map[string]any) (string, error) {
	if len(props) == 0 {
		return "", nil
	}
	out, err := yaml.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to render frontmatter: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ReplaceFrontMatter swaps the note's front matter for the given YAML,
// leaving the body untouched. An empty YAML removes the block.
func ReplaceFrontMatter(content, frontMatter string) string {
	return Join(frontMatter, Split(content).Body)
}

// PropertyKeys returns the property names in sorted order.
func PropertyKeys(props map[string]any) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func plainValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = plainValue(item)
		}
		return items
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = plainValue(item)
		}
		return m
	default:
		return val
	}
}
