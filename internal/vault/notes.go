package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidanlsb/raven-actions/internal/parser"
)

// Note is an existing note together with its content.
type Note struct {
	File
	Content string
}

// Load reads the note at notePath.
func Load(ctx context.Context, s Store, notePath string) (*Note, error) {
	f, err := s.Stat(ctx, notePath)
	if err != nil {
		return nil, err
	}
	content, err := s.Read(ctx, notePath)
	if err != nil {
		return nil, err
	}
	return &Note{File: f, Content: content}, nil
}

// Properties decodes the note's front matter.
func (n *Note) Properties() (map[string]any, error) {
	props, err := parser.ParseProperties(n.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.Path, err)
	}
	return props, nil
}

// Property returns a front-matter value rendered as a string, or "" when the
// key is absent or the front matter cannot be parsed.
func (n *Note) Property(key string) string {
	props, err := n.Properties()
	if err != nil {
		return ""
	}
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// SetProperties replaces the front matter of the note at notePath with props.
// Empty props remove the front-matter block. The body is left untouched.
func SetProperties(ctx context.Context, s Store, notePath string, props map[string]any) (*Note, error) {
	content, err := s.Read(ctx, notePath)
	if err != nil {
		return nil, err
	}
	yml, err := parser.RenderProperties(props)
	if err != nil {
		return nil, err
	}
	content = parser.ReplaceFrontMatter(content, yml)
	f, err := s.Write(ctx, notePath, content)
	if err != nil {
		return nil, err
	}
	return &Note{File: f, Content: content}, nil
}
