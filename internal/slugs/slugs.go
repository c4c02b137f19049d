// Package slugs provides the fuzzy keys used to match caller-supplied names
// against notes and headlines.
//
// Two strategies exist:
//   - Heading slugs compare a requested headline with the headlines of a note.
//     They are a conservative, ASCII-ish transformation that keeps unicode letters.
//   - Name slugs compare note names and paths, built on gosimple/slug so
//     "Café Plans" and "cafe-plans" land on the same key.
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// HeadingSlug converts a heading text to a comparison key: lower-cased
// words of letters and digits joined by single dashes.
func HeadingSlug(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == ':'
	})

	words := fields[:0]
	for _, f := range fields {
		w := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, f)
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, "-")
}

// NameSlug converts a single note name to a comparison key.
// A trailing ".md" is ignored.
func NameSlug(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// PathSlug slugs every "/"-separated component of a vault-relative path.
// Backslashes are treated as separators.
func PathSlug(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimSuffix(strings.Trim(p, "/"), ".md")

	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = NameSlug(part)
	}
	return strings.Join(parts, "/")
}
