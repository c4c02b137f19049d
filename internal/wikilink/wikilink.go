// Package wikilink parses wikilink literals passed as note names.
//
//	[[target]]
//	[[target#Heading]]
//	[[target^block|display text]]
package wikilink

import "strings"

// Link is a parsed wikilink.
type Link struct {
	// Target is the note part, e.g. "work/Standup".
	Target string
	// Anchor is the heading or block reference including its marker
	// ("#Agenda", "^abc123"), or "".
	Anchor string
	// Display is the text after "|", or "".
	Display string
}

// Parse reads s as a single wikilink literal. Surrounding whitespace is
// ignored; ok is false when s is not a wikilink or its target is empty.
func Parse(s string) (Link, bool) {
	s = strings.TrimSpace(s)
	inner, found := strings.CutPrefix(s, "[[")
	if !found {
		return Link{}, false
	}
	inner, found = strings.CutSuffix(inner, "]]")
	if !found {
		return Link{}, false
	}

	var l Link
	if ref, display, hasDisplay := strings.Cut(inner, "|"); hasDisplay {
		inner = ref
		l.Display = strings.TrimSpace(display)
	}
	l.Target, l.Anchor = splitAnchor(inner)
	if l.Target == "" {
		return Link{}, false
	}
	return l, true
}

// LinkPath returns the note part of a name that may be a wikilink or carry
// a heading or block anchor.
func LinkPath(s string) string {
	if l, ok := Parse(s); ok {
		return l.Target
	}
	target, _ := splitAnchor(s)
	return target
}

func splitAnchor(s string) (target, anchor string) {
	if idx := strings.IndexAny(s, "#^"); idx != -1 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx:])
	}
	return strings.TrimSpace(s), ""
}
