// Package paths provides canonical helpers for vault-relative note paths.
//
// Every path-shaped parameter passes through SanitizeNotePath before it is
// used for lookup, so the resolver, the store and the handlers all agree on
// one spelling of a note's location.
package paths

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// NoteExt is the extension of every note in the vault.
const NoteExt = ".md"

var (
	// ErrEmptyPath is returned when nothing is left after sanitizing.
	ErrEmptyPath = errors.New("path is empty")

	// ErrPathOutsideVault is returned for paths that climb above the vault root.
	ErrPathOutsideVault = errors.New("path escapes the vault")
)

// disallowed lists characters that cannot appear in a note path component.
const disallowed = `*"<>:|?#^[]`

// NormalizeDirRoot normalizes a directory root to have:
// - no leading slash
// - exactly one trailing slash (unless empty)
//
// Examples:
// - "/templates/" -> "templates/"
// - "templates"   -> "templates/"
// - ""            -> ""
func NormalizeDirRoot(root string) string {
	root = filepath.ToSlash(root)
	root = strings.Trim(root, "/")
	for strings.Contains(root, "//") {
		root = strings.ReplaceAll(root, "//", "/")
	}
	if root == "" {
		return ""
	}
	return root + "/"
}

// normalizeRelPath normalizes a vault-relative path-like value:
// - converts OS separators and backslashes to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func normalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return strings.TrimPrefix(p, "/")
}

// SanitizeNotePath turns caller input into a vault-relative note path.
//
// It normalizes separators, strips characters that are not allowed in note
// names, trims whitespace around each component and appends ".md" when the
// path has no markdown extension. Case is preserved.
func SanitizeNotePath(p string) (string, error) {
	p = normalizeRelPath(strings.TrimSpace(p))

	parts := strings.Split(p, "/")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(stripDisallowed(part))
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrPathOutsideVault
		}
		clean = append(clean, part)
	}
	if len(clean) == 0 {
		return "", ErrEmptyPath
	}

	out := strings.Join(clean, "/")
	if !strings.EqualFold(path.Ext(out), NoteExt) {
		out += NoteExt
	}
	return out, nil
}

// SanitizeDirPath normalizes a vault-relative folder path. The result has no
// leading or trailing slash; the vault root is "".
func SanitizeDirPath(p string) (string, error) {
	p = normalizeRelPath(strings.TrimSpace(p))
	parts := strings.Split(p, "/")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(stripDisallowed(part))
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrPathOutsideVault
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, "/"), nil
}

// NoteName returns the note's file name without folder or extension.
// "people/Freya.md" -> "Freya"
func NoteName(p string) string {
	base := path.Base(normalizeRelPath(p))
	if strings.EqualFold(path.Ext(base), NoteExt) {
		base = base[:len(base)-len(NoteExt)]
	}
	return base
}

// IsNote reports whether p names a markdown note.
func IsNote(p string) bool {
	return strings.EqualFold(path.Ext(p), NoteExt)
}

func stripDisallowed(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(disallowed, r) {
			return -1
		}
		return r
	}, s)
}
