package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrHeadlineNotFound is returned when a below-headline edit names a
// headline the note does not have.
var ErrHeadlineNotFound = errors.New("headline not found")

// Append adds text to the end of content. With ensureNewline, a line break
// is inserted first when the note does not already end with one.
func Append(content, text string, ensureNewline bool) string {
	if ensureNewline && content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + text
}

// Prepend adds text to the start of the note body, after the front matter.
// With ignoreFrontMatter the text goes to the very top of the file.
// With ensureNewline the inserted text is terminated by a line break.
func Prepend(content, text string, ensureNewline, ignoreFrontMatter bool) string {
	if ensureNewline && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	doc := Split(content)
	if ignoreFrontMatter || !doc.HasFrontMatter {
		return text + content
	}
	return withBody(content, doc, text+doc.Body)
}

// AppendBelowHeadline inserts text at the end of the section that starts
// with headline, before any trailing blank lines of that section.
func AppendBelowHeadline(content, headline, text string) (string, error) {
	doc := Split(content)
	h, ok := FindHeading(doc.Body, headline)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrHeadlineNotFound, headline)
	}

	lines := strings.Split(doc.Body, "\n")
	end := len(lines)
	for _, next := range ExtractHeadings(doc.Body) {
		if next.Line > h.Line && next.Level <= h.Level {
			end = next.Line
			break
		}
	}
	for end-1 > h.Line && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return withBody(content, doc, insertLines(lines, end, text)), nil
}

// PrependBelowHeadline inserts text directly under the headline.
func PrependBelowHeadline(content, headline, text string, ensureNewline bool) (string, error) {
	doc := Split(content)
	h, ok := FindHeading(doc.Body, headline)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrHeadlineNotFound, headline)
	}
	if ensureNewline && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	lines := strings.Split(doc.Body, "\n")
	return withBody(content, doc, insertLines(lines, h.Line+1, text)), nil
}

// ReplaceString replaces every occurrence of search and reports the count.
func ReplaceString(content, search, replace string) (string, int) {
	n := strings.Count(content, search)
	if n == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, search, replace), n
}

// ReplaceRegexp replaces every match of re and reports the count. The
// replacement uses JavaScript String.replace tokens: $1..$99 and $<name> insert
// groups, $& the whole match, $` and $' the text before and after it, and
// $$ a literal dollar. Any other $ is copied as is.
func ReplaceRegexp(content string, re *regexp.Regexp, replace string) (string, int) {
	matches := re.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		expandReplacement(&b, re, content, m, replace)
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String(), len(matches)
}

func expandReplacement(b *strings.Builder, re *regexp.Regexp, content string, m []int, tmpl string) {
	groups := re.NumSubexp()
	group := func(k int) string {
		if m[2*k] < 0 {
			return ""
		}
		return content[m[2*k]:m[2*k+1]]
	}

	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' || i+1 == len(tmpl) {
			b.WriteByte(tmpl[i])
			continue
		}
		switch next := tmpl[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(content[m[0]:m[1]])
			i++
		case next == '`':
			b.WriteString(content[:m[0]])
			i++
		case next == '\'':
			b.WriteString(content[m[1]:])
			i++
		case next == '<':
			end := strings.IndexByte(tmpl[i+2:], '>')
			if end < 0 || !hasNamedGroups(re) {
				b.WriteByte('$')
				continue
			}
			if idx := re.SubexpIndex(tmpl[i+2 : i+2+end]); idx > 0 {
				b.WriteString(group(idx))
			}
			i += 2 + end
		case isDigit(next):
			d := int(next - '0')
			if i+2 < len(tmpl) && isDigit(tmpl[i+2]) {
				if two := d*10 + int(tmpl[i+2]-'0'); two >= 1 && two <= groups {
					b.WriteString(group(two))
					i += 2
					continue
				}
			}
			if d >= 1 && d <= groups {
				b.WriteString(group(d))
				i++
				continue
			}
			b.WriteByte('$')
		default:
			b.WriteByte('$')
		}
	}
}

func hasNamedGroups(re *regexp.Regexp) bool {
	for _, name := range re.SubexpNames() {
		if name != "" {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

var delimited = regexp.MustCompile(`^/(.*)/([a-z]*)$`)

// ParseRegexp compiles either a bare pattern or a "/pattern/flags" literal.
// Supported flags are i, m and s; g and u are accepted and ignored because
// replacement is always global.
func ParseRegexp(s string) (*regexp.Regexp, error) {
	m := delimited.FindStringSubmatch(s)
	if m == nil {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression: %w", err)
		}
		return re, nil
	}

	var flags strings.Builder
	for _, f := range m[2] {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(flags.String(), f) {
				flags.WriteRune(f)
			}
		case 'g', 'u':
		default:
			return nil, fmt.Errorf("invalid regular expression flag %q", f)
		}
	}

	pattern := m[1]
	if flags.Len() > 0 {
		pattern = "(?" + flags.String() + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}
	return re, nil
}

func insertLines(lines []string, at int, text string) string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, text)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}

func withBody(content string, doc Document, body string) string {
	if !doc.HasFrontMatter {
		return body
	}
	lines := strings.Split(content, "\n")
	return strings.Join(lines[:doc.BodyLine], "\n") + "\n" + body
}
