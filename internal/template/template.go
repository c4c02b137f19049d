// Package template loads note templates from the vault and expands their
// variables.
package template

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aidanlsb/raven-actions/internal/dates"
	"github.com/aidanlsb/raven-actions/internal/paths"
	"github.com/aidanlsb/raven-actions/internal/vault"
)

// ErrTemplateNotFound is returned when a template file does not exist.
var ErrTemplateNotFound = errors.New("template file not found")

// Variables holds the available template variables for substitution.
type Variables struct {
	// Title is the name of the note being created, without folder or extension
	Title string
	// Date is the note's date (YYYY-MM-DD)
	Date string
	// Time is the note's time (HH:MM)
	Time string
	// Datetime is the note's datetime (YYYY-MM-DDTHH:MM)
	Datetime string
	// Year is the 4 digit year
	Year string
	// Month is the 2 digit month
	Month string
	// Day is the 2 digit day
	Day string
	// Weekday is the day name (Monday, Tuesday, etc.)
	Weekday string

	at time.Time
}

// NewVariables creates Variables for the note at notePath, dated at.
func NewVariables(notePath string, at time.Time) *Variables {
	return &Variables{
		Title:    paths.NoteName(notePath),
		Date:     at.Format(dates.DateLayout),
		Time:     at.Format(dates.TimeLayout),
		Datetime: at.Format(dates.DatetimeLayout),
		Year:     at.Format("2006"),
		Month:    at.Format("01"),
		Day:      at.Format("02"),
		Weekday:  at.Weekday().String(),
		at:       at,
	}
}

// ResolveFileRef normalizes a template file path. Bare file names are
// looked up under templateDir.
func ResolveFileRef(filePath, templateDir string) (string, error) {
	if strings.ContainsAny(filePath, "\r\n") {
		return "", fmt.Errorf("template file path cannot contain newlines")
	}
	normalized, err := paths.SanitizeNotePath(filePath)
	if err != nil {
		return "", fmt.Errorf("template file %q: %w", filePath, err)
	}

	dir := paths.NormalizeDirRoot(templateDir)
	if dir != "" && !strings.Contains(normalized, "/") {
		normalized = dir + normalized
	}
	return normalized, nil
}

// Load reads a template note from the vault.
func Load(ctx context.Context, store vault.Store, templatePath string) (string, error) {
	content, err := store.Read(ctx, templatePath)
	if errors.Is(err, vault.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
	}
	return content, err
}

var formatted = regexp.MustCompile(`\{\{(date|time):([^}]*)\}\}`)

// Apply substitutes template variables in the content.
// Variables use {{name}} syntax; {{date:FORMAT}} and {{time:FORMAT}} take a
// moment-style pattern. Unknown variables are left as-is.
// Escaped variables \{{name}} are converted to literal {{name}}.
func Apply(content string, vars *Variables) string {
	if content == "" || vars == nil {
		return content
	}

	content = strings.ReplaceAll(content, "\\{{", "«ESC_OPEN»")
	content = strings.ReplaceAll(content, "\\}}", "«ESC_CLOSE»")

	content = formatted.ReplaceAllStringFunc(content, func(m string) string {
		sub := formatted.FindStringSubmatch(m)
		return dates.Format(vars.at, strings.TrimSpace(sub[2]))
	})

	replacements := map[string]string{
		"{{title}}":    vars.Title,
		"{{date}}":     vars.Date,
		"{{time}}":     vars.Time,
		"{{datetime}}": vars.Datetime,
		"{{year}}":     vars.Year,
		"{{month}}":    vars.Month,
		"{{day}}":      vars.Day,
		"{{weekday}}":  vars.Weekday,
	}
	for placeholder, value := range replacements {
		content = strings.ReplaceAll(content, placeholder, value)
	}

	content = strings.ReplaceAll(content, "«ESC_OPEN»", "{{")
	content = strings.ReplaceAll(content, "«ESC_CLOSE»", "}}")

	return content
}
