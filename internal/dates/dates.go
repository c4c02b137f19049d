// Package dates formats dates for note names and templates.
//
// Note names follow the moment.js-style patterns users already configure in
// their vault ("YYYY-MM-DD", "gggg-[W]ww"), so a subset of those tokens is
// supported here alongside plain Go layouts.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Go layouts used across the module.
const (
	DateLayout     = "2006-01-02"
	DatetimeLayout = "2006-01-02T15:04"
	TimeLayout     = "15:04"
)

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return t, nil
}

// ParseDateArg parses a date argument which can be:
// - "today", "yesterday", "tomorrow" (relative dates)
// - "YYYY-MM-DD" format (absolute date)
// - Empty string defaults to now
func ParseDateArg(arg string, now time.Time) (time.Time, error) {
	if arg == "" {
		return now, nil
	}

	switch dateArg := strings.ToLower(strings.TrimSpace(arg)); dateArg {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	default:
		parsed, err := ParseDate(dateArg)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date format '%s', use YYYY-MM-DD or today/yesterday/tomorrow", dateArg)
		}
		return parsed, nil
	}
}

// tokens are matched longest first.
var tokens = []struct {
	token  string
	format func(time.Time) string
}{
	{"YYYY", func(t time.Time) string { return t.Format("2006") }},
	{"GGGG", isoYear},
	{"gggg", isoYear},
	{"MMMM", func(t time.Time) string { return t.Format("January") }},
	{"dddd", func(t time.Time) string { return t.Format("Monday") }},
	{"MMM", func(t time.Time) string { return t.Format("Jan") }},
	{"ddd", func(t time.Time) string { return t.Format("Mon") }},
	{"YY", func(t time.Time) string { return t.Format("06") }},
	{"MM", func(t time.Time) string { return t.Format("01") }},
	{"DD", func(t time.Time) string { return t.Format("02") }},
	{"WW", func(t time.Time) string { return fmt.Sprintf("%02d", isoWeek(t)) }},
	{"ww", func(t time.Time) string { return fmt.Sprintf("%02d", isoWeek(t)) }},
	{"HH", func(t time.Time) string { return t.Format("15") }},
	{"mm", func(t time.Time) string { return t.Format("04") }},
	{"ss", func(t time.Time) string { return t.Format("05") }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
	{"W", func(t time.Time) string { return strconv.Itoa(isoWeek(t)) }},
	{"w", func(t time.Time) string { return strconv.Itoa(isoWeek(t)) }},
	{"Q", func(t time.Time) string { return strconv.Itoa((int(t.Month())-1)/3 + 1) }},
}

// Format renders t with a moment-style pattern. Text inside square
// brackets is copied literally. Weeks are ISO weeks.
func Format(t time.Time, pattern string) string {
	var out strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i:], ']')
			if end != -1 {
				out.WriteString(pattern[i+1 : i+end])
				i += end + 1
				continue
			}
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				out.WriteString(tok.format(t))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(pattern[i])
			i++
		}
	}
	return out.String()
}

func isoYear(t time.Time) string {
	year, _ := t.ISOWeek()
	return strconv.Itoa(year)
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
