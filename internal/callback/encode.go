// Package callback encodes action outcomes for callers: as JSON for the
// HTTP listener, or as an x-callback URL for the URI transport.
package callback

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

// Prefixes of the parameter groups in a callback URL.
const (
	ResultPrefix = "result"
	InputPrefix  = "input"
)

// Input keys never echoed back.
var hiddenInputs = map[string]bool{
	"debug-mode": true,
	"x-success":  true,
	"x-error":    true,
}

// JSON renders o as the HTTP listener returns it.
func JSON(o outcome.Outcome) ([]byte, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode outcome: %w", err)
	}
	return data, nil
}

// BuildURL turns o into a callback URL based on base. A success carries
// every result field as result-<key>; a failure carries error and
// error-code. The input group echoes call-id, or with a truthy debug-mode
// every input except the control fields. Keys are hyphenated and the query
// is written in key order.
func BuildURL(base string, o outcome.Outcome, raw schema.Params) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse callback url: %w", err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("callback url %q is not absolute", base)
	}

	q := u.Query()
	switch v := o.(type) {
	case outcome.Success:
		fields, err := resultFields(v.Result)
		if err != nil {
			return "", err
		}
		for k, val := range fields {
			q.Set(Kebab(ResultPrefix+"-"+k), val)
		}
	case outcome.Failure:
		q.Set("error", v.Message)
		q.Set("error-code", strconv.Itoa(int(v.Code)))
	default:
		return "", fmt.Errorf("unknown outcome %T", o)
	}

	for k, val := range inputFields(raw) {
		q.Set(Kebab(InputPrefix+"-"+k), val)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// resultFields flattens a result payload into string values.
func resultFields(result any) (map[string]string, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return map[string]string{"": string(data)}, nil
	}

	out := make(map[string]string, len(obj))
	for k, v := range obj {
		var s string
		if len(v) > 0 && v[0] == '"' && json.Unmarshal(v, &s) == nil {
			out[k] = s
			continue
		}
		out[k] = string(v)
	}
	return out, nil
}

func inputFields(raw schema.Params) map[string]string {
	if !schema.ParseBool(raw["debug-mode"]).Value {
		if id, ok := raw["call-id"]; ok {
			return map[string]string{"call-id": id}
		}
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if !hiddenInputs[k] {
			out[k] = v
		}
	}
	return out
}

var (
	lowerUpper = regexp.MustCompile(`([\p{Ll}\d])(\p{Lu})`)
	upperRun   = regexp.MustCompile(`(\p{Lu}+)(\p{Lu}[\p{Ll}\d]+)`)
)

// Kebab lower-cases a camel-cased key and hyphenates its word boundaries:
// "filePath" -> "file-path", "rawXMLData" -> "raw-xml-data".
func Kebab(s string) string {
	s = lowerUpper.ReplaceAllString(s, "$1-$2")
	s = upperRun.ReplaceAllString(s, "$1-$2")
	return strings.TrimSuffix(strings.ToLower(s), "-")
}
