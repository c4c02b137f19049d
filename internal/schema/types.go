package schema

import (
	"encoding/json"
	"strings"
)

// Params are the raw string parameters of one request, keyed as received.
type Params map[string]string

// Clone returns a copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Bool is a boolean parameter. Transports only deliver strings, so the raw
// token is kept for validation and Value holds the parsed result.
type Bool struct {
	Token string
	Value bool
}

var boolTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "on": true,
	"false": false, "0": false, "no": false, "off": false, "": false,
}

// ParseBool maps a token to a Bool. Unknown tokens parse as false and are
// rejected by the booltoken rule.
func ParseBool(token string) Bool {
	return Bool{Token: token, Value: boolTokens[normalizeToken(token)]}
}

func validBoolToken(token string) bool {
	_, ok := boolTokens[normalizeToken(token)]
	return ok
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StringList is a parameter carrying a JSON array of strings.
type StringList struct {
	Raw   string
	Items []string
}

// ParseStringList decodes a JSON array of strings. Malformed input leaves
// Items nil and is rejected by the jsonstrings rule.
func ParseStringList(raw string) StringList {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return StringList{Raw: raw}
	}
	return StringList{Raw: raw, Items: items}
}

func validStringList(raw string) bool {
	var items []string
	return json.Unmarshal([]byte(raw), &items) == nil && items != nil
}

// Properties is a parameter carrying a flat JSON object whose values are
// strings, numbers, booleans or null.
type Properties struct {
	Raw    string
	Values map[string]any
}

// ParseProperties decodes a flat JSON object.
func ParseProperties(raw string) Properties {
	values, ok := decodeProperties(raw)
	if !ok {
		return Properties{Raw: raw}
	}
	return Properties{Raw: raw, Values: values}
}

func decodeProperties(raw string) (map[string]any, bool) {
	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil || values == nil {
		return nil, false
	}
	for _, v := range values {
		switch v.(type) {
		case string, float64, bool, nil:
		default:
			return nil, false
		}
	}
	return values, true
}

// Base holds the control parameters every action accepts.
type Base struct {
	Action    string `param:"action"`
	CallID    string `param:"call-id"`
	DebugMode Bool   `param:"debug-mode" validate:"booltoken"`
	XSuccess  string `param:"x-success" validate:"omitempty,url"`
	XError    string `param:"x-error" validate:"omitempty,url"`
}

// Targeting holds the mutually exclusive note-addressing parameters.
type Targeting struct {
	File         string `param:"file" validate:"omitempty,notepath"`
	UID          string `param:"uid"`
	PeriodicNote string `param:"periodic-note" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
}
