package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is the sentinel behind every ValidationError.
var ErrValidation = errors.New("validation")

// FieldError is one rejected parameter and the rule it broke.
type FieldError struct {
	Field   string `json:"field"`   // parameter name as sent, e.g. "x-success"
	Rule    string `json:"rule"`    // validator tag, e.g. "required"
	Message string `json:"message"` // human-readable
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every offending field of one request.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Add appends a field error.
func (e *ValidationError) Add(field, rule, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Rule: rule, Message: message})
}

// HasErrors reports whether any field was rejected.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Sort orders the fields by name, then rule, for stable messages.
func (e *ValidationError) Sort() {
	sort.SliceStable(e.Fields, func(i, j int) bool {
		if e.Fields[i].Field != e.Fields[j].Field {
			return e.Fields[i].Field < e.Fields[j].Field
		}
		return e.Fields[i].Rule < e.Fields[j].Rule
	})
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return "invalid parameters"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid parameters: " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
