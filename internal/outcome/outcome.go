// Package outcome defines the typed result every action handler produces.
//
// An Outcome is either a Success or a Failure. Both transports consume the
// same value: the HTTP listener serializes it verbatim, the URI transport
// turns it into a callback URL.
package outcome

import (
	"encoding/json"
	"fmt"
)

// ErrorCode is a machine-readable failure code.
// The numeric values follow HTTP status semantics so callers can bucket them.
type ErrorCode int

// Error codes are stable and can be relied upon by callers.
const (
	ValidationError    ErrorCode = 400
	NotFound           ErrorCode = 404
	NotAvailable       ErrorCode = 405
	AmbiguousTarget    ErrorCode = 409
	PluginDisabled     ErrorCode = 423
	MissingPlugin      ErrorCode = 424
	UnableToCreateNote ErrorCode = 500
	HandlerError       ErrorCode = 501
)

var codeNames = map[ErrorCode]string{
	ValidationError:    "VALIDATION_ERROR",
	NotFound:           "NOT_FOUND",
	NotAvailable:       "NOT_AVAILABLE",
	AmbiguousTarget:    "AMBIGUOUS_TARGET",
	PluginDisabled:     "PLUGIN_DISABLED",
	MissingPlugin:      "MISSING_PLUGIN",
	UnableToCreateNote: "UNABLE_TO_CREATE_NOTE",
	HandlerError:       "HANDLER_ERROR",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERROR_%d", int(c))
}

// Outcome is the sealed union of Success and Failure.
type Outcome interface {
	IsSuccess() bool
	outcome()
}

// Success carries an action's result payload.
// Result is expected to marshal to a JSON object.
type Success struct {
	Result        any
	ProcessedPath string
}

// Failure carries an error code and a human-readable message.
type Failure struct {
	Code    ErrorCode
	Message string
}

func (Success) outcome() {}
func (Failure) outcome() {}

// IsSuccess reports true.
func (Success) IsSuccess() bool { return true }

// IsSuccess reports false.
func (Failure) IsSuccess() bool { return false }

// Error implements error so failures can travel through error returns
// before they are turned back into an Outcome.
func (f Failure) Error() string {
	return f.Message
}

// OK builds a Success. The optional path is reported as processedFilepath.
func OK(result any, path ...string) Success {
	s := Success{Result: result}
	if len(path) > 0 {
		s.ProcessedPath = path[0]
	}
	return s
}

// Fail builds a Failure.
func Fail(code ErrorCode, message string) Failure {
	return Failure{Code: code, Message: message}
}

// Failf builds a Failure with a formatted message.
func Failf(code ErrorCode, format string, args ...any) Failure {
	return Failure{Code: code, Message: fmt.Sprintf(format, args...)}
}

// MarshalJSON renders {"isSuccess":true,"result":...}.
func (s Success) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IsSuccess     bool   `json:"isSuccess"`
		Result        any    `json:"result"`
		ProcessedPath string `json:"processedFilepath,omitempty"`
	}{true, s.Result, s.ProcessedPath})
}

// MarshalJSON renders {"isSuccess":false,"errorCode":...,"error":...}.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IsSuccess bool      `json:"isSuccess"`
		Code      ErrorCode `json:"errorCode"`
		Error     string    `json:"error"`
	}{false, f.Code, f.Message})
}
