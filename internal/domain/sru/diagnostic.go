package sru

import "strconv"

// DiagnosticURIPrefix is the SRU diagnostic namespace for numeric codes.
const DiagnosticURIPrefix = "info:srw/diagnostic/1/"

// Diagnostic codes from the SRU diagnostics list.
const (
	CodeGeneralSystemError   = 1
	CodeAuthenticationError  = 3
	CodeUnsupportedOperation = 4
	CodeUnsupportedVersion   = 5
	CodeUnsupportedParameter = 6
	CodeQuerySyntaxError     = 10
)

var diagnosticMessages = map[int]string{
	CodeGeneralSystemError:   "General system error",
	CodeAuthenticationError:  "Authentication error",
	CodeUnsupportedOperation: "Unsupported operation",
	CodeUnsupportedVersion:   "Unsupported version",
	CodeUnsupportedParameter: "Unsupported parameter value",
	CodeQuerySyntaxError:     "Query syntax error",
}

// Diagnostic is a coded error record rendered in place of results.
type Diagnostic struct {
	Code    string
	Message string
	Details string
}

// NewDiagnostic builds a diagnostic with the standard message for code.
func NewDiagnostic(code int, details string) Diagnostic {
	msg, ok := diagnosticMessages[code]
	if !ok {
		msg = "Diagnostic " + strconv.Itoa(code)
	}
	return Diagnostic{Code: strconv.Itoa(code), Message: msg, Details: details}
}

// URI returns the namespaced diagnostic identifier.
func (d Diagnostic) URI() string { return DiagnosticURIPrefix + d.Code }

// Error makes a Diagnostic usable as an error value.
func (d Diagnostic) Error() string {
	if d.Details == "" {
		return "sru diagnostic " + d.Code + ": " + d.Message
	}
	return "sru diagnostic " + d.Code + ": " + d.Message + ": " + d.Details
}
