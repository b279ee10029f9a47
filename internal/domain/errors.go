package domain

import "errors"

var (
	// ErrInvalidParameter signals a request parameter with an unusable value.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidQuery signals query text no parse strategy could resolve.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrIndexUnavailable signals that the search index is missing or unreachable.
	ErrIndexUnavailable = errors.New("index unavailable")
)

// ParameterError wraps ErrInvalidParameter with the offending parameter name.
type ParameterError struct {
	Name  string
	Value string
}

func (e *ParameterError) Error() string {
	return ErrInvalidParameter.Error() + ": " + e.Name + "=" + e.Value
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// NewParameterError creates an invalid-parameter error for name=value.
func NewParameterError(name, value string) error {
	return &ParameterError{Name: name, Value: value}
}
