package load

import (
	"errors"
	"strings"
)

// ErrInvalidModel indicates a malformed or inconsistent model file.
var ErrInvalidModel = errors.New("clientgen: invalid model")

// ModelError describes a problem with a model shape.
type ModelError struct {
	Shape   string // Shape id or plugin name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	var b strings.Builder
	b.WriteString("clientgen: model error")
	if e.Shape != "" {
		b.WriteString(" on ")
		b.WriteString(e.Shape)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidModel.
func (e *ModelError) Is(target error) bool {
	return target == ErrInvalidModel
}

// NewModelError creates a new ModelError.
func NewModelError(shape, message string, cause error) *ModelError {
	return &ModelError{Shape: shape, Message: message, Cause: cause}
}

// IsModelError reports whether the error is a ModelError.
func IsModelError(err error) bool {
	var modelErr *ModelError
	return errors.As(err, &modelErr)
}
