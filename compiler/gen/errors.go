package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedProtocol indicates a protocol the client generator cannot target.
	ErrUnsupportedProtocol = errors.New("clientgen: unsupported protocol")
	// ErrAmbiguousAlias indicates configuration fragments whose aliases collide.
	ErrAmbiguousAlias = errors.New("clientgen: ambiguous fragment alias")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("clientgen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("clientgen: code generation failed")
)

// UnsupportedProtocolError is returned when configuration is composed for a
// protocol that is not connection-oriented.
type UnsupportedProtocolError struct {
	Service  string
	Protocol string
}

// Error implements the error interface.
func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("clientgen: service %s: protocols other than connection-oriented ones are not implemented: %s",
		e.Service, e.Protocol)
}

// Is reports whether the target matches ErrUnsupportedProtocol.
func (e *UnsupportedProtocolError) Is(target error) bool {
	return target == ErrUnsupportedProtocol
}

// NewUnsupportedProtocolError creates a new UnsupportedProtocolError.
func NewUnsupportedProtocolError(service, protocol string) *UnsupportedProtocolError {
	return &UnsupportedProtocolError{Service: service, Protocol: protocol}
}

// FragmentAliasError reports configuration fragments whose aliases collide
// or shadow the reserved endpoint aliases.
type FragmentAliasError struct {
	Service    string
	Alias      string
	Extensions []string // Offending extensions, in list order
	Message    string
}

// Error implements the error interface.
func (e *FragmentAliasError) Error() string {
	var b strings.Builder
	b.WriteString("clientgen: ambiguous fragment alias")
	if e.Alias != "" {
		fmt.Fprintf(&b, " %q", e.Alias)
	}
	if e.Service != "" {
		b.WriteString(" in service ")
		b.WriteString(e.Service)
	}
	if len(e.Extensions) > 0 {
		b.WriteString(" (extensions: ")
		b.WriteString(strings.Join(e.Extensions, ", "))
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrAmbiguousAlias.
func (e *FragmentAliasError) Is(target error) bool {
	return target == ErrAmbiguousAlias
}

// NewFragmentAliasError creates a new FragmentAliasError.
func NewFragmentAliasError(service, alias, message string, extensions ...string) *FragmentAliasError {
	return &FragmentAliasError{
		Service:    service,
		Alias:      alias,
		Extensions: extensions,
		Message:    message,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("clientgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("clientgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "service", "writer", "write", etc.
	Service string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("clientgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.Service != "" {
		b.WriteString(" for service ")
		b.WriteString(e.Service)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
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
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, service, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		Service: service,
		Message: message,
		Cause:   cause,
	}
}

// IsUnsupportedProtocol reports whether the error is an UnsupportedProtocolError.
func IsUnsupportedProtocol(err error) bool {
	var protoErr *UnsupportedProtocolError
	return errors.As(err, &protoErr)
}

// IsFragmentAliasError reports whether the error is a FragmentAliasError.
func IsFragmentAliasError(err error) bool {
	var aliasErr *FragmentAliasError
	return errors.As(err, &aliasErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
