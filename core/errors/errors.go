// Package errors provides standardized error types and helpers for the lectio codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrMissingTemplate indicates the template package could not be opened or is unusable
	ErrMissingTemplate = errors.New("missing template")
	// ErrMalformedPayload indicates the payload failed validation before any mutation
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrSeedNotFound indicates a chunkable token has no seed slide in the template
	ErrSeedNotFound = errors.New("seed not found")
	// ErrStructuralIntegrity indicates the package identity set or ordering would be corrupted
	ErrStructuralIntegrity = errors.New("structural integrity violation")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// MissingTemplateError is fatal: the template package cannot be opened or holds no slides.
type MissingTemplateError struct {
	Path   string // Template path as given on the command line
	Reason string // Why the template is unusable
	Err    error  // Underlying error, if any
}

func (e *MissingTemplateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("template %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("template %s: %v", e.Path, e.Err)
}

func (e *MissingTemplateError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMissingTemplate
}

// MalformedPayloadError is fatal: the payload failed to parse or validate.
// It is always raised before any mutation of the document.
type MalformedPayloadError struct {
	Path    string // Payload path, if known
	Field   string // Offending field, if known
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *MalformedPayloadError) Error() string {
	switch {
	case e.Field != "" && e.Path != "":
		return fmt.Sprintf("payload %s: field %s: %s", e.Path, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("payload field %s: %s", e.Field, e.Message)
	case e.Path != "":
		return fmt.Sprintf("payload %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("payload: %s", e.Message)
}

func (e *MalformedPayloadError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedPayload
}

// SeedNotFoundError is recoverable: the named token has no seed slide, so the
// assembler falls back to a whole-document simple replace for it.
type SeedNotFoundError struct {
	Token string // Token with no seed slide
}

func (e *SeedNotFoundError) Error() string {
	return fmt.Sprintf("no seed slide for token %s", e.Token)
}

func (e *SeedNotFoundError) Unwrap() error {
	return ErrSeedNotFound
}

// StructuralIntegrityError is fatal: continuing would produce a corrupt package.
type StructuralIntegrityError struct {
	Kind   string // What collided or broke (e.g., "slide id", "relationship id", "part name")
	Value  string // The colliding value
	Detail string // Additional context
}

func (e *StructuralIntegrityError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("structural integrity: %s %s: %s", e.Kind, e.Value, e.Detail)
	}
	return fmt.Sprintf("structural integrity: %s: %s", e.Kind, e.Detail)
}

func (e *StructuralIntegrityError) Unwrap() error {
	return ErrStructuralIntegrity
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "JSON", "XML", "RSS")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewMissingTemplate creates a MissingTemplateError
func NewMissingTemplate(path, reason string, err error) *MissingTemplateError {
	return &MissingTemplateError{Path: path, Reason: reason, Err: err}
}

// NewMalformedPayload creates a MalformedPayloadError
func NewMalformedPayload(path, field, message string) *MalformedPayloadError {
	return &MalformedPayloadError{Path: path, Field: field, Message: message}
}

// NewSeedNotFound creates a SeedNotFoundError
func NewSeedNotFound(token string) *SeedNotFoundError {
	return &SeedNotFoundError{Token: token}
}

// NewStructuralIntegrity creates a StructuralIntegrityError
func NewStructuralIntegrity(kind, value, detail string) *StructuralIntegrityError {
	return &StructuralIntegrityError{Kind: kind, Value: value, Detail: detail}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
