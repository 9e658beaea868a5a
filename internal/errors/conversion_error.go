// Package errors provides standardized error types for series conversion.
// Every failure surfaced by the converters is a *ConversionError carrying the
// operation name, an error kind and an optional wrapped cause.
package errors

import (
	"fmt"
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindUnknown is the zero value and never produced by constructors.
	KindUnknown Kind = iota
	// KindMissingDependency reports an absent array or table backend.
	KindMissingDependency
	// KindTypeConversion reports an input value of an unsupported type.
	KindTypeConversion
	// KindInvalidConfiguration reports an override incompatible with the input.
	KindInvalidConfiguration
	// KindUnsupportedShape reports an array with more than two dimensions.
	KindUnsupportedShape
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindMissingDependency:
		return "missing dependency"
	case KindTypeConversion:
		return "type conversion"
	case KindInvalidConfiguration:
		return "invalid configuration"
	case KindUnsupportedShape:
		return "unsupported shape"
	default:
		return "unknown"
	}
}

// ConversionError represents standardized errors across all conversion operations
type ConversionError struct {
	Op      string // Operation name (e.g., "NewArrayConverter", "SeriesList")
	Column  string // Column name or position if applicable
	Kind    Kind   // Failure class
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *ConversionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s failed on column '%s' (%s): %s", e.Op, e.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind and fully populated errors field by field.
func (e *ConversionError) Is(target error) bool {
	ce, ok := target.(*ConversionError)
	if !ok {
		return false
	}
	if ce.Op == "" && ce.Column == "" && ce.Message == "" {
		return e.Kind == ce.Kind
	}
	return e.Kind == ce.Kind && e.Op == ce.Op && e.Column == ce.Column && e.Message == ce.Message
}

// Sentinels for errors.Is checks by kind.
var (
	ErrMissingDependency    = &ConversionError{Kind: KindMissingDependency}
	ErrTypeConversion       = &ConversionError{Kind: KindTypeConversion}
	ErrInvalidConfiguration = &ConversionError{Kind: KindInvalidConfiguration}
	ErrUnsupportedShape     = &ConversionError{Kind: KindUnsupportedShape}
)

// NewMissingDependencyError creates an error for a backend that is not available
func NewMissingDependencyError(op, dependency string, cause error) *ConversionError {
	return &ConversionError{
		Op:      op,
		Kind:    KindMissingDependency,
		Message: fmt.Sprintf("%s is not available", dependency),
		Cause:   cause,
	}
}

// NewTypeConversionError creates an error for inputs of an unsupported type
func NewTypeConversionError(op, message string) *ConversionError {
	return &ConversionError{
		Op:      op,
		Kind:    KindTypeConversion,
		Message: message,
	}
}

// NewUnsupportedTypeError creates a type conversion error naming the offending Go type
func NewUnsupportedTypeError(op string, value any) *ConversionError {
	return NewTypeConversionError(op, fmt.Sprintf("unsupported type: %T", value))
}

// NewInvalidConfigurationError creates an error for overrides that do not fit the input
func NewInvalidConfigurationError(op, column, message string) *ConversionError {
	return &ConversionError{
		Op:      op,
		Column:  column,
		Kind:    KindInvalidConfiguration,
		Message: message,
	}
}

// NewUnsupportedShapeError creates an error for arrays with too many dimensions
func NewUnsupportedShapeError(op string, ndim int) *ConversionError {
	return &ConversionError{
		Op:      op,
		Kind:    KindUnsupportedShape,
		Message: fmt.Sprintf("arrays larger than 2D are not supported (got %dD)", ndim),
	}
}
