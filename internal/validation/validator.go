// Package validation provides input validation for converter construction and
// invocation. Validators are small values combined with NewCompoundValidator;
// each reports the first problem as a *errors.ConversionError.
package validation

import (
	"fmt"
	"math"

	cserrors "github.com/paveg/chartseries/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ShapeProvider is implemented by arrays that expose their dimensionality.
type ShapeProvider interface {
	NDim() int
}

// ShapeValidator rejects arrays with more dimensions than allowed.
type ShapeValidator struct {
	array   ShapeProvider
	maxNDim int
	op      string
}

// NewShapeValidator creates a validator for array dimensionality
func NewShapeValidator(array ShapeProvider, maxNDim int, op string) *ShapeValidator {
	return &ShapeValidator{array: array, maxNDim: maxNDim, op: op}
}

// Validate checks the array has at most maxNDim dimensions
func (v *ShapeValidator) Validate() error {
	if v.array == nil {
		return nil
	}
	if ndim := v.array.NDim(); ndim > v.maxNDim {
		return cserrors.NewUnsupportedShapeError(v.op, ndim)
	}
	return nil
}

// SelectorValidator checks that a bare scalar override is only used with a
// one-dimensional array.
type SelectorValidator struct {
	name   string
	scalar bool
	ndim   int
	op     string
}

// NewSelectorValidator creates a validator for a column selector argument
func NewSelectorValidator(name string, scalar bool, ndim int, op string) *SelectorValidator {
	return &SelectorValidator{name: name, scalar: scalar, ndim: ndim, op: op}
}

// Validate rejects scalar selectors on arrays that are not 1-D
func (v *SelectorValidator) Validate() error {
	if v.scalar && v.ndim != 1 {
		return cserrors.NewInvalidConfigurationError(v.op, "",
			fmt.Sprintf("non-mapping %s can only be used for a 1D array (got %dD)", v.name, v.ndim))
	}
	return nil
}

// DefaultsValidator checks the default substituted for missing measures is
// itself a finite number.
type DefaultsValidator struct {
	measure float64
	op      string
}

// NewDefaultsValidator creates a validator for the missing-value defaults
func NewDefaultsValidator(measure float64, op string) *DefaultsValidator {
	return &DefaultsValidator{measure: measure, op: op}
}

// Validate rejects NaN and infinite measure defaults
func (v *DefaultsValidator) Validate() error {
	if math.IsNaN(v.measure) || math.IsInf(v.measure, 0) {
		return cserrors.NewInvalidConfigurationError(v.op, "",
			fmt.Sprintf("default measure value must be finite, got %v", v.measure))
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll is a convenience function running validators in order
func ValidateAll(validators ...Validator) error {
	return NewCompoundValidator(validators...).Validate()
}

// ValidateShape is a convenience function for shape validation
func ValidateShape(array ShapeProvider, maxNDim int, op string) error {
	return NewShapeValidator(array, maxNDim, op).Validate()
}
