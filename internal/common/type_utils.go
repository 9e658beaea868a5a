// Package common provides shared scalar conversions for loosely typed values
// such as the leaves of object arrays and decoded JSON records.
package common

import (
	"fmt"
	"math"
	"strconv"
)

// TypeConverter provides common type conversion utilities.
type TypeConverter struct{}

// NewTypeConverter creates a new TypeConverter instance.
func NewTypeConverter() *TypeConverter {
	return &TypeConverter{}
}

// IsMissing reports whether value stands for an absent entry: nil or a
// floating point NaN.
func (tc *TypeConverter) IsMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}

// IsNumericType checks if a value is of a numeric type.
func (tc *TypeConverter) IsNumericType(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// ToFloat64 converts numeric types to float64.
func (tc *TypeConverter) ToFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// ToString converts various types to string. Floats use the shortest
// decimal form without an exponent.
func (tc *TypeConverter) ToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Default converter instance for convenience.
var defaultConverter = NewTypeConverter()

// IsMissing reports whether value is nil or NaN using the default converter.
func IsMissing(value any) bool {
	return defaultConverter.IsMissing(value)
}

// IsNumericType checks if a value is numeric using the default converter.
func IsNumericType(value any) bool {
	return defaultConverter.IsNumericType(value)
}

// ToFloat64 converts numeric types to float64 using the default converter.
func ToFloat64(value any) (float64, error) {
	return defaultConverter.ToFloat64(value)
}

// ToString converts various types to string using the default converter.
func ToString(value any) string {
	return defaultConverter.ToString(value)
}
