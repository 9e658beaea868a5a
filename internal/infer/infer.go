// Package infer classifies columns as measures or dimensions.
package infer

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Type is the series type tag understood by the chart library.
type Type string

const (
	// Measure marks a numeric series.
	Measure Type = "measure"
	// Dimension marks a textual or categorical series.
	Dimension Type = "dimension"
)

// FromNumeric maps a numeric/non-numeric decision to a series type.
func FromNumeric(numeric bool) Type {
	if numeric {
		return Measure
	}
	return Dimension
}

// IsNumeric reports whether an Arrow type holds integers or floating point numbers.
// Dictionary-encoded columns are classified by their value type.
func IsNumeric(dt arrow.DataType) bool {
	if dt == nil {
		return false
	}
	if dict, ok := dt.(*arrow.DictionaryType); ok {
		return IsNumeric(dict.ValueType)
	}
	id := dt.ID()
	return arrow.IsInteger(id) || arrow.IsFloating(id)
}

// FromArrow returns Measure for numeric Arrow types and Dimension otherwise.
func FromArrow(dt arrow.DataType) Type {
	return FromNumeric(IsNumeric(dt))
}
