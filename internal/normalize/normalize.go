// Package normalize turns Arrow columns into chart-ready value slices.
//
// Missing entries are Arrow nulls. For measures, NaN and infinities are
// treated as missing as well; for dimensions, a floating point NaN is.
// Missing entries are replaced by the caller's defaults. The input array
// is never modified.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/exp/constraints"
)

// Defaults holds the substitutes for missing measure and dimension values.
type Defaults struct {
	Measure   float64 `json:"default_measure_value" yaml:"default_measure_value"`
	Dimension string  `json:"default_dimension_value" yaml:"default_dimension_value"`
}

// DefaultDefaults returns 0 for measures and the empty string for dimensions.
func DefaultDefaults() Defaults {
	return Defaults{Measure: 0, Dimension: ""}
}

type number interface {
	constraints.Integer | constraints.Float
}

// numericArray is satisfied by the typed Arrow arrays of fixed-width numbers.
type numericArray[T number] interface {
	arrow.Array
	Value(i int) T
}

// Measures converts arr to float64 values, substituting def for every entry
// that is null, not finite or not parseable as a number.
func Measures(arr arrow.Array, def float64) []float64 {
	if arr == nil {
		return []float64{}
	}
	out := make([]float64, arr.Len())

	switch a := arr.(type) {
	case *array.Float64:
		fillMeasures[float64](a, def, out)
	case *array.Float32:
		fillMeasures[float32](a, def, out)
	case *array.Int64:
		fillMeasures[int64](a, def, out)
	case *array.Int32:
		fillMeasures[int32](a, def, out)
	case *array.Int16:
		fillMeasures[int16](a, def, out)
	case *array.Int8:
		fillMeasures[int8](a, def, out)
	case *array.Uint64:
		fillMeasures[uint64](a, def, out)
	case *array.Uint32:
		fillMeasures[uint32](a, def, out)
	case *array.Uint16:
		fillMeasures[uint16](a, def, out)
	case *array.Uint8:
		fillMeasures[uint8](a, def, out)
	case *array.Boolean:
		for i := range out {
			switch {
			case a.IsNull(i):
				out[i] = def
			case a.Value(i):
				out[i] = 1
			default:
				out[i] = 0
			}
		}
	case *array.String:
		for i := range out {
			if a.IsNull(i) {
				out[i] = def
				continue
			}
			out[i] = parseMeasure(a.Value(i), def)
		}
	case *array.Dictionary:
		values := Measures(a.Dictionary(), def)
		for i := range out {
			if a.IsNull(i) {
				out[i] = def
				continue
			}
			out[i] = values[a.GetValueIndex(i)]
		}
	default:
		for i := range out {
			if arr.IsNull(i) {
				out[i] = def
				continue
			}
			out[i] = parseMeasure(arr.ValueStr(i), def)
		}
	}
	return out
}

// Dimensions converts arr to its string representation, substituting def for
// null entries and floating point NaN.
func Dimensions(arr arrow.Array, def string) []string {
	if arr == nil {
		return []string{}
	}
	out := make([]string, arr.Len())

	switch a := arr.(type) {
	case *array.Float64:
		fillFloatDimensions[float64](a, def, 64, out)
	case *array.Float32:
		fillFloatDimensions[float32](a, def, 32, out)
	case *array.String:
		for i := range out {
			if a.IsNull(i) {
				out[i] = def
				continue
			}
			out[i] = a.Value(i)
		}
	case *array.Dictionary:
		values := Dimensions(a.Dictionary(), def)
		for i := range out {
			if a.IsNull(i) {
				out[i] = def
				continue
			}
			out[i] = values[a.GetValueIndex(i)]
		}
	default:
		for i := range out {
			if arr.IsNull(i) {
				out[i] = def
				continue
			}
			out[i] = arr.ValueStr(i)
		}
	}
	return out
}

func fillMeasures[T number](arr numericArray[T], def float64, out []float64) {
	for i := range out {
		if arr.IsNull(i) {
			out[i] = def
			continue
		}
		out[i] = finiteOr(float64(arr.Value(i)), def)
	}
}

func fillFloatDimensions[T constraints.Float](arr numericArray[T], def string, bitSize int, out []string) {
	for i := range out {
		if arr.IsNull(i) {
			out[i] = def
			continue
		}
		v := float64(arr.Value(i))
		if math.IsNaN(v) {
			out[i] = def
			continue
		}
		out[i] = FormatFloat(v, bitSize)
	}
}

// FormatFloat renders v in its shortest decimal form without an exponent.
func FormatFloat(v float64, bitSize int) string {
	return strconv.FormatFloat(v, 'f', -1, bitSize)
}

func parseMeasure(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return finiteOr(v, def)
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
