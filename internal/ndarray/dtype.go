package ndarray

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// DType is the declared element type of an array or of one of its columns.
type DType int

const (
	// Invalid is the zero DType.
	Invalid DType = iota
	Bool
	Int32
	Int64
	Uint64
	Float32
	Float64
	String
	// Object holds heterogeneous values; each column picks its own storage.
	Object
)

var dtypeNames = map[DType]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int32:   "int32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
	Object:  "object",
}

// String returns the dtype name.
func (d DType) String() string {
	if name, ok := dtypeNames[d]; ok {
		return name
	}
	return "invalid"
}

// IsNumeric reports whether d is an integer or floating point type.
func (d DType) IsNumeric() bool {
	switch d {
	case Int32, Int64, Uint64, Float32, Float64:
		return true
	default:
		return false
	}
}

// ArrowType returns the Arrow storage type for d, or nil for Object and Invalid.
func (d DType) ArrowType() arrow.DataType {
	switch d {
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	case Int32:
		return arrow.PrimitiveTypes.Int32
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Uint64:
		return arrow.PrimitiveTypes.Uint64
	case Float32:
		return arrow.PrimitiveTypes.Float32
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case String:
		return arrow.BinaryTypes.String
	default:
		return nil
	}
}

// DTypeOf maps an Arrow type to the closest DType. Narrow integers widen to
// Int32 or Uint64; types without a numeric or textual meaning map to Object.
// Dictionary-encoded types map by their value type.
func DTypeOf(dt arrow.DataType) DType {
	if dt == nil {
		return Invalid
	}
	if dict, ok := dt.(*arrow.DictionaryType); ok {
		return DTypeOf(dict.ValueType)
	}
	switch dt.ID() {
	case arrow.BOOL:
		return Bool
	case arrow.INT8, arrow.INT16, arrow.INT32:
		return Int32
	case arrow.INT64:
		return Int64
	case arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return Uint64
	case arrow.FLOAT16, arrow.FLOAT32:
		return Float32
	case arrow.FLOAT64:
		return Float64
	case arrow.STRING, arrow.LARGE_STRING:
		return String
	default:
		return Object
	}
}
