// Package ndarray provides a homogeneous n-dimensional array backed by Arrow
// columns. Arrays of up to two dimensions keep one Arrow array per column;
// deeper arrays only record their shape.
package ndarray

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/backend"
	"github.com/paveg/chartseries/internal/common"
	cserrors "github.com/paveg/chartseries/internal/errors"
)

const opFromSlice = "ndarray.FromSlice"

func init() {
	backend.Register(backend.NDArray, backend.ProbeArrow)
}

// Array is an immutable n-dimensional array.
type Array struct {
	shape   []int
	dtype   DType
	columns []arrow.Array
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// Shape returns a copy of the array shape.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// DType returns the declared element type of the whole array.
func (a *Array) DType() DType {
	return a.dtype
}

// Len returns the size of the first dimension, or 0 for a 0-D array.
func (a *Array) Len() int {
	if len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

// Width returns the number of addressable columns: 1 for a 1-D array, the
// second dimension for a 2-D array and 0 otherwise.
func (a *Array) Width() int {
	return len(a.columns)
}

// Column returns column j as an Arrow array owned by the caller.
func (a *Array) Column(j int) (arrow.Array, error) {
	if j < 0 || j >= len(a.columns) {
		return nil, fmt.Errorf("column %d out of range for shape %v", j, a.shape)
	}
	a.columns[j].Retain()
	return a.columns[j], nil
}

// ColumnDType returns the storage type of column j. It equals DType() except
// for object arrays, whose columns are stored as Float64 or String.
func (a *Array) ColumnDType(j int) DType {
	if a.dtype != Object || j < 0 || j >= len(a.columns) {
		return a.dtype
	}
	return DTypeOf(a.columns[j].DataType())
}

// Release frees the column storage.
func (a *Array) Release() {
	for _, c := range a.columns {
		c.Release()
	}
	a.columns = nil
}

// FromArrow wraps a single Arrow array as a 1-D array. The array is retained.
func FromArrow(arr arrow.Array) *Array {
	arr.Retain()
	return &Array{
		shape:   []int{arr.Len()},
		dtype:   DTypeOf(arr.DataType()),
		columns: []arrow.Array{arr},
	}
}

// FromColumns builds a 2-D array from equally long columns of one Arrow type.
// The columns are retained.
func FromColumns(cols ...arrow.Array) (*Array, error) {
	if len(cols) == 0 {
		return &Array{shape: []int{0, 0}, dtype: Float64}, nil
	}
	first := cols[0]
	for i, c := range cols[1:] {
		if c.Len() != first.Len() {
			return nil, cserrors.NewTypeConversionError("ndarray.FromColumns",
				fmt.Sprintf("column %d has %d rows, column 0 has %d", i+1, c.Len(), first.Len()))
		}
		if !arrow.TypeEqual(c.DataType(), first.DataType()) {
			return nil, cserrors.NewTypeConversionError("ndarray.FromColumns",
				fmt.Sprintf("column %d is %s, column 0 is %s", i+1, c.DataType(), first.DataType()))
		}
	}
	for _, c := range cols {
		c.Retain()
	}
	return &Array{
		shape:   []int{first.Len(), len(cols)},
		dtype:   DTypeOf(first.DataType()),
		columns: append([]arrow.Array(nil), cols...),
	}, nil
}

// FromSlice builds an array from a scalar or from nested Go slices such as
// []float64, [][]string or [][]any. Nested slices must be rectangular.
// Leaves typed as any produce an Object array; nil and NaN leaves are missing.
func FromSlice(v any, mem memory.Allocator) (*Array, error) {
	if v == nil {
		return nil, cserrors.NewTypeConversionError(opFromSlice, "nil value")
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	rv := reflect.ValueOf(v)
	dtype, err := leafDType(rv.Type())
	if err != nil {
		return nil, err
	}

	shape := shapeOf(rv)
	leaves := make([]reflect.Value, 0, product(shape))
	if err := flatten(rv, 0, shape, &leaves); err != nil {
		return nil, err
	}

	a := &Array{shape: shape, dtype: dtype}
	switch len(shape) {
	case 1:
		a.columns = []arrow.Array{buildColumn(dtype, leaves, mem)}
	case 2:
		rows, width := shape[0], shape[1]
		a.columns = make([]arrow.Array, width)
		col := make([]reflect.Value, rows)
		for j := range width {
			for i := range rows {
				col[i] = leaves[i*width+j]
			}
			a.columns[j] = buildColumn(dtype, col, mem)
		}
	}
	return a, nil
}

func isSequence(v reflect.Value) bool {
	k := v.Kind()
	return k == reflect.Slice || k == reflect.Array
}

func unwrap(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func shapeOf(v reflect.Value) []int {
	shape := []int{}
	for {
		v = unwrap(v)
		if !isSequence(v) {
			return shape
		}
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			return shape
		}
		v = v.Index(0)
	}
}

func flatten(v reflect.Value, depth int, shape []int, out *[]reflect.Value) error {
	v = unwrap(v)
	if depth == len(shape) {
		if isSequence(v) {
			return cserrors.NewTypeConversionError(opFromSlice, "ragged nested sequence")
		}
		*out = append(*out, v)
		return nil
	}
	if !isSequence(v) || v.Len() != shape[depth] {
		return cserrors.NewTypeConversionError(opFromSlice, "ragged nested sequence")
	}
	for i := range v.Len() {
		if err := flatten(v.Index(i), depth+1, shape, out); err != nil {
			return err
		}
	}
	return nil
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func leafDType(t reflect.Type) (DType, error) {
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Interface:
		return Object, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return Int32, nil
	case reflect.Int, reflect.Int64:
		return Int64, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint64, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil
	case reflect.String:
		return String, nil
	default:
		return Invalid, cserrors.NewTypeConversionError(opFromSlice,
			fmt.Sprintf("unsupported element type: %s", t))
	}
}

func buildColumn(dtype DType, vals []reflect.Value, mem memory.Allocator) arrow.Array {
	switch dtype {
	case Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(v.Bool())
		}
		return b.NewArray()
	case Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(int32(v.Int()))
		}
		return b.NewArray()
	case Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(v.Int())
		}
		return b.NewArray()
	case Uint64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(v.Uint())
		}
		return b.NewArray()
	case Float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(float32(v.Float()))
		}
		return b.NewArray()
	case Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(v.Float())
		}
		return b.NewArray()
	case String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range vals {
			b.Append(v.String())
		}
		return b.NewArray()
	default:
		return buildObjectColumn(vals, mem)
	}
}

// buildObjectColumn stores a column of arbitrary values as Float64 when every
// present value is a number and as String otherwise.
func buildObjectColumn(vals []reflect.Value, mem memory.Allocator) arrow.Array {
	items := make([]any, len(vals))
	numeric, present := true, 0
	for i, v := range vals {
		if v.IsValid() && !(v.Kind() == reflect.Interface && v.IsNil()) {
			items[i] = v.Interface()
		}
		if items[i] == nil {
			continue
		}
		present++
		if !common.IsNumericType(items[i]) {
			numeric = false
		}
	}

	if numeric && present > 0 {
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, item := range items {
			if item == nil {
				b.AppendNull()
				continue
			}
			f, _ := common.ToFloat64(item)
			b.Append(f)
		}
		return b.NewArray()
	}

	b := array.NewStringBuilder(mem)
	defer b.Release()
	for _, item := range items {
		if common.IsMissing(item) {
			b.AppendNull()
			continue
		}
		b.Append(common.ToString(item))
	}
	return b.NewArray()
}
