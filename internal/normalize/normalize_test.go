package normalize

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFloat64(mem memory.Allocator, values []float64, valid []bool) arrow.Array {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewArray()
}

func buildString(mem memory.Allocator, values []string, valid []bool) arrow.Array {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewArray()
}

func TestMeasures(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	t.Run("floats with NaN, Inf and nulls", func(t *testing.T) {
		arr := buildFloat64(mem, []float64{10, math.NaN(), 30, math.Inf(1), 5}, []bool{true, true, true, true, false})
		defer arr.Release()

		assert.Equal(t, []float64{10, 0, 30, 0, 0}, Measures(arr, 0))
		assert.Equal(t, []float64{10, -1, 30, -1, -1}, Measures(arr, -1))
	})

	t.Run("integers", func(t *testing.T) {
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues([]int32{1, 2, 3}, []bool{true, false, true})
		arr := b.NewArray()
		defer arr.Release()

		assert.Equal(t, []float64{1, 7, 3}, Measures(arr, 7))
	})

	t.Run("strings are parsed", func(t *testing.T) {
		arr := buildString(mem, []string{"1.5", " 2 ", "abc", "", "NaN"}, nil)
		defer arr.Release()

		assert.Equal(t, []float64{1.5, 2, 0, 0, 0}, Measures(arr, 0))
	})

	t.Run("booleans", func(t *testing.T) {
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues([]bool{true, false, true}, []bool{true, true, false})
		arr := b.NewArray()
		defer arr.Release()

		assert.Equal(t, []float64{1, 0, 9}, Measures(arr, 9))
	})

	t.Run("nil array", func(t *testing.T) {
		assert.Empty(t, Measures(nil, 0))
	})
}

func TestDimensions(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	t.Run("strings with nulls", func(t *testing.T) {
		arr := buildString(mem, []string{"red", "", "blue"}, []bool{true, false, true})
		defer arr.Release()

		assert.Equal(t, []string{"red", "", "blue"}, Dimensions(arr, ""))
		assert.Equal(t, []string{"red", "n/a", "blue"}, Dimensions(arr, "n/a"))
	})

	t.Run("floats render without exponent and NaN is missing", func(t *testing.T) {
		arr := buildFloat64(mem, []float64{1, 2.5, math.NaN(), 1e21}, nil)
		defer arr.Release()

		assert.Equal(t, []string{"1", "2.5", "-", "1000000000000000000000"}, Dimensions(arr, "-"))
	})

	t.Run("integers and booleans use their value strings", func(t *testing.T) {
		ib := array.NewInt64Builder(mem)
		defer ib.Release()
		ib.AppendValues([]int64{7, -3}, nil)
		ints := ib.NewArray()
		defer ints.Release()

		bb := array.NewBooleanBuilder(mem)
		defer bb.Release()
		bb.AppendValues([]bool{true, false}, []bool{true, false})
		bools := bb.NewArray()
		defer bools.Release()

		assert.Equal(t, []string{"7", "-3"}, Dimensions(ints, ""))
		assert.Equal(t, []string{"true", "?"}, Dimensions(bools, "?"))
	})
}

func TestDictionaryColumns(t *testing.T) {
	mem := memory.NewGoAllocator()
	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.BinaryTypes.String}
	b := array.NewDictionaryBuilder(mem, dt)
	defer b.Release()

	sb, ok := b.(*array.BinaryDictionaryBuilder)
	require.True(t, ok)
	require.NoError(t, sb.AppendString("low"))
	require.NoError(t, sb.AppendString("high"))
	sb.AppendNull()
	require.NoError(t, sb.AppendString("low"))

	arr := b.NewArray()
	defer arr.Release()

	assert.Equal(t, []string{"low", "high", "", "low"}, Dimensions(arr, ""))
}

func TestInputNotMutated(t *testing.T) {
	mem := memory.NewGoAllocator()
	arr := buildFloat64(mem, []float64{math.NaN(), 1}, nil)
	defer arr.Release()

	_ = Measures(arr, 0)
	f, ok := arr.(*array.Float64)
	require.True(t, ok)
	assert.True(t, math.IsNaN(f.Value(0)))
}

func TestDefaultDefaults(t *testing.T) {
	d := DefaultDefaults()
	assert.InDelta(t, 0.0, d.Measure, 0)
	assert.Empty(t, d.Dimension)
}
