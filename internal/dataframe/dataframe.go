// Package dataframe provides the labeled table consumed by the table converter:
// ordered Arrow-backed columns plus an optional row index.
package dataframe

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/backend"
	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/series"
)

func init() {
	backend.Register(backend.DataFrame, backend.ProbeArrow)
}

// DataFrame represents a table of data with typed columns.
// It takes ownership of its columns and index; Release frees them.
type DataFrame struct {
	columns map[string]ISeries
	order   []string // Maintains column order
	index   ISeries  // nil means a 0..n-1 range index
}

// New creates a new DataFrame from a slice of ISeries
func New(series ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(series))

	for _, s := range series {
		name := s.Name()
		if _, dup := columns[name]; !dup {
			order = append(order, name)
		}
		columns[name] = s
	}

	return &DataFrame{
		columns: columns,
		order:   order,
	}
}

// WithIndex returns a DataFrame sharing df's columns with index as its row
// index. The index length must match the row count of a non-empty table.
func (df *DataFrame) WithIndex(index ISeries) (*DataFrame, error) {
	if index != nil && df.Width() > 0 && index.Len() != df.Len() {
		return nil, cserrors.NewTypeConversionError("WithIndex",
			fmt.Sprintf("index has %d rows, table has %d", index.Len(), df.Len()))
	}
	return &DataFrame{
		columns: df.columns,
		order:   df.order,
		index:   index,
	}, nil
}

// SetIndex moves the named column into the row index, releasing any index
// attached before. The returned DataFrame takes over df's columns, so df must
// not be used or released afterwards.
func (df *DataFrame) SetIndex(name string) (*DataFrame, error) {
	col, ok := df.columns[name]
	if !ok {
		return nil, cserrors.NewInvalidConfigurationError("SetIndex", name, "column not found")
	}
	if df.index != nil {
		df.index.Release()
	}

	columns := make(map[string]ISeries, len(df.columns)-1)
	order := make([]string, 0, len(df.order)-1)
	for _, n := range df.order {
		if n != name {
			columns[n] = df.columns[n]
			order = append(order, n)
		}
	}
	return &DataFrame{columns: columns, order: order, index: col}, nil
}

// HasIndex reports whether an explicit row index was attached.
func (df *DataFrame) HasIndex() bool {
	return df.index != nil
}

// IndexArray returns the row index as an Arrow array owned by the caller.
// Without an explicit index an int64 range 0..Len()-1 is built.
func (df *DataFrame) IndexArray(mem memory.Allocator) arrow.Array {
	if df.index != nil {
		return df.index.Array()
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	b := array.NewInt64Builder(mem)
	defer b.Release()
	n := df.Len()
	b.Reserve(n)
	for i := range n {
		b.UnsafeAppend(int64(i))
	}
	return b.NewArray()
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows (assumes all columns have same length)
func (df *DataFrame) Len() int {
	if len(df.order) > 0 {
		return df.columns[df.order[0]].Len()
	}
	if df.index != nil {
		return df.index.Len()
	}
	return 0
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.order)
}

// Column returns the series for the given column name
func (df *DataFrame) Column(name string) (ISeries, bool) {
	series, exists := df.columns[name]
	return series, exists
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Select returns a new DataFrame with only the specified columns.
// The index is carried over; unknown names are skipped.
func (df *DataFrame) Select(names ...string) *DataFrame {
	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		if series, exists := df.columns[name]; exists {
			newColumns[name] = series
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{
		columns: newColumns,
		order:   newOrder,
		index:   df.index,
	}
}

// Slice returns rows [start, end) as a new DataFrame. Columns are zero-copy
// slices of the originals and must be released independently.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	length := df.Len()
	if end > length {
		end = length
	}
	if start < 0 || start >= end {
		return New()
	}

	sliced := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		sliced = append(sliced, sliceSeries(df.columns[name], start, end))
	}
	out := New(sliced...)
	if df.index != nil {
		out.index = sliceSeries(df.index, start, end)
	}
	return out
}

func sliceSeries(s ISeries, start, end int) ISeries {
	arr := s.Array()
	defer arr.Release()
	part := array.NewSlice(arr, int64(start), int64(end))
	defer part.Release()
	return series.FromArrow(s.Name(), part)
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.order) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	if df.index != nil {
		parts = append(parts, fmt.Sprintf("  (index): %s", df.index.DataType()))
	}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].DataType()))
	}

	return strings.Join(parts, "\n")
}

// Release frees the memory held by all columns and the index.
func (df *DataFrame) Release() {
	for _, series := range df.columns {
		series.Release()
	}
	if df.index != nil {
		df.index.Release()
	}
}
