// Package convert turns arrays and labeled tables into chart series lists.
package convert

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/chartseries/internal/dataframe"
	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/ndarray"
	"github.com/paveg/chartseries/internal/series"
)

// InputKind tags the variant held by an Input.
type InputKind int

const (
	// KindEmpty is an absent input.
	KindEmpty InputKind = iota
	// KindArray holds an n-dimensional array.
	KindArray
	// KindTable holds a labeled table.
	KindTable
	// KindColumn holds a single labeled column.
	KindColumn
)

func (k InputKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// Input is the value handed to a converter. Exactly one of its payloads is set,
// as reported by Kind. The zero Input is Empty.
type Input struct {
	kind   InputKind
	array  *ndarray.Array
	table  *dataframe.DataFrame
	column dataframe.ISeries
}

// Empty returns the absent input.
func Empty() Input { return Input{} }

// FromArray wraps an array. A nil array is Empty.
func FromArray(a *ndarray.Array) Input {
	if a == nil {
		return Empty()
	}
	return Input{kind: KindArray, array: a}
}

// FromTable wraps a labeled table. A nil table is Empty.
func FromTable(df *dataframe.DataFrame) Input {
	if df == nil {
		return Empty()
	}
	return Input{kind: KindTable, table: df}
}

// FromColumn wraps a single labeled column. A nil column is Empty.
func FromColumn(s dataframe.ISeries) Input {
	if s == nil {
		return Empty()
	}
	return Input{kind: KindColumn, column: s}
}

// Kind reports which variant the input holds.
func (in Input) Kind() InputKind { return in.kind }

// Array returns the wrapped array, or nil.
func (in Input) Array() *ndarray.Array { return in.array }

// Table returns the wrapped table, or nil.
func (in Input) Table() *dataframe.DataFrame { return in.table }

// Column returns the wrapped column, or nil.
func (in Input) Column() dataframe.ISeries { return in.column }

// Adapt classifies a loosely typed value at the API boundary. Arrow arrays
// become 1-D arrays and Arrow records become tables. The returned Input
// borrows v; values built from Arrow records must be released by the caller
// through the returned table.
func Adapt(v any) (Input, error) {
	switch x := v.(type) {
	case nil:
		return Empty(), nil
	case Input:
		return x, nil
	case *ndarray.Array:
		return FromArray(x), nil
	case *dataframe.DataFrame:
		return FromTable(x), nil
	case dataframe.ISeries:
		return FromColumn(x), nil
	case arrow.Record:
		cols := make([]dataframe.ISeries, 0, x.NumCols())
		for i, f := range x.Schema().Fields() {
			cols = append(cols, series.FromArrow(f.Name, x.Column(i)))
		}
		return FromTable(dataframe.New(cols...)), nil
	case arrow.Array:
		return FromArray(ndarray.FromArrow(x)), nil
	default:
		return Input{}, cserrors.NewUnsupportedTypeError("convert.Adapt", v)
	}
}
