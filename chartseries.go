// Package chartseries converts in-memory arrays and labeled tables into the
// series list consumed by a charting library, and builds the JavaScript calls
// that drive a chart in a notebook.
// This package is the sole public API for the library.
package chartseries

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/chart"
	"github.com/paveg/chartseries/internal/config"
	"github.com/paveg/chartseries/internal/convert"
	"github.com/paveg/chartseries/internal/dataframe"
	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/infer"
	"github.com/paveg/chartseries/internal/monitoring"
	"github.com/paveg/chartseries/internal/ndarray"
	"github.com/paveg/chartseries/internal/normalize"
	"github.com/paveg/chartseries/internal/series"
	"github.com/paveg/chartseries/internal/vizdata"
)

// Series is one converted column: a name, a type tag and its values.
type Series = vizdata.Series

// List is an ordered series list.
type List = vizdata.List

// Name is a series name, either a label or a column position.
type Name = vizdata.Name

// Type tags a series as a measure or a dimension.
type Type = infer.Type

const (
	Measure   = infer.Measure
	Dimension = infer.Dimension
)

// DType is the declared element type of an array column.
type DType = ndarray.DType

const (
	Bool    = ndarray.Bool
	Int32   = ndarray.Int32
	Int64   = ndarray.Int64
	Uint64  = ndarray.Uint64
	Float32 = ndarray.Float32
	Float64 = ndarray.Float64
	String  = ndarray.String
	Object  = ndarray.Object
)

// Defaults holds the values substituted for missing entries.
type Defaults = normalize.Defaults

// Selector is a per-column override.
type Selector[T any] = convert.Selector[T]

// Input is the tagged value handed to a converter.
type Input = convert.Input

// Option configures a converter.
type Option = convert.Option

// ArrayConverter converts arrays; see NewArrayConverter.
type ArrayConverter = convert.ArrayConverter

// TableConverter converts tables; see NewTableConverter.
type TableConverter = convert.TableConverter

// ConversionError is the error type returned by conversions.
type ConversionError = cserrors.ConversionError

// Sentinel errors for errors.Is.
var (
	ErrMissingDependency    = cserrors.ErrMissingDependency
	ErrTypeConversion       = cserrors.ErrTypeConversion
	ErrInvalidConfiguration = cserrors.ErrInvalidConfiguration
	ErrUnsupportedShape     = cserrors.ErrUnsupportedShape
)

// ISeries provides a type-erased interface for Series of any type
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// DataFrame is a labeled table with an optional row index.
// It wraps the internal dataframe.DataFrame to hide implementation details.
type DataFrame struct {
	df *dataframe.DataFrame
}

// Array is an n-dimensional array.
type Array struct {
	a *ndarray.Array
}

// NewSeries creates a new typed column from values.
func NewSeries[T any](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// NewNullableSeries creates a typed column where valid[i] == false marks row
// i as missing.
func NewNullableSeries[T any](name string, values []T, valid []bool, mem memory.Allocator) (ISeries, error) {
	s, err := series.NewNullable(name, values, valid, mem)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewDataFrame creates a new DataFrame from columns. It takes ownership of them.
func NewDataFrame(columns ...ISeries) *DataFrame {
	internal := make([]dataframe.ISeries, len(columns))
	for i, s := range columns {
		internal[i] = s
	}
	return &DataFrame{df: dataframe.New(internal...)}
}

// Columns returns the column names in order.
func (d *DataFrame) Columns() []string {
	return d.df.Columns()
}

// Len returns the number of rows.
func (d *DataFrame) Len() int {
	return d.df.Len()
}

// Width returns the number of columns.
func (d *DataFrame) Width() int {
	return d.df.Width()
}

// Column returns the column with the given name.
func (d *DataFrame) Column(name string) (ISeries, bool) {
	return d.df.Column(name)
}

// WithIndex attaches index as the row index.
func (d *DataFrame) WithIndex(index ISeries) (*DataFrame, error) {
	df, err := d.df.WithIndex(index)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

// SetIndex moves the named column into the row index. d must not be used
// afterwards.
func (d *DataFrame) SetIndex(name string) (*DataFrame, error) {
	df, err := d.df.SetIndex(name)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

// String returns a string representation of the DataFrame.
func (d *DataFrame) String() string {
	return d.df.String()
}

// Release frees the memory held by the DataFrame.
func (d *DataFrame) Release() {
	d.df.Release()
}

// NewArray builds an array from a scalar or rectangular nested slices.
func NewArray(v any, mem memory.Allocator) (*Array, error) {
	a, err := ndarray.FromSlice(v, mem)
	if err != nil {
		return nil, err
	}
	return &Array{a: a}, nil
}

// ArrayFromArrow wraps an Arrow array as a 1-D array.
func ArrayFromArrow(arr arrow.Array) *Array {
	return &Array{a: ndarray.FromArrow(arr)}
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return a.a.NDim()
}

// Shape returns the array shape.
func (a *Array) Shape() []int {
	return a.a.Shape()
}

// DType returns the element type.
func (a *Array) DType() DType {
	return a.a.DType()
}

// Release frees the array storage.
func (a *Array) Release() {
	a.a.Release()
}

// EmptyInput is the absent input.
func EmptyInput() Input {
	return convert.Empty()
}

// ArrayInput wraps an array; nil is the absent input.
func ArrayInput(a *Array) Input {
	if a == nil {
		return convert.Empty()
	}
	return convert.FromArray(a.a)
}

// TableInput wraps a table; nil is the absent input.
func TableInput(d *DataFrame) Input {
	if d == nil {
		return convert.Empty()
	}
	return convert.FromTable(d.df)
}

// ColumnInput wraps a single column as a one-column table.
func ColumnInput(s ISeries) Input {
	return convert.FromColumn(s)
}

// Adapt classifies a loosely typed value: nil, *Array, *DataFrame, ISeries,
// arrow.Array or arrow.Record.
func Adapt(v any) (Input, error) {
	switch x := v.(type) {
	case *Array:
		return ArrayInput(x), nil
	case *DataFrame:
		return TableInput(x), nil
	default:
		return convert.Adapt(v)
	}
}

// ByIndex returns a selector overriding the given column positions.
func ByIndex[T any](m map[int]T) Selector[T] {
	return convert.ByIndex(m)
}

// Scalar returns a selector overriding column 0 of a 1-D array.
func Scalar[T any](v T) Selector[T] {
	return convert.Scalar(v)
}

// WithColumnNames overrides the names of array columns.
func WithColumnNames(s Selector[string]) Option {
	return convert.WithColumnNames(s)
}

// WithColumnDTypes overrides the declared element types of array columns.
func WithColumnDTypes(s Selector[DType]) Option {
	return convert.WithColumnDTypes(s)
}

// WithDefaults sets the values substituted for missing entries.
func WithDefaults(d Defaults) Option {
	return convert.WithDefaults(d)
}

// WithIncludeIndex emits the table's row index as a series named label.
func WithIncludeIndex(label string) Option {
	return convert.WithIncludeIndex(label)
}

// WithLogger sets the logger receiving conversion debug records.
func WithLogger(l *slog.Logger) Option {
	return convert.WithLogger(l)
}

// WithMetrics records conversions on mc.
func WithMetrics(mc *monitoring.MetricsCollector) Option {
	return convert.WithMetrics(mc)
}

// NewArrayConverter creates a converter for an array or absent input.
func NewArrayConverter(in Input, opts ...Option) (*ArrayConverter, error) {
	return convert.NewArrayConverter(in, opts...)
}

// NewTableConverter creates a converter for a table, a column or absent input.
func NewTableConverter(in Input, opts ...Option) (*TableConverter, error) {
	return convert.NewTableConverter(in, opts...)
}

// ArraySeriesList converts array in one call. A nil array gives an empty list.
func ArraySeriesList(array *Array, names Selector[string], dtypes Selector[DType], defaults Defaults) (List, error) {
	var a *ndarray.Array
	if array != nil {
		a = array.a
	}
	return convert.SeriesListFromArray(a, names, dtypes, defaults)
}

// Chart collects the JavaScript calls for one chart.
type Chart = chart.Chart

// Animations accepted by Chart.Animate.
type (
	Data     = chart.Data
	Config   = chart.Config
	Style    = chart.Style
	Snapshot = chart.Snapshot
)

// ChartOption configures a Chart.
type ChartOption = chart.Option

// DisplayTarget selects where the notebook renders a chart.
type DisplayTarget = chart.DisplayTarget

// WithScrollIntoView overrides the configured scroll setting.
func WithScrollIntoView(scroll bool) ChartOption {
	return chart.WithScrollIntoView(scroll)
}

// NewData returns an empty data animation.
func NewData() *Data {
	return chart.NewData()
}

// NewChart creates a chart using the display target and scroll setting of
// the global configuration.
func NewChart(opts ...ChartOption) (*Chart, error) {
	cfg := config.GetGlobalConfig()
	target, err := chart.ParseDisplayTarget(cfg.DisplayTarget)
	if err != nil {
		return nil, err
	}
	opts = append([]chart.Option{chart.WithScrollIntoView(cfg.ScrollIntoView)}, opts...)
	return chart.New(target, opts...), nil
}
