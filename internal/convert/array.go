package convert

import (
	"github.com/paveg/chartseries/internal/backend"
	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/infer"
	"github.com/paveg/chartseries/internal/ndarray"
	"github.com/paveg/chartseries/internal/normalize"
	"github.com/paveg/chartseries/internal/validation"
	"github.com/paveg/chartseries/internal/vizdata"
)

const (
	opNewArrayConverter = "NewArrayConverter"
	opSeriesList        = "SeriesList"
	maxArrayNDim        = 2
)

// ArrayConverter converts a 0-, 1- or 2-D array into a series list.
type ArrayConverter struct {
	array *ndarray.Array
	opts  options
}

// NewArrayConverter validates in and the options against each other.
// It accepts Empty and Array inputs only.
func NewArrayConverter(in Input, opts ...Option) (*ArrayConverter, error) {
	if err := backend.Require(opNewArrayConverter, backend.NDArray); err != nil {
		return nil, err
	}
	if k := in.Kind(); k != KindEmpty && k != KindArray {
		return nil, cserrors.NewTypeConversionError(opNewArrayConverter, "expected an array, got "+k.String())
	}

	o := newOptions(opts)
	ndim := 0
	if in.Array() != nil {
		ndim = in.Array().NDim()
	}
	err := validation.ValidateAll(
		validation.NewSelectorValidator("column_names", o.names.IsScalar(), ndim, opNewArrayConverter),
		validation.NewSelectorValidator("column_dtypes", o.dtypes.IsScalar(), ndim, opNewArrayConverter),
		validation.NewDefaultsValidator(o.defaults.Measure, opNewArrayConverter),
	)
	if err != nil {
		return nil, err
	}

	return &ArrayConverter{array: in.Array(), opts: o}, nil
}

// SeriesList returns one series for a 1-D array and one per column, in
// column order, for a 2-D array. Absent and 0-D arrays give an empty list.
// Arrays with more than two dimensions are rejected without partial output.
func (c *ArrayConverter) SeriesList() (vizdata.List, error) {
	if c.array == nil || c.array.NDim() == 0 {
		return vizdata.List{}, nil
	}
	if err := validation.ValidateShape(c.array, maxArrayNDim, opSeriesList); err != nil {
		return nil, err
	}

	var out vizdata.List
	err := c.opts.metrics.RecordOperation(opSeriesList, c.array.Len(), func() (int, error) {
		list, err := c.seriesList()
		out = list
		return len(list), err
	})
	if err != nil {
		return nil, err
	}

	c.opts.logger.Debug("converted array",
		"op", opSeriesList,
		"ndim", c.array.NDim(),
		"columns", len(out),
		"rows", c.array.Len())
	return out, nil
}

func (c *ArrayConverter) seriesList() (vizdata.List, error) {
	return c.opts.convertColumns(c.array.Len(), c.array.Width(), c.columnSeries)
}

func (c *ArrayConverter) columnSeries(j int) (vizdata.Series, error) {
	col, err := c.array.Column(j)
	if err != nil {
		return vizdata.Series{}, err
	}
	defer col.Release()

	name := vizdata.Position(j)
	if label, ok := c.opts.names.Get(j); ok {
		name = vizdata.Label(label)
	}
	dtype, ok := c.opts.dtypes.Get(j)
	if !ok {
		dtype = c.array.ColumnDType(j)
	}

	d := c.opts.defaults
	if infer.FromNumeric(dtype.IsNumeric()) == infer.Measure {
		return vizdata.NewMeasure(name, normalize.Measures(col, d.Measure)), nil
	}
	return vizdata.NewDimension(name, normalize.Dimensions(col, d.Dimension)), nil
}

// SeriesListFromArray converts array in one call. A nil array gives an
// empty list.
func SeriesListFromArray(
	array *ndarray.Array,
	names Selector[string],
	dtypes Selector[ndarray.DType],
	defaults normalize.Defaults,
) (vizdata.List, error) {
	c, err := NewArrayConverter(FromArray(array),
		WithColumnNames(names),
		WithColumnDTypes(dtypes),
		WithDefaults(defaults))
	if err != nil {
		return nil, err
	}
	return c.SeriesList()
}
