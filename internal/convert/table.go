package convert

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/chartseries/internal/backend"
	"github.com/paveg/chartseries/internal/dataframe"
	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/infer"
	"github.com/paveg/chartseries/internal/normalize"
	"github.com/paveg/chartseries/internal/validation"
	"github.com/paveg/chartseries/internal/vizdata"
)

const (
	opNewTableConverter     = "NewTableConverter"
	opSeriesListFromColumns = "SeriesListFromColumns"
)

// TableConverter converts the columns of a labeled table, and optionally its
// row index, into a series list. It does not own the table.
type TableConverter struct {
	table *dataframe.DataFrame
	opts  options
}

// NewTableConverter accepts a table, a single column (a one-column table) or
// Empty (a table without columns or rows).
func NewTableConverter(in Input, opts ...Option) (*TableConverter, error) {
	if err := backend.Require(opNewTableConverter, backend.DataFrame); err != nil {
		return nil, err
	}

	var df *dataframe.DataFrame
	switch in.Kind() {
	case KindTable:
		df = in.Table()
	case KindColumn:
		df = dataframe.New(in.Column())
	case KindEmpty:
		df = dataframe.New()
	default:
		return nil, cserrors.NewTypeConversionError(opNewTableConverter,
			"expected a table or a column, got "+in.Kind().String())
	}

	o := newOptions(opts)
	if err := validation.NewDefaultsValidator(o.defaults.Measure, opNewTableConverter).Validate(); err != nil {
		return nil, err
	}

	return &TableConverter{table: df, opts: o}, nil
}

// Table returns the table being converted.
func (c *TableConverter) Table() *dataframe.DataFrame {
	return c.table
}

// SeriesListFromColumns returns the index series when requested and present,
// followed by one series per column in table order.
func (c *TableConverter) SeriesListFromColumns() (vizdata.List, error) {
	var out vizdata.List
	err := c.opts.metrics.RecordOperation(opSeriesListFromColumns, c.table.Len(), func() (int, error) {
		names := c.table.Columns()
		columns, err := c.opts.convertColumns(c.table.Len(), len(names), func(j int) (vizdata.Series, error) {
			return c.columnSeries(names[j])
		})
		if err != nil {
			return 0, err
		}

		out = make(vizdata.List, 0, len(columns)+1)
		if s, ok := c.SeriesFromIndex(); ok {
			out = append(out, s)
		}
		out = append(out, columns...)
		return len(out), nil
	})
	if err != nil {
		return nil, err
	}

	c.opts.logger.Debug("converted table",
		"op", opSeriesListFromColumns,
		"columns", c.table.Width(),
		"rows", c.table.Len(),
		"index", *c.opts.includeIndex)
	return out, nil
}

func (c *TableConverter) columnSeries(name string) (vizdata.Series, error) {
	col, ok := c.table.Column(name)
	if !ok {
		return vizdata.Series{}, cserrors.NewInvalidConfigurationError(opSeriesListFromColumns, name, "column not found")
	}
	arr := col.Array()
	defer arr.Release()
	return c.arraySeries(vizdata.Label(name), arr), nil
}

// SeriesFromIndex returns the row index as a series named after the index
// label. It reports false when no label was requested or the table is empty.
func (c *TableConverter) SeriesFromIndex() (vizdata.Series, bool) {
	label := *c.opts.includeIndex
	if label == "" || c.table.Len() == 0 {
		return vizdata.Series{}, false
	}
	arr := c.table.IndexArray(c.opts.mem)
	defer arr.Release()
	return c.arraySeries(vizdata.Label(label), arr), true
}

func (c *TableConverter) arraySeries(name vizdata.Name, arr arrow.Array) vizdata.Series {
	d := c.opts.defaults
	if infer.FromArrow(arr.DataType()) == infer.Measure {
		return vizdata.NewMeasure(name, normalize.Measures(arr, d.Measure))
	}
	return vizdata.NewDimension(name, normalize.Dimensions(arr, d.Dimension))
}
