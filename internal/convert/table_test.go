package convert

import (
	"testing"

	"github.com/paveg/chartseries/internal/backend"
	"github.com/paveg/chartseries/internal/config"
	"github.com/paveg/chartseries/internal/dataframe"
	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/paveg/chartseries/internal/monitoring"
	"github.com/paveg/chartseries/internal/normalize"
	"github.com/paveg/chartseries/internal/series"
	"github.com/paveg/chartseries/internal/testutil"
	"github.com/paveg/chartseries/internal/vizdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTableSeries(t *testing.T, c *TableConverter) vizdata.List {
	t.Helper()
	list, err := c.SeriesListFromColumns()
	require.NoError(t, err)
	return list
}

func TestTableConverter_SeriesListFromColumns(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := testutil.CreatePriceColorTable(mem.Allocator)
	defer df.Release()

	c, err := NewTableConverter(FromTable(df), WithIncludeIndex("id"), WithDefaults(normalize.DefaultDefaults()))
	require.NoError(t, err)

	testutil.AssertSeriesList(t, vizdata.List{
		vizdata.NewMeasure(vizdata.Label("id"), []float64{0, 1, 2}),
		vizdata.NewMeasure(vizdata.Label("price"), []float64{10, 0, 30}),
		vizdata.NewDimension(vizdata.Label("color"), []string{"red", "", "blue"}),
	}, mustTableSeries(t, c))
}

func TestTableConverter_WithoutIndex(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := testutil.CreateTestDataFrame(mem.Allocator, testutil.WithNulls(), testutil.WithActiveColumn())
	defer df.Release()

	c, err := NewTableConverter(FromTable(df),
		WithDefaults(normalize.Defaults{Measure: -1, Dimension: "?"}))
	require.NoError(t, err)

	_, ok := c.SeriesFromIndex()
	assert.False(t, ok)

	testutil.AssertSeriesList(t, vizdata.List{
		vizdata.NewDimension(vizdata.Label("region"), []string{"North", "?", "East", "West"}),
		vizdata.NewMeasure(vizdata.Label("units"), []float64{12, 7, 30, 18}),
		vizdata.NewMeasure(vizdata.Label("revenue"), []float64{120.5, -1, 300.25, 180}),
		vizdata.NewDimension(vizdata.Label("active"), []string{"true", "false", "true", "false"}),
	}, mustTableSeries(t, c))
}

func TestTableConverter_ExplicitIndex(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := testutil.CreatePriceColorTable(mem.Allocator)
	indexed, err := df.WithIndex(series.New("sku", []string{"a-1", "b-2", "c-3"}, mem.Allocator))
	require.NoError(t, err)
	defer indexed.Release()

	c, err := NewTableConverter(FromTable(indexed), WithIncludeIndex("sku"))
	require.NoError(t, err)

	s, ok := c.SeriesFromIndex()
	require.True(t, ok)
	testutil.AssertSeries(t, vizdata.NewDimension(vizdata.Label("sku"), []string{"a-1", "b-2", "c-3"}), s)

	list := mustTableSeries(t, c)
	require.Len(t, list, df.Width()+1)
	assert.Equal(t, []string{"sku", "price", "color"}, list.Names())
}

func TestTableConverter_Inputs(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	t.Run("single column", func(t *testing.T) {
		col := series.New("temp", []float64{20.5, 21}, mem.Allocator)
		defer col.Release()

		c, err := NewTableConverter(FromColumn(col))
		require.NoError(t, err)
		assert.Equal(t, 1, c.Table().Width())

		testutil.AssertSeriesList(t, vizdata.List{
			vizdata.NewMeasure(vizdata.Label("temp"), []float64{20.5, 21}),
		}, mustTableSeries(t, c))
	})

	t.Run("empty input is a zero column table", func(t *testing.T) {
		c, err := NewTableConverter(Empty(), WithIncludeIndex("id"))
		require.NoError(t, err)

		assert.Equal(t, 0, c.Table().Width())
		assert.Equal(t, 0, c.Table().Len())
		_, ok := c.SeriesFromIndex()
		assert.False(t, ok)
		assert.Empty(t, mustTableSeries(t, c))
	})

	t.Run("array input", func(t *testing.T) {
		_, err := NewTableConverter(FromArray(mustArray(t, []float64{1})))
		require.ErrorIs(t, err, cserrors.ErrTypeConversion)
	})

	t.Run("missing table backend", func(t *testing.T) {
		restore := backend.Unregister(backend.DataFrame)
		defer restore()

		_, err := NewTableConverter(Empty())
		require.ErrorIs(t, err, cserrors.ErrMissingDependency)
	})
}

func TestTableConverter_GlobalDefaults(t *testing.T) {
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	cfg := config.NewConfig()
	cfg.DefaultMeasureValue = 99
	cfg.DefaultDimensionValue = "none"
	cfg.IncludeIndex = "row"
	config.SetGlobalConfig(cfg)

	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	df := testutil.CreatePriceColorTable(mem.Allocator)
	defer df.Release()

	c, err := NewTableConverter(FromTable(df))
	require.NoError(t, err)

	list := mustTableSeries(t, c)
	require.Len(t, list, 3)
	assert.Equal(t, "row", list[0].Name.String())
	assert.Equal(t, []float64{10, 99, 30}, list[1].Measures)
	assert.Equal(t, []string{"red", "none", "blue"}, list[2].Dimensions)

	noIndex, err := NewTableConverter(FromTable(df), WithIncludeIndex(""))
	require.NoError(t, err)
	assert.Len(t, mustTableSeries(t, noIndex), 2)
}

func TestTableConverter_Metrics(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	df := testutil.CreateTestDataFrame(mem.Allocator, testutil.WithRowCount(6))
	defer df.Release()

	metrics := monitoring.NewMetricsCollector(true)
	c, err := NewTableConverter(FromTable(df), WithMetrics(metrics), WithIncludeIndex("row"))
	require.NoError(t, err)
	mustTableSeries(t, c)

	summary := metrics.GetSummary()
	assert.Equal(t, int64(6), summary.TotalRows)
	assert.Equal(t, 4, summary.TotalSeries)
}

func TestTableConverter_NoLeaks(t *testing.T) {
	mem := testutil.SetupCheckedMemoryTest(t)
	defer mem.Release()

	df := testutil.CreatePriceColorTable(mem.Allocator)
	defer df.Release()

	c, err := NewTableConverter(FromTable(df), WithIncludeIndex("id"), WithAllocator(mem.Allocator))
	require.NoError(t, err)
	assert.Len(t, mustTableSeries(t, c), 3)
}

func TestAdapt(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := testutil.CreatePriceColorTable(mem.Allocator)
	defer df.Release()
	col, _ := df.Column("price")

	tests := []struct {
		name  string
		value any
		kind  InputKind
	}{
		{"nil", nil, KindEmpty},
		{"array", mustArray(t, []int64{1}), KindArray},
		{"table", df, KindTable},
		{"column", col, KindColumn},
		{"nil table", (*dataframe.DataFrame)(nil), KindEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Adapt(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, in.Kind())
		})
	}

	t.Run("arrow array", func(t *testing.T) {
		arr := col.Array()
		defer arr.Release()

		in, err := Adapt(arr)
		require.NoError(t, err)
		defer in.Array().Release()
		assert.Equal(t, KindArray, in.Kind())
		assert.Equal(t, 1, in.Array().NDim())
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Adapt(map[string]int{"a": 1})
		require.ErrorIs(t, err, cserrors.ErrTypeConversion)
	})
}

func TestTableConverter_Parallel(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	df := testutil.CreateTestDataFrame(mem.Allocator, testutil.WithRowCount(50), testutil.WithNulls(), testutil.WithActiveColumn())
	defer df.Release()

	sequential, err := NewTableConverter(FromTable(df), WithWorkers(1), WithIncludeIndex("row"))
	require.NoError(t, err)
	concurrent, err := NewTableConverter(FromTable(df), WithWorkers(3), WithIncludeIndex("row"))
	require.NoError(t, err)

	want, err := mustTableSeries(t, sequential).Fingerprint()
	require.NoError(t, err)
	got, err := mustTableSeries(t, concurrent).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTableConverter_ColumnFailure(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	df := testutil.CreatePriceColorTable(mem.Allocator)
	defer df.Release()

	for _, workers := range []int{1, 2} {
		metrics := monitoring.NewMetricsCollector(true)
		c, err := NewTableConverter(FromTable(df), WithWorkers(workers), WithMetrics(metrics))
		require.NoError(t, err)

		_, err = c.columnSeries("absent")
		require.ErrorIs(t, err, cserrors.ErrInvalidConfiguration)

		list, err := c.opts.convertColumns(df.Len(), df.Width(), func(j int) (vizdata.Series, error) {
			if j == 1 {
				return c.columnSeries("absent")
			}
			return c.columnSeries(df.Columns()[j])
		})
		require.ErrorIs(t, err, cserrors.ErrInvalidConfiguration)
		assert.Nil(t, list)
	}
}
