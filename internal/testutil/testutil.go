// Package testutil provides shared fixtures for converter tests:
// allocator setup and cleanup, standard tables and series assertions.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/dataframe"
	"github.com/paveg/chartseries/internal/series"
	"github.com/paveg/chartseries/internal/vizdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
)

// TestMemoryContext provides memory allocator with automatic cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator for tests.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{Allocator: memory.NewGoAllocator()}
}

// SetupCheckedMemoryTest creates a checked allocator whose Release fails the
// test when any Arrow buffer is still allocated.
func SetupCheckedMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	allocator := memory.NewCheckedAllocator(memory.NewGoAllocator())

	return &TestMemoryContext{
		Allocator: allocator,
		cleanup: func() {
			allocator.AssertSize(tb, 0)
		},
	}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls makes every third row of the revenue and region columns null.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withActive = true
	}
}

// CreateTestDataFrame creates a standard sales table.
//
// Default DataFrame includes:
//   - region (string): ["North", "South", "East", "West"]
//   - units (int64): [12, 7, 30, 18]
//   - revenue (float64): [120.5, 70, 300.25, 180]
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
//	df := testutil.CreateTestDataFrame(mem.Allocator)
//	defer df.Release()
func CreateTestDataFrame(allocator memory.Allocator, opts ...TestDataFrameOption) *dataframe.DataFrame {
	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	valid := make([]bool, cfg.rowCount)
	for i := range valid {
		valid[i] = !cfg.includeNulls || i%3 != 1
	}

	regions := mustNullable("region", cycle(cfg.rowCount, []string{"North", "South", "East", "West"}), valid, allocator)
	units := series.New("units", cycle(cfg.rowCount, []int64{12, 7, 30, 18}), allocator)
	revenue := mustNullable("revenue", cycle(cfg.rowCount, []float64{120.5, 70, 300.25, 180}), valid, allocator)

	columns := []dataframe.ISeries{regions, units, revenue}
	if cfg.withActive {
		columns = append(columns, series.New("active", cycle(cfg.rowCount, []bool{true, false}), allocator))
	}

	return dataframe.New(columns...)
}

// CreatePriceColorTable creates the three-row table
// price=[10, null, 30], color=["red", null, "blue"].
func CreatePriceColorTable(allocator memory.Allocator) *dataframe.DataFrame {
	valid := []bool{true, false, true}
	price := mustNullable("price", []float64{10, 0, 30}, valid, allocator)
	color := mustNullable("color", []string{"red", "", "blue"}, valid, allocator)
	return dataframe.New(price, color)
}

// AssertSeries checks name, type and values of a converted series.
func AssertSeries(t *testing.T, expected, actual vizdata.Series) {
	t.Helper()

	assert.Equal(t, expected.Name, actual.Name, "series name should match")
	assert.Equal(t, expected.Type, actual.Type, "series %s type should match", expected.Name)
	assert.Equal(t, expected.Values(), actual.Values(), "series %s values should match", expected.Name)
}

// AssertSeriesList checks two series lists element by element.
func AssertSeriesList(t *testing.T, expected, actual vizdata.List) {
	t.Helper()

	require.Len(t, actual, len(expected), "series count should match")
	for i := range expected {
		AssertSeries(t, expected[i], actual[i])
	}
}

// AssertRowCount verifies every series in list has n values.
func AssertRowCount(t *testing.T, list vizdata.List, n int) {
	t.Helper()

	for _, s := range list {
		assert.Equal(t, n, s.Len(), "series %s length", s.Name)
	}
}

func mustNullable[T any](name string, values []T, valid []bool, allocator memory.Allocator) *series.Series[T] {
	s, err := series.NewNullable(name, values, valid, allocator)
	if err != nil {
		panic(err)
	}
	return s
}

func cycle[T any](count int, base []T) []T {
	out := make([]T, count)
	for i := range count {
		out[i] = base[i%len(base)]
	}
	return out
}
