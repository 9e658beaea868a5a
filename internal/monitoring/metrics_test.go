package monitoring

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("disabled collector only runs the operation", func(t *testing.T) {
		collector := NewMetricsCollector(false)

		callCount := 0
		err := collector.RecordOperation("SeriesList", 3, func() (int, error) {
			callCount++
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, callCount)
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("nil collector", func(t *testing.T) {
		var collector *MetricsCollector
		assert.False(t, collector.IsEnabled())
		require.NoError(t, collector.RecordOperation("x", 0, func() (int, error) { return 0, nil }))
	})

	t.Run("enabled collector records", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		opErr := errors.New("boom")

		require.NoError(t, collector.RecordOperation("SeriesList", 10, func() (int, error) { return 2, nil }))
		err := collector.RecordOperation("SeriesListFromColumns", 5, func() (int, error) { return 0, opErr })
		assert.ErrorIs(t, err, opErr)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 2)
		assert.Equal(t, "SeriesList", metrics[0].Operation)
		assert.Equal(t, int64(10), metrics[0].RowsProcessed)
		assert.Equal(t, 2, metrics[0].SeriesProduced)
		assert.True(t, metrics[1].Failed)

		summary := collector.GetSummary()
		assert.Equal(t, 2, summary.TotalOperations)
		assert.Equal(t, int64(15), summary.TotalRows)
		assert.Equal(t, 2, summary.TotalSeries)
		assert.Equal(t, 1, summary.Failures)
		assert.Equal(t, 1, summary.OperationCounts["SeriesList"])

		collector.Clear()
		assert.Empty(t, collector.GetMetrics())
		assert.Equal(t, MetricsSummary{}, collector.GetSummary())
	})

	t.Run("toggle", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		collector.SetEnabled(false)
		assert.False(t, collector.IsEnabled())
	})
}

func TestMetricsCollector_Concurrent(t *testing.T) {
	collector := NewMetricsCollector(true)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = collector.RecordOperation("SeriesList", 1, func() (int, error) { return 1, nil })
		}()
	}
	wg.Wait()

	assert.Len(t, collector.GetMetrics(), 20)
}
