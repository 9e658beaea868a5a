// Package monitoring provides metrics collection for conversion operations.
package monitoring

import (
	"sync"
	"time"
)

// OperationMetrics represents metrics for a single conversion.
type OperationMetrics struct {
	Operation      string        `json:"operation"`
	Duration       time.Duration `json:"duration"`
	RowsProcessed  int64         `json:"rows_processed"`
	SeriesProduced int           `json:"series_produced"`
	Failed         bool          `json:"failed"`
}

// MetricsCollector collects and stores metrics for conversion operations.
// It is safe for concurrent use.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]OperationMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	if mc == nil {
		return false
	}
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// RecordOperation executes fn and records its duration, the rows it was
// given and the number of series it reports. A nil or disabled collector
// just runs fn.
func (mc *MetricsCollector) RecordOperation(operation string, rows int, fn func() (int, error)) error {
	if !mc.IsEnabled() {
		_, err := fn()
		return err
	}

	start := time.Now()
	produced, err := fn()

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, OperationMetrics{
		Operation:      operation,
		Duration:       time.Since(start),
		RowsProcessed:  int64(rows),
		SeriesProduced: produced,
		Failed:         err != nil,
	})
	mc.mu.Unlock()

	return err
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	summary := MetricsSummary{
		TotalOperations: len(mc.metrics),
		OperationCounts: make(map[string]int),
	}
	for _, metric := range mc.metrics {
		summary.TotalDuration += metric.Duration
		summary.TotalRows += metric.RowsProcessed
		summary.TotalSeries += metric.SeriesProduced
		summary.OperationCounts[metric.Operation]++
		if metric.Failed {
			summary.Failures++
		}
	}
	summary.AverageDuration = summary.TotalDuration / time.Duration(len(mc.metrics))

	return summary
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations int            `json:"total_operations"`
	TotalDuration   time.Duration  `json:"total_duration"`
	TotalRows       int64          `json:"total_rows"`
	TotalSeries     int            `json:"total_series"`
	Failures        int            `json:"failures"`
	OperationCounts map[string]int `json:"operation_counts"`
	AverageDuration time.Duration  `json:"average_duration"`
}
