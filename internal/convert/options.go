package convert

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/config"
	"github.com/paveg/chartseries/internal/monitoring"
	"github.com/paveg/chartseries/internal/ndarray"
	"github.com/paveg/chartseries/internal/normalize"
	"github.com/paveg/chartseries/internal/parallel"
	"github.com/paveg/chartseries/internal/vizdata"
)

// Option configures a converter.
type Option func(*options)

type options struct {
	names        Selector[string]
	dtypes       Selector[ndarray.DType]
	defaults     *normalize.Defaults
	includeIndex *string
	logger       *slog.Logger
	metrics      *monitoring.MetricsCollector
	mem          memory.Allocator
	workers      int
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		mem:    memory.DefaultAllocator,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaults == nil || o.includeIndex == nil {
		cfg := config.GetGlobalConfig()
		if o.defaults == nil {
			d := cfg.Defaults()
			o.defaults = &d
		}
		if o.includeIndex == nil {
			o.includeIndex = &cfg.IncludeIndex
		}
	}
	return o
}

// WithColumnNames overrides the names of array columns.
func WithColumnNames(s Selector[string]) Option {
	return func(o *options) { o.names = s }
}

// WithColumnDTypes overrides the declared element types of array columns.
func WithColumnDTypes(s Selector[ndarray.DType]) Option {
	return func(o *options) { o.dtypes = s }
}

// WithDefaults sets the values substituted for missing entries. Without it
// the global configuration's defaults are used.
func WithDefaults(d normalize.Defaults) Option {
	return func(o *options) { o.defaults = &d }
}

// WithIncludeIndex makes the table converter emit the row index as a series
// named label. An empty label disables it. Without it the global
// configuration's include_index label is used.
func WithIncludeIndex(label string) Option {
	return func(o *options) { o.includeIndex = &label }
}

// WithLogger sets the logger receiving debug records for each conversion.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records every conversion on the given collector.
func WithMetrics(mc *monitoring.MetricsCollector) Option {
	return func(o *options) { o.metrics = mc }
}

// WithAllocator sets the allocator used for buffers the converter builds
// itself, such as a synthesized row index.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

// WithWorkers sets how many goroutines convert columns. 1 converts
// sequentially; 0 picks the CPU count once the input is large enough to
// benefit.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.workers = n
		}
	}
}

// convertColumns runs convert for columns 0..n-1 and keeps column order.
func (o options) convertColumns(rows, n int, convert func(int) (vizdata.Series, error)) (vizdata.List, error) {
	if o.workers == 1 || (o.workers == 0 && !parallel.ShouldParallelize(rows, n)) {
		list := make(vizdata.List, 0, n)
		for j := range n {
			s, err := convert(j)
			if err != nil {
				return nil, err
			}
			list = append(list, s)
		}
		return list, nil
	}

	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()
	return parallel.ProcessIndexed(pool, n, convert)
}
