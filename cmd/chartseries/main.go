package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/chart"
	"github.com/paveg/chartseries/internal/config"
	"github.com/paveg/chartseries/internal/convert"
	"github.com/paveg/chartseries/internal/dataframe"
	csio "github.com/paveg/chartseries/internal/io"
	"github.com/paveg/chartseries/internal/monitoring"
	"github.com/paveg/chartseries/internal/version"
)

var errUsage = errors.New("usage")

type options struct {
	input            string
	index            string
	defaultMeasure   float64
	defaultDimension string
	configFile       string
	output           string
	compression      string
	html             bool
	verbose          bool
	version          bool
	set              map[string]bool
}

func customUsage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintf(out, "chartseries (version %s)\n\n", version.Version)
		fmt.Fprintf(out, "Usage: chartseries -input FILE [options]\n\n")
		fmt.Fprintf(out, "Converts a CSV, TSV or Parquet table into a chart series list.\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("chartseries", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.input, "input", "", "Table to convert (.csv, .tsv or .parquet)")
	fs.StringVar(&opts.index, "index", "", "Column to use as row index; it is emitted as the first series")
	fs.Float64Var(&opts.defaultMeasure, "default-measure", 0, "Value substituted for missing measures")
	fs.StringVar(&opts.defaultDimension, "default-dimension", "", "Value substituted for missing dimensions")
	fs.StringVar(&opts.configFile, "config", "", "Configuration file (.json, .yaml or .yml)")
	fs.StringVar(&opts.output, "output", "", "Also write the loaded table to this Parquet file")
	fs.StringVar(&opts.compression, "compression", csio.DefaultParquetOptions().Compression,
		"Parquet compression for -output (snappy, gzip, lz4, zstd or uncompressed)")
	fs.BoolVar(&opts.html, "html", false, "Print a chart <script> block instead of JSON")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.version, "version", false, "Print version information and exit")
	fs.BoolVar(&opts.version, "v", false, "Print version information and exit (shorthand)")
	fs.Usage = customUsage(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if !opts.version && opts.input == "" {
		fs.Usage()
		return nil, errUsage
	}
	return opts, nil
}

// loadConfig layers environment, configuration file and flags, in that order.
func loadConfig(opts *options) (config.Config, error) {
	cfg := config.LoadFromEnv()
	if opts.configFile != "" {
		fileCfg, err := config.LoadFromFileOnto(cfg, opts.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}
	if opts.set["default-measure"] {
		cfg.DefaultMeasureValue = opts.defaultMeasure
	}
	if opts.set["default-dimension"] {
		cfg.DefaultDimensionValue = opts.defaultDimension
	}
	if opts.index != "" {
		cfg.IncludeIndex = opts.index
	}
	if opts.verbose {
		cfg.VerboseLogging = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func writeParquet(df *dataframe.DataFrame, path, compression string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	opts := csio.DefaultParquetOptions()
	opts.Compression = compression
	if err := csio.NewParquetWriter(f, opts).Write(df); err != nil {
		_ = f.Close()
		return err
	}
	// The Parquet writer may already have closed f.
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprint(stdout, version.Info().String())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	config.SetGlobalConfig(cfg)
	logger := newLogger(stderr, cfg.VerboseLogging)

	mem := memory.NewGoAllocator()
	df, err := csio.ReadFile(opts.input, mem)
	if err != nil {
		return err
	}
	if opts.output != "" {
		if err := writeParquet(df, opts.output, opts.compression); err != nil {
			df.Release()
			return err
		}
		logger.Debug("wrote parquet", "output", opts.output, "compression", opts.compression)
	}
	if opts.index != "" {
		indexed, err := df.SetIndex(opts.index)
		if err != nil {
			df.Release()
			return err
		}
		df = indexed
	}
	defer df.Release()
	logger.Debug("loaded table", "input", opts.input, "rows", df.Len(), "columns", df.Width())

	metrics := monitoring.NewMetricsCollector(cfg.MetricsCollection)
	converter, err := convert.NewTableConverter(convert.FromTable(df),
		convert.WithLogger(logger),
		convert.WithMetrics(metrics))
	if err != nil {
		return err
	}
	list, err := converter.SeriesListFromColumns()
	if err != nil {
		return err
	}

	if metrics.IsEnabled() {
		summary := metrics.GetSummary()
		logger.Info("conversion metrics",
			"operations", summary.TotalOperations,
			"rows", summary.TotalRows,
			"series", summary.TotalSeries,
			"duration", summary.TotalDuration)
	}

	if !opts.html {
		return csio.NewSeriesWriter(stdout, "  ").Write(list)
	}

	target, err := chart.ParseDisplayTarget(cfg.DisplayTarget)
	if err != nil {
		return err
	}
	c := chart.New(target, chart.WithScrollIntoView(cfg.ScrollIntoView))
	if err := c.Animate(nil, chart.NewData().AddSeries(list...)); err != nil {
		return err
	}
	return c.Show(stdout)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "chartseries: %v\n", err)
		os.Exit(1)
	}
}
