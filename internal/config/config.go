// Package config provides configuration management for series conversion
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/paveg/chartseries/internal/chart"
	"github.com/paveg/chartseries/internal/normalize"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for series conversion
type Config struct {
	// Missing-value substitutes
	DefaultMeasureValue   float64 `json:"default_measure_value" yaml:"default_measure_value"`     // Used for null or non-finite measure entries
	DefaultDimensionValue string  `json:"default_dimension_value" yaml:"default_dimension_value"` // Used for null dimension entries

	// Table conversion
	IncludeIndex string `json:"include_index" yaml:"include_index"` // Label of the index series; empty leaves the index out

	// Chart output
	DisplayTarget  string `json:"display_target" yaml:"display_target"`     // begin, actual, end or manual
	ScrollIntoView bool   `json:"scroll_into_view" yaml:"scroll_into_view"` // Scroll the chart into view on animate

	// Debugging Configuration
	VerboseLogging    bool `json:"verbose_logging" yaml:"verbose_logging"`       // Enable debug logging
	MetricsCollection bool `json:"metrics_collection" yaml:"metrics_collection"` // Enable metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Environment variables read by LoadFromEnv
const (
	EnvDefaultMeasure    = "CHARTSERIES_DEFAULT_MEASURE"
	EnvDefaultDimension  = "CHARTSERIES_DEFAULT_DIMENSION"
	EnvIncludeIndex      = "CHARTSERIES_INCLUDE_INDEX"
	EnvDisplayTarget     = "CHARTSERIES_DISPLAY_TARGET"
	EnvScrollIntoView    = "CHARTSERIES_SCROLL_INTO_VIEW"
	EnvVerboseLogging    = "CHARTSERIES_VERBOSE_LOGGING"
	EnvMetricsCollection = "CHARTSERIES_METRICS_COLLECTION"
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	d := normalize.DefaultDefaults()
	return Config{
		DefaultMeasureValue:   d.Measure,
		DefaultDimensionValue: d.Dimension,
		DisplayTarget:         string(chart.DisplayActual),
	}
}

// Defaults returns the missing-value substitutes as normalizer defaults.
func (c Config) Defaults() normalize.Defaults {
	return normalize.Defaults{
		Measure:   c.DefaultMeasureValue,
		Dimension: c.DefaultDimensionValue,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if math.IsNaN(c.DefaultMeasureValue) || math.IsInf(c.DefaultMeasureValue, 0) {
		return fmt.Errorf("DefaultMeasureValue must be finite, got %v", c.DefaultMeasureValue)
	}

	if _, err := chart.ParseDisplayTarget(c.DisplayTarget); err != nil {
		return fmt.Errorf("DisplayTarget: %w", err)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	if c.DisplayTarget == "" {
		c.DisplayTarget = NewConfig().DisplayTarget
	}
	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	return LoadFromFileOnto(Config{}, filename)
}

// LoadFromFileOnto decodes a JSON or YAML file on top of base. Keys absent
// from the file keep the values they have in base.
func LoadFromFileOnto(base Config, filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	config := base
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from environment variables on top of the defaults
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv(EnvDefaultMeasure); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.DefaultMeasureValue = parsed
		}
	}

	if val, ok := os.LookupEnv(EnvDefaultDimension); ok {
		config.DefaultDimensionValue = val
	}

	if val := os.Getenv(EnvIncludeIndex); val != "" {
		config.IncludeIndex = val
	}

	if val := os.Getenv(EnvDisplayTarget); val != "" {
		config.DisplayTarget = val
	}

	for env, field := range map[string]*bool{
		EnvScrollIntoView:    &config.ScrollIntoView,
		EnvVerboseLogging:    &config.VerboseLogging,
		EnvMetricsCollection: &config.MetricsCollection,
	} {
		if val := os.Getenv(env); val != "" {
			if parsed, err := strconv.ParseBool(val); err == nil {
				*field = parsed
			}
		}
	}

	return config
}
