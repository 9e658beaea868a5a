package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/dataframe"
)

// NewFileReader picks a reader by file extension: .csv, .tsv or .parquet.
func NewFileReader(f *os.File, mem memory.Allocator) (DataReader, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".csv":
		return NewCSVReader(f, DefaultCSVOptions(), mem), nil
	case ".tsv":
		opts := DefaultCSVOptions()
		opts.Delimiter = '\t'
		return NewCSVReader(f, opts, mem), nil
	case ".parquet", ".pq":
		return NewParquetReader(f, mem), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// ReadFile loads the table stored at path.
func ReadFile(path string, mem memory.Allocator) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader, err := NewFileReader(f, mem)
	if err != nil {
		return nil, err
	}
	return reader.Read()
}
