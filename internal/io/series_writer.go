package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paveg/chartseries/internal/vizdata"
)

// SeriesDocument is the JSON document written for a series list.
type SeriesDocument struct {
	Series vizdata.List `json:"series"`
}

// SeriesWriter writes series lists as {"series": [...]} JSON.
type SeriesWriter struct {
	writer io.Writer
	indent string
}

// NewSeriesWriter creates a writer. A non-empty indent pretty-prints.
func NewSeriesWriter(writer io.Writer, indent string) *SeriesWriter {
	return &SeriesWriter{writer: writer, indent: indent}
}

// Write encodes list followed by a newline.
func (w *SeriesWriter) Write(list vizdata.List) error {
	if list == nil {
		list = vizdata.List{}
	}
	enc := json.NewEncoder(w.writer)
	enc.SetIndent("", w.indent)
	if err := enc.Encode(SeriesDocument{Series: list}); err != nil {
		return fmt.Errorf("writing series: %w", err)
	}
	return nil
}

// ReadSeries decodes a document written by SeriesWriter.
func ReadSeries(r io.Reader) (vizdata.List, error) {
	var doc SeriesDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading series: %w", err)
	}
	return doc.Series, nil
}
