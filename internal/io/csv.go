package io

import (
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/paveg/chartseries/internal/dataframe"
	"github.com/paveg/chartseries/internal/series"
)

type columnType int

const (
	typeString columnType = iota
	typeBool
	typeInt
	typeFloat
)

// Read reads CSV data and returns a DataFrame
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.New(), nil
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	seriesList := make([]dataframe.ISeries, 0, len(headers))
	for i, header := range headers {
		cells := make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				cells[j] = row[i]
			}
		}
		s, err := r.createSeriesFromStrings(header, cells)
		if err != nil {
			for _, created := range seriesList {
				created.Release()
			}
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		seriesList = append(seriesList, s)
	}

	return dataframe.New(seriesList...), nil
}

func (r *CSVReader) isNull(value string) bool {
	return value == "" || slices.Contains(r.options.NullValues, value)
}

// createSeriesFromStrings builds a nullable series of the narrowest type that
// fits every non-null cell.
func (r *CSVReader) createSeriesFromStrings(name string, data []string) (dataframe.ISeries, error) {
	valid := make([]bool, len(data))
	for i, value := range data {
		valid[i] = !r.isNull(value)
	}

	switch r.inferDataType(data, valid) {
	case typeBool:
		return series.NewNullable(name, parseCells(data, valid, func(s string) bool {
			return strings.EqualFold(s, "true")
		}), valid, r.mem)
	case typeInt:
		return series.NewNullable(name, parseCells(data, valid, func(s string) int64 {
			v, _ := strconv.ParseInt(s, 10, 64)
			return v
		}), valid, r.mem)
	case typeFloat:
		return series.NewNullable(name, parseCells(data, valid, func(s string) float64 {
			v, _ := strconv.ParseFloat(s, 64)
			return v
		}), valid, r.mem)
	default:
		return series.NewNullable(name, data, valid, r.mem)
	}
}

// inferDataType determines the most specific type for the non-null cells.
// A column without any value is a string column.
func (r *CSVReader) inferDataType(data []string, valid []bool) columnType {
	canBeBool, canBeInt, canBeFloat := true, true, true
	hasValue := false

	for i, value := range data {
		if !valid[i] {
			continue
		}
		hasValue = true

		if canBeBool {
			lower := strings.ToLower(value)
			canBeBool = lower == "true" || lower == "false"
		}
		if canBeInt {
			_, err := strconv.ParseInt(value, 10, 64)
			canBeInt = err == nil
		}
		if canBeFloat {
			_, err := strconv.ParseFloat(value, 64)
			canBeFloat = err == nil
		}
	}

	switch {
	case !hasValue:
		return typeString
	case canBeBool:
		return typeBool
	case canBeInt:
		return typeInt
	case canBeFloat:
		return typeFloat
	default:
		return typeString
	}
}

func parseCells[T any](data []string, valid []bool, parse func(string) T) []T {
	out := make([]T, len(data))
	for i, value := range data {
		if valid[i] {
			out[i] = parse(value)
		}
	}
	return out
}
