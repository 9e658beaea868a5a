// Package vizdata defines the normalized series records handed to the chart
// library and their JSON interchange form.
package vizdata

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/paveg/chartseries/internal/infer"
)

// Name is a series name: either a text label or an integer column position.
type Name struct {
	label      string
	position   int
	positional bool
}

// Label returns a text name.
func Label(s string) Name {
	return Name{label: s}
}

// Position returns an integer name.
func Position(i int) Name {
	return Name{position: i, positional: true}
}

// IsPosition reports whether the name is an integer position.
func (n Name) IsPosition() bool {
	return n.positional
}

// String renders the name as text.
func (n Name) String() string {
	if n.positional {
		return strconv.Itoa(n.position)
	}
	return n.label
}

// MarshalJSON writes positions as JSON numbers and labels as strings.
func (n Name) MarshalJSON() ([]byte, error) {
	if n.positional {
		return json.Marshal(n.position)
	}
	return json.Marshal(n.label)
}

// UnmarshalJSON accepts a JSON number or string.
func (n *Name) UnmarshalJSON(data []byte) error {
	var pos int
	if err := json.Unmarshal(data, &pos); err == nil {
		*n = Position(pos)
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("series name must be a string or an integer: %w", err)
	}
	*n = Label(label)
	return nil
}

// Series is one normalized column. Exactly one of Measures and Dimensions is
// used, selected by Type.
type Series struct {
	Name       Name
	Type       infer.Type
	Measures   []float64
	Dimensions []string
}

// NewMeasure returns a measure series.
func NewMeasure(name Name, values []float64) Series {
	return Series{Name: name, Type: infer.Measure, Measures: values}
}

// NewDimension returns a dimension series.
func NewDimension(name Name, values []string) Series {
	return Series{Name: name, Type: infer.Dimension, Dimensions: values}
}

// Len returns the number of values.
func (s Series) Len() int {
	if s.Type == infer.Measure {
		return len(s.Measures)
	}
	return len(s.Dimensions)
}

// Values returns the values boxed for generic consumers.
func (s Series) Values() []any {
	out := make([]any, s.Len())
	for i := range out {
		if s.Type == infer.Measure {
			out[i] = s.Measures[i]
		} else {
			out[i] = s.Dimensions[i]
		}
	}
	return out
}

type wireSeries struct {
	Name   Name            `json:"name"`
	Values json.RawMessage `json:"values"`
	Type   infer.Type      `json:"type"`
}

// MarshalJSON writes {"name": ..., "values": [...], "type": ...}.
func (s Series) MarshalJSON() ([]byte, error) {
	var (
		values []byte
		err    error
	)
	if s.Type == infer.Measure {
		values, err = json.Marshal(nonNilFloats(s.Measures))
	} else {
		values, err = json.Marshal(nonNilStrings(s.Dimensions))
	}
	if err != nil {
		return nil, fmt.Errorf("encoding values of series %s: %w", s.Name, err)
	}
	return json.Marshal(wireSeries{Name: s.Name, Values: values, Type: s.Type})
}

// UnmarshalJSON reads the interchange form written by MarshalJSON.
func (s *Series) UnmarshalJSON(data []byte) error {
	var w wireSeries
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Series{Name: w.Name, Type: w.Type}
	switch w.Type {
	case infer.Measure:
		if err := json.Unmarshal(w.Values, &out.Measures); err != nil {
			return fmt.Errorf("decoding measure values: %w", err)
		}
	case infer.Dimension:
		if err := json.Unmarshal(w.Values, &out.Dimensions); err != nil {
			return fmt.Errorf("decoding dimension values: %w", err)
		}
	default:
		return fmt.Errorf("unknown series type %q", w.Type)
	}
	*s = out
	return nil
}

func nonNilFloats(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// List is an ordered sequence of series.
type List []Series

// Names returns the series names in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.Name.String()
	}
	return names
}

// Fingerprint hashes the JSON form of the list. Equal lists produce equal
// fingerprints.
func (l List) Fingerprint() (uint64, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
