package chart

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/paveg/chartseries/internal/vizdata"
)

// Animation is anything that can be passed to Chart.Animate. Dump returns the
// JavaScript expression describing the animation target.
type Animation interface {
	Dump() (string, error)
}

// Mergeable animations expose their target as a map so that several of them
// can be combined into one animate call.
type Mergeable interface {
	Animation
	Build() map[string]any
}

func dumpMap(m map[string]any) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding animation: %w", err)
	}
	return string(data), nil
}

// Data carries series to the chart.
type Data struct {
	series vizdata.List
	filter string
}

// NewData returns an empty data animation.
func NewData() *Data {
	return &Data{}
}

// AddSeries appends series in order.
func (d *Data) AddSeries(series ...vizdata.Series) *Data {
	d.series = append(d.series, series...)
	return d
}

// SetFilter sets a JavaScript record filter expression, e.g.
// "record => record.Genres != 'Pop'".
func (d *Data) SetFilter(expr string) *Data {
	d.filter = expr
	return d
}

// Series returns the collected series.
func (d *Data) Series() vizdata.List {
	return d.series
}

// Build returns {"data": {"series": [...]}}.
func (d *Data) Build() map[string]any {
	data := map[string]any{}
	if d.series != nil {
		data["series"] = d.series
	}
	return map[string]any{"data": data}
}

// Dump encodes the data animation. A filter is emitted as a raw function so
// the chart library can call it.
func (d *Data) Dump() (string, error) {
	if d.filter == "" {
		return dumpMap(d.Build())
	}
	series, err := json.Marshal(d.series)
	if err != nil {
		return "", fmt.Errorf("encoding series: %w", err)
	}
	if d.series == nil {
		series = []byte("[]")
	}
	return fmt.Sprintf(`{"data": {"series": %s, "filter": %s}}`, series, d.filter), nil
}

// Config is a chart configuration animation, e.g. {"x": "Genres", "y": "Popularity"}.
type Config map[string]any

// Build returns {"config": ...}.
func (c Config) Build() map[string]any {
	return map[string]any{"config": map[string]any(c)}
}

// Dump encodes the config animation.
func (c Config) Dump() (string, error) {
	return dumpMap(c.Build())
}

// Style is a chart style animation.
type Style map[string]any

// Build returns {"style": ...}; a nil style resets the chart style.
func (s Style) Build() map[string]any {
	if s == nil {
		return map[string]any{"style": nil}
	}
	return map[string]any{"style": map[string]any(s)}
}

// Dump encodes the style animation.
func (s Style) Dump() (string, error) {
	return dumpMap(s.Build())
}

// Snapshot restores a state saved by Chart.Store. It cannot be merged.
type Snapshot string

// Dump returns the JavaScript lookup of the stored snapshot.
func (s Snapshot) Dump() (string, error) {
	id, err := json.Marshal(string(s))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("window.chartseries.stored(element, %s)", id), nil
}

// Merger combines mergeable animations into one target.
type Merger struct {
	dict map[string]any
}

// NewMerger returns an empty merger.
func NewMerger() *Merger {
	return &Merger{dict: map[string]any{}}
}

// Merge adds the keys of a to the merged target. Animations that are not
// mergeable, or that repeat a key already merged, are rejected.
func (m *Merger) Merge(a Animation) error {
	ma, ok := a.(Mergeable)
	if !ok {
		return fmt.Errorf("%T cannot be merged with other animations", a)
	}
	built := ma.Build()
	keys := make([]string, 0, len(built))
	for k := range built {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, dup := m.dict[k]; dup {
			return fmt.Errorf("%s is already merged", k)
		}
	}
	for _, k := range keys {
		m.dict[k] = built[k]
	}
	return nil
}

// Build returns the merged target.
func (m *Merger) Build() map[string]any {
	return m.dict
}

// Dump encodes the merged target.
func (m *Merger) Dump() (string, error) {
	return dumpMap(m.dict)
}
