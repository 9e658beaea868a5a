package chart

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/paveg/chartseries/internal/vizdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%05d", n)
	}
}

func TestParseDisplayTarget(t *testing.T) {
	for _, s := range []string{"begin", "actual", "end", "manual"} {
		target, err := ParseDisplayTarget(s)
		require.NoError(t, err)
		assert.Equal(t, DisplayTarget(s), target)
	}
	_, err := ParseDisplayTarget("middle")
	assert.Error(t, err)
}

func TestNewChartID(t *testing.T) {
	c := New(DisplayActual)
	assert.Len(t, c.ID(), 7)
	assert.NotEqual(t, c.ID(), New(DisplayActual).ID())
}

func TestAnimate(t *testing.T) {
	c := New(DisplayEnd, WithIDGenerator(sequentialIDs()))
	c.SetScrollIntoView(true)

	data := NewData().AddSeries(vizdata.NewDimension(vizdata.Label("Genres"), []string{"Pop", "Rock"}))
	require.NoError(t, c.Animate(map[string]any{"duration": 1}, data))

	calls := c.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t,
		`window.chartseries.animate(element, 'id00001', 'end', true, lib => { return `+
			`{"data":{"series":[{"name":"Genres","values":["Pop","Rock"],"type":"dimension"}]}} }, {"duration":1});`,
		calls[0])
}

func TestAnimate_MergesAndRejects(t *testing.T) {
	c := New(DisplayActual, WithIDGenerator(sequentialIDs()))

	require.NoError(t, c.Animate(nil, Config{"x": "Genres"}, Style{"title": map[string]any{"fontSize": 20}}))
	assert.Contains(t, c.Calls()[0], `{"config":{"x":"Genres"},"style":{"title":{"fontSize":20}}}`)
	assert.Contains(t, c.Calls()[0], "}, undefined);")

	err := c.Animate(nil, Config{"x": "a"}, Config{"y": "b"})
	assert.ErrorContains(t, err, "config is already merged")

	err = c.Animate(nil, Config{}, Snapshot("abc"))
	assert.ErrorContains(t, err, "cannot be merged")

	assert.ErrorIs(t, c.Animate(nil), ErrNoAnimation)
	assert.Len(t, c.Calls(), 1)
}

func TestDataFilter(t *testing.T) {
	d := NewData().SetFilter("record => record.Genres != 'Pop'")
	out, err := d.Dump()
	require.NoError(t, err)
	assert.Equal(t, `{"data": {"series": [], "filter": record => record.Genres != 'Pop'}}`, out)
}

func TestStyleReset(t *testing.T) {
	out, err := Style(nil).Dump()
	require.NoError(t, err)
	assert.Equal(t, `{"style":null}`, out)
}

func TestFeatureAndStore(t *testing.T) {
	c := New(DisplayActual, WithIDGenerator(sequentialIDs()))

	require.NoError(t, c.Feature("tooltip", true))
	snapshot, err := c.Store()
	require.NoError(t, err)
	assert.Equal(t, "id00002", snapshot)

	require.NoError(t, c.Animate(nil, Snapshot(snapshot)))

	calls := c.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, `window.chartseries.feature(element, 'id00001', "tooltip", true);`, calls[0])
	assert.Equal(t, `window.chartseries.store(element, 'id00001', "id00002");`, calls[1])
	assert.Contains(t, calls[2], `window.chartseries.stored(element, "id00002")`)
}

func TestShowOnce(t *testing.T) {
	c := New(DisplayManual, WithIDGenerator(sequentialIDs()))
	require.NoError(t, c.Feature("logging", false))

	var buf bytes.Buffer
	require.NoError(t, c.Show(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "<script>\n"))
	assert.Contains(t, buf.String(), "feature(element, 'id00001', \"logging\", false)")

	assert.ErrorIs(t, c.Show(&buf), ErrAlreadyShown)
	assert.ErrorIs(t, c.Feature("tooltip", true), ErrAlreadyShown)
	_, err := c.Store()
	assert.ErrorIs(t, err, ErrAlreadyShown)
	assert.ErrorIs(t, c.Animate(nil, Config{}), ErrAlreadyShown)
}

func TestCustomTemplates(t *testing.T) {
	c := New(DisplayBegin,
		WithIDGenerator(sequentialIDs()),
		WithTemplates(Templates{Feature: "f({chart_id},{name},{enabled})"}),
		WithScrollIntoView(true),
	)
	assert.True(t, c.ScrollIntoView())
	require.NoError(t, c.Feature("x", true))
	assert.Equal(t, []string{`f(id00001,"x",true)`}, c.Calls())
}
