package io_test

import (
	"bytes"
	"testing"

	"github.com/paveg/chartseries/internal/io"
	"github.com/paveg/chartseries/internal/vizdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesWriter(t *testing.T) {
	list := vizdata.List{
		vizdata.NewMeasure(vizdata.Position(0), []float64{1, 2, 0}),
		vizdata.NewDimension(vizdata.Label("color"), []string{"red", "", "blue"}),
	}

	var buf bytes.Buffer
	require.NoError(t, io.NewSeriesWriter(&buf, "").Write(list))
	assert.JSONEq(t, `{"series":[
		{"name":0,"values":[1,2,0],"type":"measure"},
		{"name":"color","values":["red","","blue"],"type":"dimension"}
	]}`, buf.String())

	decoded, err := io.ReadSeries(&buf)
	require.NoError(t, err)
	assert.Equal(t, list.Names(), decoded.Names())
}

func TestSeriesWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, io.NewSeriesWriter(&buf, "  ").Write(nil))
	assert.JSONEq(t, `{"series":[]}`, buf.String())
}
