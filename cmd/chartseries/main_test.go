package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/chartseries/internal/config"
	csio "github.com/paveg/chartseries/internal/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	original := config.GetGlobalConfig()
	t.Cleanup(func() { config.SetGlobalConfig(original) })

	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_JSON(t *testing.T) {
	input := writeFile(t, "prices.csv", "id,price,color\na,10,red\nb,,\nc,30,blue\n")

	stdout, _, err := runCLI(t, "-input", input, "-index", "id", "-default-dimension", "n/a")
	require.NoError(t, err)

	list, err := csio.ReadSeries(bytes.NewBufferString(stdout))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"id", "price", "color"}, list.Names())
	assert.Equal(t, []string{"a", "b", "c"}, list[0].Dimensions)
	assert.Equal(t, []float64{10, 0, 30}, list[1].Measures)
	assert.Equal(t, []string{"red", "n/a", "blue"}, list[2].Dimensions)
}

func TestRun_HTML(t *testing.T) {
	input := writeFile(t, "values.csv", "value\n1\n2\n")

	stdout, _, err := runCLI(t, "-input", input, "-html")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<script>")
	assert.Contains(t, stdout, "window.chartseries.animate(")
	assert.Contains(t, stdout, `"name":"value"`)
}

func TestRun_ConfigFileAndVerbose(t *testing.T) {
	input := writeFile(t, "values.csv", "value,tag\n1,x\n,y\n3,z\n")
	cfgPath := writeFile(t, "config.yaml", "default_measure_value: -1\nmetrics_collection: true\n")

	stdout, stderr, err := runCLI(t, "-input", input, "-config", cfgPath, "-verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "-1")
	assert.Contains(t, stderr, "converted table")
	assert.Contains(t, stderr, "conversion metrics")

	_, _, err = runCLI(t, "-input", input, "-default-measure", "-2")
	require.NoError(t, err)
}

func TestRun_EnvUnderConfigFile(t *testing.T) {
	t.Setenv(config.EnvDefaultDimension, "from-env")
	t.Setenv(config.EnvDefaultMeasure, "7")
	input := writeFile(t, "values.csv", "value,tag\n1,x\n,\n3,z\n")
	cfgPath := writeFile(t, "config.yaml", "metrics_collection: true\ndefault_measure_value: -1\n")

	stdout, _, err := runCLI(t, "-input", input, "-config", cfgPath)
	require.NoError(t, err)

	list, err := csio.ReadSeries(bytes.NewBufferString(stdout))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []float64{1, -1, 3}, list[0].Measures)
	assert.Equal(t, []string{"x", "from-env", "z"}, list[1].Dimensions)
}

func TestRun_ParquetOutput(t *testing.T) {
	input := writeFile(t, "prices.csv", "id,price,color\na,10,red\nb,,\nc,30,blue\n")
	output := filepath.Join(t.TempDir(), "prices.parquet")

	csvOut, _, err := runCLI(t, "-input", input, "-index", "id", "-output", output, "-compression", "zstd")
	require.NoError(t, err)

	df, err := csio.ReadFile(output, memory.NewGoAllocator())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "price", "color"}, df.Columns())
	assert.Equal(t, 3, df.Len())
	df.Release()

	parquetOut, _, err := runCLI(t, "-input", output, "-index", "id")
	require.NoError(t, err)
	assert.JSONEq(t, csvOut, parquetOut)

	_, _, err = runCLI(t, "-input", input, "-output", output, "-compression", "nope")
	assert.ErrorContains(t, err, "unsupported parquet compression")
}

func TestRun_Errors(t *testing.T) {
	_, stderr, err := runCLI(t)
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "Usage: chartseries")

	_, _, err = runCLI(t, "-input", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	input := writeFile(t, "values.csv", "value\n1\n")
	_, _, err = runCLI(t, "-input", input, "-index", "nope")
	require.Error(t, err)

	badCfg := writeFile(t, "config.json", `{"display_target": "sideways"}`)
	_, _, err = runCLI(t, "-input", input, "-config", badCfg)
	require.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "chartseries")
}
