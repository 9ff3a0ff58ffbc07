package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfam/simulator/output"
)

func sampleTable() *output.Table {
	t := output.NewTable(2)
	t.Append([]output.Cell{1, 2})
	t.Append([]output.Cell{1, 1})
	return t
}

func TestRowsTransposesColumns(t *testing.T) {
	table := sampleTable()
	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []output.Cell{1, 1}, rows[0])
	assert.Equal(t, []output.Cell{2, 1}, rows[1])
}

func TestAppendPanicsOnSizeMismatch(t *testing.T) {
	table := output.NewTable(2)
	assert.Panics(t, func() { table.Append([]output.Cell{1}) })
}

func TestCSVWriterProducesHeaderPlusRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.CSVWriter{}.WriteTable(&buf, sampleTable()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "round_0,round_1", lines[0])
}

func TestJSONWriterWideMode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.JSONWriter{}.WriteTable(&buf, sampleTable()))
	assert.Contains(t, buf.String(), `"rows"`)
}

func TestJSONWriterLongModeOneRecordPerCell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.JSONWriter{Long: true}.WriteTable(&buf, sampleTable()))
	assert.Contains(t, buf.String(), `"id":0`)
	assert.Contains(t, buf.String(), `"round":1`)
}
