package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "", want: FormatTable},
		{input: "JSON", want: FormatJSON},
		{input: "yaml", want: FormatYAML},
		{input: "yml", want: FormatYAML},
		{input: "  table  ", want: FormatTable},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableData("Stage", "Status")
	table.AddRow("write", "succeeded")
	table.AddRow("read", "skipped")

	require.NoError(t, NewPrinter(&buf, FormatTable).Print(table))

	out := buf.String()
	assert.Contains(t, out, "STAGE")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "write")
	assert.Contains(t, out, "skipped")
}

func TestPrinter_TableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).Print(sample{Name: "a", Count: 1}))
	assert.JSONEq(t, `{"name":"a","count":1}`, buf.String())
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).Print([]sample{{Name: "a", Count: 2}}))
	assert.JSONEq(t, `[{"name":"a","count":2}]`, buf.String())
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatYAML).Print(sample{Name: "b", Count: 3}))
	assert.Equal(t, "name: b\ncount: 3\n", buf.String())
}

func TestPrinter_StatusLinesWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	p.Success("ok")
	p.Warning("careful")
	p.Error("failed")

	assert.Equal(t, "ok\ncareful\nfailed\n", buf.String())
}

func TestKeyValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KeyValue(&buf, [][2]string{{"Port", "3000"}, {"Level", "INFO"}}))

	out := buf.String()
	assert.Contains(t, out, "Port")
	assert.Contains(t, out, "3000")
	assert.Contains(t, out, "Level")
}
