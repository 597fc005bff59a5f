package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelang/vibe/errors"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name   string
		format string
		title  string
		want   string
	}{
		{"json", FormatJSON, "ignored", "{\n  \"name\": \"cap\",\n  \"count\": 2\n}\n"},
		{"yaml with title", FormatYAML, "Vibe catalog", "# Vibe catalog\nname: cap\ncount: 2\n"},
		{"yaml without title", FormatYAML, "", "name: cap\ncount: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.format, tt.title, sample{Name: "cap", Count: 2}))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "xml", "", sample{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, errors.FlattenHints(err), "json, yaml")
	assert.Empty(t, buf.String())
}

func TestUnsupportedFormatHint(t *testing.T) {
	err := UnsupportedFormat("csv", FormatTable, FormatJSON)
	assert.Equal(t, "supported formats: table, json", errors.FlattenHints(err))
}
