package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Headers: []string{"ID", "Title"},
		Rows: []map[string]string{
			{"ID": "1", "Title": "קול קורא לרזידנסי"},
			{"ID": "2", "Title": "Open call, with comma"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(payload, utf8BOM))

	body := string(bytes.TrimPrefix(payload, utf8BOM))
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Title", lines[0])
	assert.Equal(t, "1,קול קורא לרזידנסי", lines[1])
	assert.Equal(t, `2,"Open call, with comma"`, lines[2])
}

func TestCSVExporterMissingCellsRenderEmpty(t *testing.T) {
	table := Table{
		Headers: []string{"ID", "Deadline"},
		Rows:    []map[string]string{{"ID": "1"}},
	}
	payload, err := NewCSVExporter().Render(table)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "1,\n")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleTable(), "Open Calls")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Table{}, "")
	assert.Error(t, err)
}
