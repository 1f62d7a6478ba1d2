package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Item", "Current", "Minimum"},
		Rows: []map[string]string{
			{"Item": "Fries", "Current": "5", "Minimum": "20"},
			{"Item": "Buns", "Current": "0", "Minimum": "10"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Item,Current,Minimum", lines[0])
	assert.Equal(t, "Fries,5,20", lines[1])
}

func TestCSVRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Day", "Employee", "Shift"},
		Rows: []map[string]string{
			{"Day": "mon", "Employee": "Alice", "Shift": "Morning 09:00-13:00"},
		},
	}

	out, err := exporter.Render(data, "Week of 2024-01-01")
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}
