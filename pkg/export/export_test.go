package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:   "Transcript - Ahri",
		Summary: []string{"Region: Ionia"},
		Data: Dataset{
			Headers: []string{"Subject", "Grade"},
			Rows: []map[string]string{
				{"Subject": "Magia Arcana", "Grade": "9.5"},
				{"Subject": "História de Runeterra"},
			},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "Subject,Grade\nMagia Arcana,9.5\nHistória de Runeterra,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exp := NewPDFExporter("student-roster")
	out, err := exp.Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", exp.ContentType())
	assert.Equal(t, "pdf", exp.Extension())
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter("").Render(Document{Title: "empty"})
	assert.Error(t, err)
}
