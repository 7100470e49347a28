package service

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/pkg/export"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
	"github.com/noah-isme/student-roster/pkg/storage"
)

func newTestExportService(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(store, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }
	return svc, store
}

func TestTranscriptCSV(t *testing.T) {
	svc, _ := newTestExportService(t)
	transcript, err := svc.Transcript(fixtureRoster()[0], "CSV")
	require.NoError(t, err)

	assert.Equal(t, "text/csv", transcript.ContentType)
	assert.Equal(t, "transcript_1_ahri_20240501_083000.csv", transcript.Filename)
	lines := strings.Split(strings.TrimSpace(string(transcript.Body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Subject,Professor,Status,Grade,Quality", lines[0])
	assert.Equal(t, "Magia Arcana,Ryze,active,9.5,Excellent", lines[1])
	assert.Equal(t, "Controle de Energia,Syndra,active,8.8,Good", lines[2])
	assert.Equal(t, "História de Runeterra,Zilean,completed,9.2,Excellent", lines[3])
}

func TestTranscriptDefaultsToCSV(t *testing.T) {
	svc, _ := newTestExportService(t)
	transcript, err := svc.Transcript(fixtureRoster()[1], "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", transcript.ContentType)
}

func TestTranscriptPDF(t *testing.T) {
	svc, _ := newTestExportService(t)
	transcript, err := svc.Transcript(fixtureRoster()[2], TranscriptFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", transcript.ContentType)
	assert.True(t, bytes.HasPrefix(transcript.Body, []byte("%PDF")))
	assert.True(t, strings.HasSuffix(transcript.Filename, ".pdf"))
}

func TestTranscriptUnsupportedFormat(t *testing.T) {
	svc, _ := newTestExportService(t)
	_, err := svc.Transcript(fixtureRoster()[0], "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFormat))
}

func TestSaveTranscriptWritesFile(t *testing.T) {
	svc, _ := newTestExportService(t)
	path, err := svc.SaveTranscript(fixtureRoster()[0], TranscriptFormatCSV)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Subject,Professor"))
}

func TestSaveTranscriptWithoutStorage(t *testing.T) {
	svc := NewExportService(nil, nil, export.NewCSVExporter())
	_, err := svc.SaveTranscript(fixtureRoster()[0], TranscriptFormatCSV)
	assert.Error(t, err)
	assert.Equal(t, []string{TranscriptFormatCSV}, svc.Formats())
}
