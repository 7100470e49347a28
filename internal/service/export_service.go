package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/models"
	"github.com/noah-isme/student-roster/pkg/export"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
)

// Transcript formats.
const (
	TranscriptFormatCSV = "csv"
	TranscriptFormatPDF = "pdf"
)

var transcriptHeaders = []string{"Subject", "Professor", "Status", "Grade", "Quality"}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

// Transcript is a rendered transcript ready to be served or written.
type Transcript struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders student transcripts.
type ExportService struct {
	renderers map[string]export.Renderer
	storage   fileStorage
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers. storage may be nil
// when transcripts are only streamed.
func NewExportService(storage fileStorage, logger *zap.Logger, renderers ...export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(renderers) == 0 {
		renderers = []export.Renderer{export.NewCSVExporter(), export.NewPDFExporter("Student Roster")}
	}
	byFormat := make(map[string]export.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Extension()] = r
	}
	return &ExportService{
		renderers: byFormat,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// Transcript renders student's subjects in the requested format.
func (s *ExportService) Transcript(student models.Student, format string) (*Transcript, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = TranscriptFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	body, err := renderer.Render(buildTranscriptDocument(student))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}
	s.logger.Debug("transcript rendered", zap.Int("student_id", student.ID), zap.String("format", format), zap.Int("bytes", len(body)))

	return &Transcript{
		Filename:    transcriptFilename(student, renderer.Extension(), s.now()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// SaveTranscript renders and writes a transcript to storage, returning the file path.
func (s *ExportService) SaveTranscript(student models.Student, format string) (string, error) {
	if s.storage == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "transcript storage not configured")
	}
	transcript, err := s.Transcript(student, format)
	if err != nil {
		return "", err
	}
	rel, err := s.storage.Save(transcript.Filename, transcript.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store transcript")
	}
	s.logger.Info("transcript saved", zap.Int("student_id", student.ID), zap.String("file", rel))
	return s.storage.Path(rel), nil
}

// Formats lists the supported transcript formats.
func (s *ExportService) Formats() []string {
	formats := make([]string, 0, len(s.renderers))
	for _, f := range []string{TranscriptFormatCSV, TranscriptFormatPDF} {
		if _, ok := s.renderers[f]; ok {
			formats = append(formats, f)
		}
	}
	return formats
}

func buildTranscriptDocument(student models.Student) export.Document {
	active, completed := PartitionSubjects(student.Subjects)
	rows := make([]map[string]string, 0, len(student.Subjects))
	for _, subject := range append(active, completed...) {
		rows = append(rows, map[string]string{
			"Subject":   subject.Name,
			"Professor": subject.Professor,
			"Status":    string(subject.Status),
			"Grade":     fmt.Sprintf("%.1f", subject.Grade),
			"Quality":   ClassifyGrade(subject.Grade).Label,
		})
	}
	return export.Document{
		Title: fmt.Sprintf("Transcript %s", student.Name),
		Summary: []string{
			fmt.Sprintf("Email: %s", student.Email),
			fmt.Sprintf("Role: %s  Region: %s", student.Role, student.Region),
			fmt.Sprintf("Enrolled: %s", student.EnrollmentDate),
			fmt.Sprintf("Active subjects: %d  Completed subjects: %d", len(active), len(completed)),
		},
		Data: export.Dataset{Headers: transcriptHeaders, Rows: rows},
	}
}

func transcriptFilename(student models.Student, ext string, at time.Time) string {
	return fmt.Sprintf("transcript_%d_%s_%s.%s", student.ID, sanitizeFilename(strings.ToLower(student.Name)), at.UTC().Format("20060102_150405"), ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
