package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-roster/internal/models"
	"github.com/noah-isme/student-roster/internal/service"
	"github.com/noah-isme/student-roster/pkg/response"
)

type studentLookup interface {
	Student(id int) (models.Student, error)
}

type transcriptRenderer interface {
	Transcript(student models.Student, format string) (*service.Transcript, error)
}

// TranscriptHandler streams student transcripts.
type TranscriptHandler struct {
	students studentLookup
	exports  transcriptRenderer
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(students studentLookup, exports transcriptRenderer) *TranscriptHandler {
	return &TranscriptHandler{students: students, exports: exports}
}

// Download godoc
// @Summary Download a transcript
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *TranscriptHandler) Download(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Student(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	transcript, err := h.exports.Transcript(student, c.DefaultQuery("format", service.TranscriptFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, transcript.Filename, transcript.ContentType, transcript.Body)
}
