package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
	"github.com/noah-isme/student-roster/pkg/response"
)

type rosterSession interface {
	LoadRoster(ctx context.Context) error
	Status() models.LoadStatus
	Student(id int) (models.Student, error)
	Students() []dto.StudentTab
	SelectStudent(ctx context.Context, id int) error
	SelectSubject(subjectID int) error
	View() dto.RosterView
}

// RosterHandler exposes the roster, selection and subject panel.
type RosterHandler struct {
	session rosterSession
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(session rosterSession) *RosterHandler {
	return &RosterHandler{session: session}
}

// View godoc
// @Summary Current roster screen
// @Description Load status, student tabs, detail panel, subject panel and the open form.
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) View(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.session.View())
}

// Load godoc
// @Summary Load the roster
// @Description Performs the initial load, or retries after a failed one.
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /roster/load [post]
func (h *RosterHandler) Load(c *gin.Context) {
	if err := h.session.LoadRoster(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.session.View())
}

// Students godoc
// @Summary List student tabs
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students [get]
func (h *RosterHandler) Students(c *gin.Context) {
	if h.session.Status() != models.LoadStatusReady {
		response.Error(c, appErrors.ErrRosterUnavailable)
		return
	}
	tabs := h.session.Students()
	response.JSON(c, http.StatusOK, tabs, map[string]interface{}{"total": len(tabs)})
}

// Student godoc
// @Summary Get a student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *RosterHandler) Student(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.session.Student(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// SelectStudent godoc
// @Summary Select a student
// @Description Clears the subject selection and closes the edit form when the student changes.
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/select [post]
func (h *RosterHandler) SelectStudent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.session.SelectStudent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.session.View())
}

// SelectSubject godoc
// @Summary Expand a subject
// @Description Only active subjects of the selected student can be selected.
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /subjects/{id}/select [post]
func (h *RosterHandler) SelectSubject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.session.SelectSubject(id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.session.View())
}

func pathID(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}
