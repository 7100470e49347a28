package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
	"github.com/noah-isme/student-roster/internal/service"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
	"github.com/noah-isme/student-roster/pkg/response"
)

type editSession interface {
	OpenEdit() (dto.StudentForm, error)
	Form() (dto.StudentForm, error)
	UpdateFields(fields map[string]string) (dto.StudentForm, error)
	SubmitEdit(ctx context.Context) (models.Student, error)
	CancelEdit()
}

// EditHandler drives the student edit form.
type EditHandler struct {
	session editSession
}

// NewEditHandler constructs EditHandler.
func NewEditHandler(session editSession) *EditHandler {
	return &EditHandler{session: session}
}

// Options godoc
// @Summary Region and role choices
// @Tags Edit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /form/options [get]
func (h *EditHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, service.FormOptions())
}

// Open godoc
// @Summary Open the edit form
// @Description Binds the form to the selected student. Reopening keeps an unchanged draft.
// @Tags Edit
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /edit [post]
func (h *EditHandler) Open(c *gin.Context) {
	form, err := h.session.OpenEdit()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// Get godoc
// @Summary Current edit form
// @Tags Edit
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /edit [get]
func (h *EditHandler) Get(c *gin.Context) {
	form, err := h.session.Form()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// Update godoc
// @Summary Edit draft fields
// @Description Overwrites draft fields and clears their errors. Rejected fields are listed in error details.
// @Tags Edit
// @Accept json
// @Produce json
// @Param payload body dto.UpdateFieldsRequest true "Field values keyed by name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /edit [patch]
func (h *EditHandler) Update(c *gin.Context) {
	var req dto.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	form, err := h.session.UpdateFields(req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// Submit godoc
// @Summary Submit the edit form
// @Description Validates the draft, waits for the save and commits the student to the roster.
// @Tags Edit
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /edit/submit [post]
func (h *EditHandler) Submit(c *gin.Context) {
	student, err := h.session.SubmitEdit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Cancel godoc
// @Summary Cancel editing
// @Description Discards the draft. Nothing is committed.
// @Tags Edit
// @Success 204
// @Router /edit [delete]
func (h *EditHandler) Cancel(c *gin.Context) {
	h.session.CancelEdit()
	response.NoContent(c)
}
