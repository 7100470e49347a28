package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
)

type formMetrics interface {
	IncValidationFailure()
}

// RosterSession ties the edit form to the controller's selection and edit mode.
// It is the single entry point used by the HTTP handlers and the terminal viewer.
type RosterSession struct {
	controller *RosterController
	form       *StudentForm
	metrics    formMetrics
	logger     *zap.Logger
}

// SessionOption customises a RosterSession.
type SessionOption func(*RosterSession)

// WithSessionMetrics counts rejected submissions.
func WithSessionMetrics(m formMetrics) SessionOption {
	return func(s *RosterSession) {
		s.metrics = m
	}
}

// NewRosterSession constructs a session over controller and form.
func NewRosterSession(controller *RosterController, form *StudentForm, logger *zap.Logger, opts ...SessionOption) *RosterSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RosterSession{controller: controller, form: form, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadRoster performs the initial load or a retry after failure.
func (s *RosterSession) LoadRoster(ctx context.Context) error {
	return s.controller.LoadRoster(ctx)
}

// Status returns the roster load status.
func (s *RosterSession) Status() models.LoadStatus {
	return s.controller.Status()
}

// Student returns a copy of one roster entry.
func (s *RosterSession) Student(id int) (models.Student, error) {
	return s.controller.Student(id)
}

// SelectStudent switches the selected student. Leaving the student discards any open form.
func (s *RosterSession) SelectStudent(ctx context.Context, id int) error {
	if err := s.controller.SelectStudent(ctx, id); err != nil {
		return err
	}
	if !s.controller.Editing() {
		s.form.Cancel()
	}
	return nil
}

// SelectSubject expands one of the selected student's active subjects.
func (s *RosterSession) SelectSubject(subjectID int) error {
	student, ok := s.controller.SelectedStudent()
	if !ok {
		return appErrors.ErrNoStudentSelected
	}
	subject, found := student.FindSubject(subjectID)
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("subject %d not found for student %d", subjectID, student.ID))
	}
	if !IsSelectable(subject) {
		return appErrors.ErrSubjectNotSelectable
	}
	return s.controller.SelectSubject(subjectID)
}

// OpenEdit enters edit mode and binds the form to the selected student.
func (s *RosterSession) OpenEdit() (dto.StudentForm, error) {
	if err := s.controller.OpenEdit(); err != nil {
		return dto.StudentForm{}, err
	}
	student, ok := s.controller.SelectedStudent()
	if !ok {
		s.controller.CloseEdit()
		return dto.StudentForm{}, appErrors.ErrNoStudentSelected
	}
	if s.form.Bind(student) {
		s.logger.Debug("edit form seeded", zap.Int("student_id", student.ID))
	}
	return s.form.View(), nil
}

// Form returns the open form.
func (s *RosterSession) Form() (dto.StudentForm, error) {
	if !s.editing() {
		return dto.StudentForm{}, appErrors.ErrNotEditing
	}
	return s.form.View(), nil
}

// UpdateFields applies draft edits in field-name order. Every field is attempted; rejected
// fields are reported together in the error details.
func (s *RosterSession) UpdateFields(fields map[string]string) (dto.StudentForm, error) {
	if !s.editing() {
		return dto.StudentForm{}, appErrors.ErrNotEditing
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rejected := make(map[string]string)
	for _, k := range keys {
		err := s.form.SetField(k, fields[k])
		if err == nil {
			continue
		}
		appErr := appErrors.FromError(err)
		details, ok := appErr.Details.(map[string]string)
		if !ok {
			return dto.StudentForm{}, err
		}
		for field, msg := range details {
			rejected[field] = msg
		}
	}
	if len(rejected) > 0 {
		return s.form.View(), appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid field values"), rejected)
	}
	return s.form.View(), nil
}

// SubmitEdit validates and saves the draft, then commits it to the roster and closes the form.
// Once started the save runs to completion even if ctx is cancelled.
func (s *RosterSession) SubmitEdit(ctx context.Context) (models.Student, error) {
	if !s.editing() {
		return models.Student{}, appErrors.ErrNotEditing
	}

	ctx = context.WithoutCancel(ctx)
	var committed models.Student
	err := s.form.Submit(ctx, func(draft models.Student) error {
		if err := s.controller.CommitStudent(ctx, draft); err != nil {
			return err
		}
		committed = draft
		return nil
	})
	if err != nil {
		if errors.Is(err, appErrors.ErrValidation) && s.metrics != nil {
			s.metrics.IncValidationFailure()
		}
		return models.Student{}, err
	}

	s.form.Cancel()
	return committed, nil
}

// CancelEdit discards the draft and leaves edit mode. Nothing is committed.
func (s *RosterSession) CancelEdit() {
	s.form.Cancel()
	s.controller.CloseEdit()
}

// Students returns the selector tabs in roster order.
func (s *RosterSession) Students() []dto.StudentTab {
	return buildTabs(s.controller.Snapshot())
}

// View renders the whole screen from one consistent snapshot.
func (s *RosterSession) View() dto.RosterView {
	state := s.controller.Snapshot()
	view := dto.RosterView{
		Status:            state.Status,
		LastError:         state.LastError,
		Students:          buildTabs(state),
		SelectedSubjectID: state.SelectedSubjectID,
		Editing:           state.Editing,
	}
	if student, ok := state.SelectedStudent(); ok {
		detail := BuildStudentDetail(student)
		panel := BuildSubjectPanel(student.Subjects, state.SelectedSubjectID)
		view.Detail = &detail
		view.Subjects = &panel
	}
	if state.Editing && s.form.Bound() {
		form := s.form.View()
		view.Form = &form
	}
	return view
}

func (s *RosterSession) editing() bool {
	return s.controller.Editing() && s.form.Bound()
}

func buildTabs(state models.RosterState) []dto.StudentTab {
	tabs := make([]dto.StudentTab, 0, len(state.Roster))
	for _, student := range state.Roster {
		tabs = append(tabs, dto.StudentTab{
			ID:       student.ID,
			Name:     student.Name,
			Selected: state.SelectedStudentID != nil && *state.SelectedStudentID == student.ID,
		})
	}
	return tabs
}
