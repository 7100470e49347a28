package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
)

// FormState is the state of the edit form.
type FormState string

const (
	FormStateEditing    FormState = "editing"
	FormStateSubmitting FormState = "submitting"
)

// Editable draft fields.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldRole           = "role"
	FieldRegion         = "region"
	FieldAvatar         = "avatar"
	FieldEnrollmentDate = "enrollmentDate"
)

// SaveFunc performs the save step of a submission. It receives the validated draft.
type SaveFunc func(ctx context.Context, draft models.Student) error

// SimulatedSave waits for delay, standing in for the network round trip of a real save.
func SimulatedSave(delay time.Duration) SaveFunc {
	return func(ctx context.Context, _ models.Student) error {
		if delay <= 0 {
			return nil
		}
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// StudentForm is a validated editor over a private draft of one student.
// Subjects are carried through the draft untouched.
type StudentForm struct {
	mu        sync.Mutex
	validator *FormValidator
	save      SaveFunc
	logger    *zap.Logger

	bound  *models.Student
	draft  models.Student
	errors map[string]string
	state  FormState
}

// NewStudentForm constructs an unbound form.
func NewStudentForm(validator *FormValidator, save SaveFunc, logger *zap.Logger) *StudentForm {
	if save == nil {
		save = SimulatedSave(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentForm{
		validator: validator,
		save:      save,
		logger:    logger,
		errors:    make(map[string]string),
		state:     FormStateEditing,
	}
}

// Bind attaches the form to student. The draft is reseeded, discarding unsaved edits and
// errors, when nothing is bound yet or the incoming record differs from the bound one.
// It reports whether a reseed happened.
func (f *StudentForm) Bind(student models.Student) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bound != nil && f.bound.ID == student.ID && f.bound.Equal(student) {
		return false
	}
	bound := student.Clone()
	f.bound = &bound
	f.draft = student.Clone()
	f.errors = make(map[string]string)
	return true
}

// Bound reports whether a student is attached.
func (f *StudentForm) Bound() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bound != nil
}

// Draft returns a copy of the current draft.
func (f *StudentForm) Draft() models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// Errors returns a copy of the current field errors.
func (f *StudentForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// State returns the current form state.
func (f *StudentForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetField overwrites one draft field and clears that field's error only.
// Region and role are closed choices: the empty value or a listed option.
func (f *StudentForm) SetField(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bound == nil {
		return appErrors.ErrNotEditing
	}

	switch field {
	case FieldName:
		f.draft.Name = value
	case FieldEmail:
		f.draft.Email = value
	case FieldAvatar:
		f.draft.Avatar = value
	case FieldEnrollmentDate:
		f.draft.EnrollmentDate = value
	case FieldRegion:
		if value != "" && !models.IsRegion(value) {
			return invalidOption(field, value)
		}
		f.draft.Region = value
	case FieldRole:
		if value != "" && !models.IsRole(value) {
			return invalidOption(field, value)
		}
		f.draft.Role = value
	default:
		return appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown field %q", field)),
			map[string]string{field: "Unknown field"},
		)
	}
	delete(f.errors, field)
	return nil
}

// Validate runs the submit-time rules against the draft and stores the result.
func (f *StudentForm) Validate() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *StudentForm) validateLocked() (map[string]string, error) {
	errs, err := f.validator.Validate(profileFields{
		Name:   f.draft.Name,
		Email:  f.draft.Email,
		Region: f.draft.Region,
		Role:   f.draft.Role,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student")
	}
	f.errors = errs
	return copyErrors(errs), nil
}

// Submit validates the draft and, when valid, runs the save step and hands the draft to onSave.
// A second Submit while one is running fails with ErrSubmitInProgress.
func (f *StudentForm) Submit(ctx context.Context, onSave func(models.Student) error) error {
	f.mu.Lock()
	if f.bound == nil {
		f.mu.Unlock()
		return appErrors.ErrNotEditing
	}
	if f.state == FormStateSubmitting {
		f.mu.Unlock()
		return appErrors.ErrSubmitInProgress
	}
	errs, err := f.validateLocked()
	if err != nil {
		f.mu.Unlock()
		return err
	}
	if len(errs) > 0 {
		f.mu.Unlock()
		return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid student"), errs)
	}
	f.state = FormStateSubmitting
	draft := f.draft.Clone()
	f.mu.Unlock()

	start := time.Now()
	saveErr := f.save(ctx, draft)

	f.mu.Lock()
	f.state = FormStateEditing
	f.mu.Unlock()

	if saveErr != nil {
		f.logger.Warn("student save failed", zap.Int("student_id", draft.ID), zap.Error(saveErr))
		return appErrors.Wrap(saveErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student")
	}
	f.logger.Debug("student saved", zap.Int("student_id", draft.ID), zap.Duration("latency", time.Since(start)))

	if onSave != nil {
		return onSave(draft)
	}
	return nil
}

// Cancel discards the draft and errors unconditionally and unbinds the form.
func (f *StudentForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = nil
	f.draft = models.Student{}
	f.errors = make(map[string]string)
}

// View renders the form for presentation.
func (f *StudentForm) View() dto.StudentForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dto.StudentForm{
		State:      string(f.state),
		Draft:      f.draft.Clone(),
		Errors:     copyErrors(f.errors),
		Submitting: f.state == FormStateSubmitting,
		Options:    FormOptions(),
	}
}

// FormOptions returns the closed choices offered for region and role.
func FormOptions() dto.FormOptions {
	return dto.FormOptions{
		Regions: append([]string(nil), models.Regions...),
		Roles:   append([]string(nil), models.Roles...),
	}
}

func invalidOption(field, value string) error {
	return appErrors.WithDetails(
		appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a valid %s", value, field)),
		map[string]string{field: "Choose one of the listed options"},
	)
}

func copyErrors(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
