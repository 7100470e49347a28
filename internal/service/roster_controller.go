package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/models"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
)

// RosterSource supplies the initial roster.
type RosterSource interface {
	LoadStudents(ctx context.Context) ([]models.Student, error)
}

// StudentObserver is notified after selected-student changes and commits.
// Implementations must return promptly; the controller does not wait for delivery.
type StudentObserver interface {
	StudentChanged(ctx context.Context, event models.StudentEvent)
}

// rosterMetrics is the subset of MetricsService the controller reports to.
type rosterMetrics interface {
	ObserveRosterLoad(status models.LoadStatus, duration time.Duration)
	IncStudentCommit()
}

// RosterController owns the authoritative roster and the selection and editing state.
// All mutation goes through its methods; readers get deep-copied snapshots.
type RosterController struct {
	source    RosterSource
	observers []StudentObserver
	metrics   rosterMetrics
	logger    *zap.Logger
	now       func() time.Time

	mu                sync.RWMutex
	status            models.LoadStatus
	lastErr           error
	roster            []models.Student
	selectedStudentID *int
	selectedSubjectID *int
	editing           bool
}

// ControllerOption customises a RosterController.
type ControllerOption func(*RosterController)

// WithObservers registers observers notified of student events.
func WithObservers(observers ...StudentObserver) ControllerOption {
	return func(c *RosterController) {
		c.observers = append(c.observers, observers...)
	}
}

// WithControllerMetrics reports loads and commits to metrics.
func WithControllerMetrics(m rosterMetrics) ControllerOption {
	return func(c *RosterController) {
		c.metrics = m
	}
}

// NewRosterController constructs a controller in the idle state.
func NewRosterController(source RosterSource, logger *zap.Logger, opts ...ControllerOption) *RosterController {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &RosterController{
		source: source,
		logger: logger,
		now:    time.Now,
		status: models.LoadStatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadRoster fetches the roster once and selects its first student. It may be called again
// only after a failure, as an explicit retry.
func (c *RosterController) LoadRoster(ctx context.Context) error {
	c.mu.Lock()
	switch c.status {
	case models.LoadStatusLoading:
		c.mu.Unlock()
		return appErrors.ErrLoadInProgress
	case models.LoadStatusReady:
		c.mu.Unlock()
		return appErrors.ErrAlreadyLoaded
	}
	c.status = models.LoadStatusLoading
	c.lastErr = nil
	c.mu.Unlock()

	start := time.Now()
	students, err := c.source.LoadStudents(ctx)
	if err == nil && len(students) == 0 {
		err = appErrors.ErrEmptyRoster
	}

	c.mu.Lock()
	if err != nil {
		c.status = models.LoadStatusFailed
		c.lastErr = err
		c.mu.Unlock()
		c.observeLoad(models.LoadStatusFailed, time.Since(start))
		c.logger.Error("roster load failed", zap.Error(err))
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrRosterUnavailable.Code, appErrors.ErrRosterUnavailable.Status, "failed to load roster")
	}
	c.roster = models.CloneStudents(students)
	first := c.roster[0].ID
	c.selectedStudentID = &first
	c.selectedSubjectID = nil
	c.editing = false
	c.status = models.LoadStatusReady
	selected := c.roster[0].Clone()
	c.mu.Unlock()

	c.observeLoad(models.LoadStatusReady, time.Since(start))
	c.logger.Info("roster loaded", zap.Int("students", len(students)), zap.Int("selected_student_id", first))
	c.notify(ctx, models.EventStudentSelected, selected)
	return nil
}

// SelectStudent makes id the selected student, clearing the subject selection and edit mode.
// Selecting the already selected student changes nothing.
func (c *RosterController) SelectStudent(ctx context.Context, id int) error {
	c.mu.Lock()
	if c.status != models.LoadStatusReady {
		c.mu.Unlock()
		return appErrors.ErrRosterUnavailable
	}
	if c.selectedStudentID != nil && *c.selectedStudentID == id {
		c.mu.Unlock()
		return nil
	}
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", id))
	}
	selectedID := id
	c.selectedStudentID = &selectedID
	c.selectedSubjectID = nil
	c.editing = false
	selected := c.roster[idx].Clone()
	c.mu.Unlock()

	c.notify(ctx, models.EventStudentSelected, selected)
	return nil
}

// SelectSubject records the selected subject. Membership in the selected student's list is the
// caller's responsibility.
func (c *RosterController) SelectSubject(subjectID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedStudentID == nil {
		return appErrors.ErrNoStudentSelected
	}
	id := subjectID
	c.selectedSubjectID = &id
	return nil
}

// OpenEdit enters edit mode. Without a selected student it has no effect.
func (c *RosterController) OpenEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedStudentID == nil {
		return appErrors.ErrNoStudentSelected
	}
	c.editing = true
	return nil
}

// CloseEdit leaves edit mode.
func (c *RosterController) CloseEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = false
}

// CommitStudent replaces the roster entry with updated's id, selects it and leaves edit mode.
// An id not in the roster leaves the state untouched and returns a not-found error.
func (c *RosterController) CommitStudent(ctx context.Context, updated models.Student) error {
	c.mu.Lock()
	idx := c.indexOf(updated.ID)
	if idx < 0 {
		c.mu.Unlock()
		c.logger.Warn("commit for unknown student dropped", zap.Int("student_id", updated.ID))
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", updated.ID))
	}
	c.roster[idx] = updated.Clone()
	changedSelection := c.selectedStudentID == nil || *c.selectedStudentID != updated.ID
	id := updated.ID
	c.selectedStudentID = &id
	if changedSelection {
		c.selectedSubjectID = nil
	}
	c.editing = false
	committed := updated.Clone()
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncStudentCommit()
	}
	c.logger.Info("student committed", zap.Int("student_id", committed.ID))
	c.notify(ctx, models.EventStudentCommitted, committed)
	c.notify(ctx, models.EventStudentSelected, committed)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (c *RosterController) Snapshot() models.RosterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := models.RosterState{
		Status:            c.status,
		Roster:            models.CloneStudents(c.roster),
		SelectedStudentID: copyID(c.selectedStudentID),
		SelectedSubjectID: copyID(c.selectedSubjectID),
		Editing:           c.editing,
	}
	if c.lastErr != nil {
		state.LastError = c.lastErr.Error()
	}
	return state
}

// SelectedStudent returns a copy of the selected student.
func (c *RosterController) SelectedStudent() (models.Student, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedStudentID == nil {
		return models.Student{}, false
	}
	idx := c.indexOf(*c.selectedStudentID)
	if idx < 0 {
		return models.Student{}, false
	}
	return c.roster[idx].Clone(), true
}

// Student returns a copy of the roster entry with id.
func (c *RosterController) Student(id int) (models.Student, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.status != models.LoadStatusReady {
		return models.Student{}, appErrors.ErrRosterUnavailable
	}
	idx := c.indexOf(id)
	if idx < 0 {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", id))
	}
	return c.roster[idx].Clone(), nil
}

// Status returns the load status.
func (c *RosterController) Status() models.LoadStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Editing reports whether edit mode is on.
func (c *RosterController) Editing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editing
}

func (c *RosterController) indexOf(id int) int {
	for i, s := range c.roster {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *RosterController) notify(ctx context.Context, kind models.EventKind, student models.Student) {
	if len(c.observers) == 0 {
		return
	}
	event := models.StudentEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Student:    student,
		OccurredAt: c.now().UTC(),
	}
	for _, o := range c.observers {
		o.StudentChanged(ctx, event)
	}
}

func (c *RosterController) observeLoad(status models.LoadStatus, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveRosterLoad(status, d)
	}
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
