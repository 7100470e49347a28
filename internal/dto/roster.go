package dto

import "github.com/noah-isme/student-roster/internal/models"

// GradeQuality is the label and tier derived from a grade.
type GradeQuality struct {
	Label string `json:"label"`
	Tier  string `json:"tier"`
}

// SubjectCard is one subject as shown in the subject panel.
type SubjectCard struct {
	models.Subject
	Quality    GradeQuality `json:"quality"`
	Selectable bool         `json:"selectable"`
	Expanded   bool         `json:"expanded"`
	// Progress is the grade as a percentage of the maximum, set only on the expanded card.
	Progress *float64 `json:"progress,omitempty"`
}

// SubjectPanel partitions a student's subjects. The active section always renders;
// the completed section renders only when ShowCompleted is set.
type SubjectPanel struct {
	Active         []SubjectCard `json:"active"`
	Completed      []SubjectCard `json:"completed"`
	ActiveCount    int           `json:"activeCount"`
	CompletedCount int           `json:"completedCount"`
	ShowCompleted  bool          `json:"showCompleted"`
}

// StudentDetail is the summary panel for the selected student.
type StudentDetail struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Region         string `json:"region"`
	Avatar         string `json:"avatar"`
	EnrollmentDate string `json:"enrollmentDate"`
	ActiveSubjects int    `json:"activeSubjects"`
	CanEdit        bool   `json:"canEdit"`
}

// StudentTab is one entry of the student selector.
type StudentTab struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// FormOptions lists the closed choices offered by the edit form.
type FormOptions struct {
	Regions []string `json:"regions"`
	Roles   []string `json:"roles"`
}

// StudentForm is the edit form as presented to the user.
type StudentForm struct {
	State      string            `json:"state"`
	Draft      models.Student    `json:"draft"`
	Errors     map[string]string `json:"errors"`
	Submitting bool              `json:"submitting"`
	Options    FormOptions       `json:"options"`
}

// RosterView is the whole screen: selector, detail, subjects and, while editing, the form.
type RosterView struct {
	Status            models.LoadStatus `json:"status"`
	LastError         string            `json:"lastError,omitempty"`
	Students          []StudentTab      `json:"students"`
	Detail            *StudentDetail    `json:"detail,omitempty"`
	Subjects          *SubjectPanel     `json:"subjects,omitempty"`
	SelectedSubjectID *int              `json:"selectedSubjectId"`
	Editing           bool              `json:"editing"`
	Form              *StudentForm      `json:"form,omitempty"`
}

// UpdateFieldsRequest carries draft edits keyed by field name.
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}
