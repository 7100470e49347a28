package models

// LoadStatus tracks the one-shot roster load.
type LoadStatus string

const (
	LoadStatusIdle    LoadStatus = "idle"
	LoadStatusLoading LoadStatus = "loading"
	LoadStatusReady   LoadStatus = "ready"
	LoadStatusFailed  LoadStatus = "failed"
)

// RosterState is an immutable snapshot of the root controller.
type RosterState struct {
	Status            LoadStatus `json:"status"`
	LastError         string     `json:"lastError,omitempty"`
	Roster            []Student  `json:"roster"`
	SelectedStudentID *int       `json:"selectedStudentId"`
	SelectedSubjectID *int       `json:"selectedSubjectId"`
	Editing           bool       `json:"editing"`
}

// SelectedStudent returns the selected roster entry, if any.
func (s RosterState) SelectedStudent() (Student, bool) {
	if s.SelectedStudentID == nil {
		return Student{}, false
	}
	for _, student := range s.Roster {
		if student.ID == *s.SelectedStudentID {
			return student, true
		}
	}
	return Student{}, false
}
