package models

import "math"

// SubjectStatus is the closed two-state tag of a subject.
type SubjectStatus string

const (
	SubjectStatusActive    SubjectStatus = "active"
	SubjectStatusCompleted SubjectStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s SubjectStatus) Valid() bool {
	return s == SubjectStatusActive || s == SubjectStatusCompleted
}

// Subject is a course a student attends or has finished. Grades are expected in [0, 10].
type Subject struct {
	ID        int           `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Grade     float64       `db:"grade" json:"grade"`
	Professor string        `db:"professor" json:"professor"`
	Status    SubjectStatus `db:"status" json:"status"`
}

// Equal compares every field. Two NaN grades count as equal.
func (s Subject) Equal(other Subject) bool {
	if s.ID != other.ID || s.Name != other.Name || s.Professor != other.Professor || s.Status != other.Status {
		return false
	}
	if math.IsNaN(s.Grade) || math.IsNaN(other.Grade) {
		return math.IsNaN(s.Grade) && math.IsNaN(other.Grade)
	}
	return s.Grade == other.Grade
}
