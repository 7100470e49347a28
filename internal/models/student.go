package models

// Student is a roster entry. Subjects keep their insertion order, which is also display order.
type Student struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Role           string    `db:"role" json:"role"`
	Region         string    `db:"region" json:"region"`
	Avatar         string    `db:"avatar" json:"avatar"`
	EnrollmentDate string    `db:"enrollment_date" json:"enrollmentDate"`
	Subjects       []Subject `db:"-" json:"subjects"`
}

// Clone returns a deep copy so callers never share the subject slice.
func (s Student) Clone() Student {
	clone := s
	if s.Subjects != nil {
		clone.Subjects = make([]Subject, len(s.Subjects))
		copy(clone.Subjects, s.Subjects)
	}
	return clone
}

// Equal compares every profile field and every subject in order.
func (s Student) Equal(other Student) bool {
	if s.ID != other.ID ||
		s.Name != other.Name ||
		s.Email != other.Email ||
		s.Role != other.Role ||
		s.Region != other.Region ||
		s.Avatar != other.Avatar ||
		s.EnrollmentDate != other.EnrollmentDate ||
		len(s.Subjects) != len(other.Subjects) {
		return false
	}
	for i := range s.Subjects {
		if !s.Subjects[i].Equal(other.Subjects[i]) {
			return false
		}
	}
	return true
}

// FindSubject returns the subject with the given id from the student's list.
func (s Student) FindSubject(id int) (Subject, bool) {
	for _, subject := range s.Subjects {
		if subject.ID == id {
			return subject, true
		}
	}
	return Subject{}, false
}

// CloneStudents deep-copies a roster.
func CloneStudents(students []Student) []Student {
	if students == nil {
		return nil
	}
	out := make([]Student, len(students))
	for i, s := range students {
		out[i] = s.Clone()
	}
	return out
}
