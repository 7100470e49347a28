package service

import (
	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
)

// BuildStudentDetail projects a student onto the detail panel.
func BuildStudentDetail(student models.Student) dto.StudentDetail {
	active := 0
	for _, s := range student.Subjects {
		if s.Status == models.SubjectStatusActive {
			active++
		}
	}
	return dto.StudentDetail{
		ID:             student.ID,
		Name:           student.Name,
		Email:          student.Email,
		Role:           student.Role,
		Region:         student.Region,
		Avatar:         student.Avatar,
		EnrollmentDate: student.EnrollmentDate,
		ActiveSubjects: active,
		CanEdit:        true,
	}
}
