package service

import (
	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
)

// GradeTier buckets grades for presentation.
type GradeTier string

const (
	GradeTierHigh    GradeTier = "high"
	GradeTierMidHigh GradeTier = "mid-high"
	GradeTierMid     GradeTier = "mid"
	GradeTierLow     GradeTier = "low"
)

// MaxGrade is the top of the grading scale.
const MaxGrade = 10.0

// ClassifyGrade maps every grade to exactly one tier. Lower bounds are inclusive;
// NaN and out-of-range grades are not corrected.
func ClassifyGrade(grade float64) dto.GradeQuality {
	switch {
	case grade >= 9:
		return dto.GradeQuality{Label: "Excellent", Tier: string(GradeTierHigh)}
	case grade >= 7:
		return dto.GradeQuality{Label: "Good", Tier: string(GradeTierMidHigh)}
	case grade >= 5:
		return dto.GradeQuality{Label: "Regular", Tier: string(GradeTierMid)}
	default:
		return dto.GradeQuality{Label: "Insufficient", Tier: string(GradeTierLow)}
	}
}

// PartitionSubjects splits subjects by status, preserving order.
func PartitionSubjects(subjects []models.Subject) (active, completed []models.Subject) {
	active = make([]models.Subject, 0, len(subjects))
	completed = make([]models.Subject, 0)
	for _, s := range subjects {
		switch s.Status {
		case models.SubjectStatusActive:
			active = append(active, s)
		case models.SubjectStatusCompleted:
			completed = append(completed, s)
		}
	}
	return active, completed
}

// IsSelectable reports whether a subject can be expanded. Completed subjects cannot.
func IsSelectable(subject models.Subject) bool {
	return subject.Status == models.SubjectStatusActive
}

// BuildSubjectPanel derives the subject panel from a subject list and the root's selection.
func BuildSubjectPanel(subjects []models.Subject, selectedSubjectID *int) dto.SubjectPanel {
	active, completed := PartitionSubjects(subjects)

	panel := dto.SubjectPanel{
		Active:         make([]dto.SubjectCard, 0, len(active)),
		Completed:      make([]dto.SubjectCard, 0, len(completed)),
		ActiveCount:    len(active),
		CompletedCount: len(completed),
		ShowCompleted:  len(completed) > 0,
	}
	for _, s := range active {
		card := dto.SubjectCard{Subject: s, Quality: ClassifyGrade(s.Grade), Selectable: true}
		if selectedSubjectID != nil && *selectedSubjectID == s.ID {
			card.Expanded = true
			progress := s.Grade / MaxGrade * 100
			card.Progress = &progress
		}
		panel.Active = append(panel.Active, card)
	}
	for _, s := range completed {
		panel.Completed = append(panel.Completed, dto.SubjectCard{Subject: s, Quality: ClassifyGrade(s.Grade)})
	}
	return panel
}
