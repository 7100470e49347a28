package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/models"
)

// MockRosterSource serves the built-in demo roster after a simulated network delay.
type MockRosterSource struct {
	delay  time.Duration
	logger *zap.Logger
}

// NewMockRosterSource constructs a MockRosterSource.
func NewMockRosterSource(delay time.Duration, logger *zap.Logger) *MockRosterSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockRosterSource{delay: delay, logger: logger}
}

// LoadStudents waits for the configured delay, then returns a fresh copy of the demo roster.
func (s *MockRosterSource) LoadStudents(ctx context.Context) ([]models.Student, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	students := DemoRoster()
	s.logger.Debug("mock roster served", zap.Int("students", len(students)), zap.Duration("delay", s.delay))
	return students, nil
}

// DemoRoster returns the demo dataset. Each call returns independent slices.
func DemoRoster() []models.Student {
	return []models.Student{
		{
			ID:             1,
			Name:           "Ahri",
			Email:          "ahri@runeterra.edu",
			Role:           "Mage",
			Region:         "Ionia",
			Avatar:         "/newahri-icon.jpg",
			EnrollmentDate: "2024-01-15",
			Subjects: []models.Subject{
				{ID: 1, Name: "Magia Arcana", Grade: 9.5, Professor: "Ryze", Status: models.SubjectStatusActive},
				{ID: 2, Name: "Controle de Energia", Grade: 8.8, Professor: "Syndra", Status: models.SubjectStatusActive},
				{ID: 3, Name: "História de Runeterra", Grade: 9.2, Professor: "Zilean", Status: models.SubjectStatusCompleted},
			},
		},
		{
			ID:             2,
			Name:           "Yasuo",
			Email:          "yasuo@runeterra.edu",
			Role:           "Warrior",
			Region:         "Ionia",
			Avatar:         "/yasuo-icon.jpg",
			EnrollmentDate: "2024-02-20",
			Subjects: []models.Subject{
				{ID: 4, Name: "Técnicas de Combate", Grade: 9.8, Professor: "Master Yi", Status: models.SubjectStatusActive},
				{ID: 5, Name: "Meditação e Foco", Grade: 7.5, Professor: "Lee Sin", Status: models.SubjectStatusActive},
				{ID: 6, Name: "Código de Honra", Grade: 8.0, Professor: "Shen", Status: models.SubjectStatusCompleted},
			},
		},
		{
			ID:             3,
			Name:           "Lux",
			Email:          "lux@runeterra.edu",
			Role:           "Mage",
			Region:         "Demacia",
			Avatar:         "/luxnew-icon.jpeg",
			EnrollmentDate: "2024-01-10",
			Subjects: []models.Subject{
				{ID: 7, Name: "Magia da Luz", Grade: 10.0, Professor: "Kayle", Status: models.SubjectStatusActive},
				{ID: 8, Name: "Ética Mágica", Grade: 9.7, Professor: "Morgana", Status: models.SubjectStatusActive},
				{ID: 9, Name: "Política de Demacia", Grade: 8.5, Professor: "Garen", Status: models.SubjectStatusCompleted},
			},
		},
	}
}
