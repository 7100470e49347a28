package service

import (
	"context"
	"sync"

	"github.com/noah-isme/student-roster/internal/models"
)

func fixtureRoster() []models.Student {
	return []models.Student{
		{
			ID: 1, Name: "Ahri", Email: "ahri@runeterra.edu", Role: "Mage", Region: "Ionia",
			Avatar: "/newahri-icon.jpg", EnrollmentDate: "2024-01-15",
			Subjects: []models.Subject{
				{ID: 1, Name: "Magia Arcana", Grade: 9.5, Professor: "Ryze", Status: models.SubjectStatusActive},
				{ID: 2, Name: "Controle de Energia", Grade: 8.8, Professor: "Syndra", Status: models.SubjectStatusActive},
				{ID: 3, Name: "História de Runeterra", Grade: 9.2, Professor: "Zilean", Status: models.SubjectStatusCompleted},
			},
		},
		{
			ID: 2, Name: "Yasuo", Email: "yasuo@runeterra.edu", Role: "Warrior", Region: "Ionia",
			Avatar: "/yasuo-icon.jpg", EnrollmentDate: "2024-02-20",
			Subjects: []models.Subject{
				{ID: 4, Name: "Técnicas de Combate", Grade: 9.8, Professor: "Master Yi", Status: models.SubjectStatusActive},
				{ID: 5, Name: "Meditação e Foco", Grade: 7.5, Professor: "Lee Sin", Status: models.SubjectStatusActive},
				{ID: 6, Name: "Código de Honra", Grade: 8.0, Professor: "Shen", Status: models.SubjectStatusCompleted},
			},
		},
		{
			ID: 3, Name: "Lux", Email: "lux@runeterra.edu", Role: "Mage", Region: "Demacia",
			Avatar: "/luxnew-icon.jpeg", EnrollmentDate: "2024-01-10",
			Subjects: []models.Subject{
				{ID: 7, Name: "Magia da Luz", Grade: 10.0, Professor: "Kayle", Status: models.SubjectStatusActive},
				{ID: 8, Name: "Ética Mágica", Grade: 9.7, Professor: "Morgana", Status: models.SubjectStatusActive},
				{ID: 9, Name: "Política de Demacia", Grade: 8.5, Professor: "Garen", Status: models.SubjectStatusCompleted},
			},
		},
	}
}

type stubSource struct {
	mu       sync.Mutex
	students []models.Student
	err      error
	calls    int
	block    chan struct{}
}

func (s *stubSource) LoadStudents(ctx context.Context) ([]models.Student, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return models.CloneStudents(s.students), nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []models.StudentEvent
}

func (r *recordingObserver) StudentChanged(ctx context.Context, event models.StudentEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) kinds() []models.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]models.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *recordingObserver) last() models.StudentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}
