package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/models"
)

// EventLogSink writes every student event to the structured log.
type EventLogSink struct {
	logger *zap.Logger
}

// NewEventLogSink constructs an EventLogSink.
func NewEventLogSink(logger *zap.Logger) *EventLogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLogSink{logger: logger.Named("student-events")}
}

// Name identifies the sink.
func (s *EventLogSink) Name() string { return "log" }

// Deliver logs the event with the student's profile.
func (s *EventLogSink) Deliver(_ context.Context, event models.StudentEvent) error {
	s.logger.Info("student "+string(event.Kind),
		zap.String("event_id", event.ID),
		zap.Int("student_id", event.Student.ID),
		zap.String("name", event.Student.Name),
		zap.String("email", event.Student.Email),
		zap.String("role", event.Student.Role),
		zap.String("region", event.Student.Region),
		zap.Int("subjects", len(event.Student.Subjects)),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
