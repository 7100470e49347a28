package models

import "time"

// EventKind distinguishes student notifications.
type EventKind string

const (
	// EventStudentSelected fires whenever the selected student changes, including after load and commit.
	EventStudentSelected EventKind = "selected"
	// EventStudentCommitted fires after an edited student replaced its roster entry.
	EventStudentCommitted EventKind = "committed"
)

// StudentEvent is the fire-and-forget notification handed to observers.
type StudentEvent struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"`
	Student    Student   `json:"student"`
	OccurredAt time.Time `json:"occurredAt"`
}
