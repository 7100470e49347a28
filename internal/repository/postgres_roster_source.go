package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-roster/internal/models"
)

const (
	selectStudentsQuery = `SELECT id, name, email, role, region, avatar, enrollment_date FROM students ORDER BY position, id`
	selectSubjectsQuery = `SELECT student_id, subject_id AS id, name, grade, professor, status FROM student_subjects ORDER BY student_id, position`
)

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type subjectRow struct {
	StudentID int `db:"student_id"`
	models.Subject
}

// PostgresRosterSource reads the initial roster from the students and student_subjects tables.
// It never writes.
type PostgresRosterSource struct {
	db      *sqlx.DB
	metrics queryObserver
}

// NewPostgresRosterSource constructs a PostgresRosterSource. metrics may be nil.
func NewPostgresRosterSource(db *sqlx.DB, metrics queryObserver) *PostgresRosterSource {
	return &PostgresRosterSource{db: db, metrics: metrics}
}

// LoadStudents returns every student with subjects in stored order.
func (r *PostgresRosterSource) LoadStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	start := time.Now()
	if err := r.db.SelectContext(ctx, &students, selectStudentsQuery); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	r.observe("roster_students", start)

	var rows []subjectRow
	start = time.Now()
	if err := r.db.SelectContext(ctx, &rows, selectSubjectsQuery); err != nil {
		return nil, fmt.Errorf("list student subjects: %w", err)
	}
	r.observe("roster_subjects", start)

	index := make(map[int]int, len(students))
	for i := range students {
		students[i].Subjects = []models.Subject{}
		index[students[i].ID] = i
	}
	for _, row := range rows {
		i, ok := index[row.StudentID]
		if !ok {
			continue
		}
		if !row.Status.Valid() {
			return nil, fmt.Errorf("subject %d of student %d has unknown status %q", row.ID, row.StudentID, row.Status)
		}
		students[i].Subjects = append(students[i].Subjects, row.Subject)
	}
	return students, nil
}

func (r *PostgresRosterSource) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}
