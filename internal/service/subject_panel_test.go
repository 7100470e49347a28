package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-roster/internal/models"
)

func TestClassifyGradeBoundaries(t *testing.T) {
	cases := []struct {
		grade float64
		label string
		tier  GradeTier
	}{
		{10, "Excellent", GradeTierHigh},
		{9.0, "Excellent", GradeTierHigh},
		{8.999, "Good", GradeTierMidHigh},
		{7.0, "Good", GradeTierMidHigh},
		{6.99, "Regular", GradeTierMid},
		{5.0, "Regular", GradeTierMid},
		{4.99, "Insufficient", GradeTierLow},
		{0, "Insufficient", GradeTierLow},
		{-3, "Insufficient", GradeTierLow},
		{42, "Excellent", GradeTierHigh},
		{math.NaN(), "Insufficient", GradeTierLow},
	}
	for _, tc := range cases {
		q := ClassifyGrade(tc.grade)
		assert.Equal(t, tc.label, q.Label, "grade %v", tc.grade)
		assert.Equal(t, string(tc.tier), q.Tier, "grade %v", tc.grade)
	}
}

func TestPartitionSubjectsKeepsOrderAndCount(t *testing.T) {
	for _, student := range fixtureRoster() {
		active, completed := PartitionSubjects(student.Subjects)
		assert.Equal(t, len(student.Subjects), len(active)+len(completed))
		for _, s := range active {
			assert.Equal(t, models.SubjectStatusActive, s.Status)
		}
	}

	subjects := []models.Subject{
		{ID: 3, Status: models.SubjectStatusActive},
		{ID: 1, Status: models.SubjectStatusCompleted},
		{ID: 2, Status: models.SubjectStatusActive},
	}
	active, completed := PartitionSubjects(subjects)
	require.Len(t, active, 2)
	assert.Equal(t, 3, active[0].ID)
	assert.Equal(t, 2, active[1].ID)
	require.Len(t, completed, 1)
}

func TestBuildSubjectPanelSelection(t *testing.T) {
	ahri := fixtureRoster()[0]
	selected := 2

	panel := BuildSubjectPanel(ahri.Subjects, &selected)

	require.Len(t, panel.Active, 2)
	assert.False(t, panel.Active[0].Expanded)
	assert.True(t, panel.Active[1].Expanded)
	require.NotNil(t, panel.Active[1].Progress)
	assert.InDelta(t, 88.0, *panel.Active[1].Progress, 1e-9)
	assert.True(t, panel.Active[0].Selectable)
	assert.Equal(t, "Excellent", panel.Active[0].Quality.Label)

	require.Len(t, panel.Completed, 1)
	assert.False(t, panel.Completed[0].Selectable)
	assert.False(t, panel.Completed[0].Expanded)
	assert.True(t, panel.ShowCompleted)
}

func TestBuildSubjectPanelSectionsAsymmetry(t *testing.T) {
	onlyCompleted := []models.Subject{{ID: 1, Grade: 6, Status: models.SubjectStatusCompleted}}
	panel := BuildSubjectPanel(onlyCompleted, nil)
	assert.NotNil(t, panel.Active)
	assert.Equal(t, 0, panel.ActiveCount)
	assert.True(t, panel.ShowCompleted)

	onlyActive := []models.Subject{{ID: 1, Grade: 6, Status: models.SubjectStatusActive}}
	panel = BuildSubjectPanel(onlyActive, nil)
	assert.False(t, panel.ShowCompleted)
	assert.Equal(t, 1, panel.ActiveCount)
}

func TestSelectedCompletedSubjectIsNeverExpanded(t *testing.T) {
	ahri := fixtureRoster()[0]
	completedID := 3
	panel := BuildSubjectPanel(ahri.Subjects, &completedID)
	for _, card := range append(panel.Active, panel.Completed...) {
		assert.False(t, card.Expanded)
	}
	assert.False(t, IsSelectable(ahri.Subjects[2]))
	assert.True(t, IsSelectable(ahri.Subjects[0]))
}

func TestBuildStudentDetail(t *testing.T) {
	detail := BuildStudentDetail(fixtureRoster()[1])
	assert.Equal(t, "Yasuo", detail.Name)
	assert.Equal(t, 2, detail.ActiveSubjects)
	assert.True(t, detail.CanEdit)
}
