package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
	"github.com/noah-isme/student-roster/internal/service"
)

var tierColors = map[string]*color.Color{
	string(service.GradeTierHigh):    color.New(color.FgGreen),
	string(service.GradeTierMidHigh): color.New(color.FgBlue),
	string(service.GradeTierMid):     color.New(color.FgYellow),
	string(service.GradeTierLow):     color.New(color.FgRed),
}

var formFieldOrder = []string{
	service.FieldName,
	service.FieldEmail,
	service.FieldRole,
	service.FieldRegion,
	service.FieldAvatar,
	service.FieldEnrollmentDate,
}

// Renderer draws roster views as terminal tables.
type Renderer struct {
	out io.Writer
}

// NewRenderer constructs a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Roster draws the whole screen.
func (r *Renderer) Roster(view dto.RosterView) {
	switch view.Status {
	case models.LoadStatusIdle, models.LoadStatusLoading:
		color.New(color.FgCyan).Fprintln(r.out, "Loading roster...")
		return
	case models.LoadStatusFailed:
		color.New(color.FgRed).Fprintf(r.out, "Roster failed to load: %s\n", view.LastError)
		return
	}
	r.Tabs(view.Students)
	if view.Detail != nil {
		r.Detail(*view.Detail)
	}
	if view.Subjects != nil {
		r.Subjects(*view.Subjects)
	}
	if view.Form != nil {
		r.Form(*view.Form)
	}
}

// Tabs draws the student selector.
func (r *Renderer) Tabs(tabs []dto.StudentTab) {
	color.New(color.FgCyan).Fprintln(r.out, "\nStudents")
	table := r.newTable()
	table.SetHeader([]string{"ID", "Name", ""})
	for _, tab := range tabs {
		marker := ""
		if tab.Selected {
			marker = "selected"
		}
		table.Append([]string{fmt.Sprintf("%d", tab.ID), tab.Name, marker})
	}
	table.Render()
}

// Detail draws the selected student's profile.
func (r *Renderer) Detail(detail dto.StudentDetail) {
	color.New(color.FgCyan).Fprintf(r.out, "\n%s\n", detail.Name)
	table := r.newTable()
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"Email", detail.Email},
		{"Role", detail.Role},
		{"Region", detail.Region},
		{"Enrolled", detail.EnrollmentDate},
		{"Active subjects", fmt.Sprintf("%d", detail.ActiveSubjects)},
	})
	table.Render()
}

// Subjects draws the active section and, when present, the completed section.
func (r *Renderer) Subjects(panel dto.SubjectPanel) {
	color.New(color.FgYellow).Fprintf(r.out, "\nActive subjects (%d)\n", panel.ActiveCount)
	r.subjectTable(panel.Active)
	for _, card := range panel.Active {
		if card.Expanded && card.Progress != nil {
			fmt.Fprintf(r.out, "%s taught by %s: %s (%.0f%%)\n", card.Name, card.Professor, r.grade(card), *card.Progress)
		}
	}
	if panel.ShowCompleted {
		color.New(color.FgYellow).Fprintf(r.out, "\nCompleted subjects (%d)\n", panel.CompletedCount)
		r.subjectTable(panel.Completed)
	}
}

// Form draws the draft with its field errors.
func (r *Renderer) Form(form dto.StudentForm) {
	title := "\nEditing " + form.Draft.Name
	if form.Submitting {
		title += " (saving...)"
	}
	color.New(color.FgCyan).Fprintln(r.out, title)
	table := r.newTable()
	table.SetHeader([]string{"Field", "Value", "Error"})
	values := map[string]string{
		service.FieldName:           form.Draft.Name,
		service.FieldEmail:          form.Draft.Email,
		service.FieldRole:           form.Draft.Role,
		service.FieldRegion:         form.Draft.Region,
		service.FieldAvatar:         form.Draft.Avatar,
		service.FieldEnrollmentDate: form.Draft.EnrollmentDate,
	}
	for _, field := range formFieldOrder {
		msg := form.Errors[field]
		if msg != "" {
			msg = color.RedString(msg)
		}
		table.Append([]string{field, values[field], msg})
	}
	table.Render()
}

// Errors prints field messages in field-name order.
func (r *Renderer) Errors(details map[string]string) {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		color.New(color.FgRed).Fprintf(r.out, "  %s: %s\n", k, details[k])
	}
}

func (r *Renderer) subjectTable(cards []dto.SubjectCard) {
	table := r.newTable()
	table.SetHeader([]string{"ID", "Subject", "Professor", "Grade", "Quality"})
	for _, card := range cards {
		name := card.Name
		if card.Expanded {
			name = "> " + name
		}
		table.Append([]string{fmt.Sprintf("%d", card.ID), name, card.Professor, r.grade(card), card.Quality.Label})
	}
	table.Render()
}

func (r *Renderer) grade(card dto.SubjectCard) string {
	text := fmt.Sprintf("%.1f", card.Grade)
	if c, ok := tierColors[card.Quality.Tier]; ok {
		return c.Sprint(text)
	}
	return text
}

func (r *Renderer) newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetAutoWrapText(false)
	return table
}
