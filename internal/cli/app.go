package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/noah-isme/student-roster/internal/dto"
	"github.com/noah-isme/student-roster/internal/models"
	appErrors "github.com/noah-isme/student-roster/pkg/errors"
)

// Session is the roster session driven by the menu.
type Session interface {
	LoadRoster(ctx context.Context) error
	Student(id int) (models.Student, error)
	SelectStudent(ctx context.Context, id int) error
	SelectSubject(subjectID int) error
	OpenEdit() (dto.StudentForm, error)
	Form() (dto.StudentForm, error)
	UpdateFields(fields map[string]string) (dto.StudentForm, error)
	SubmitEdit(ctx context.Context) (models.Student, error)
	CancelEdit()
	View() dto.RosterView
}

// TranscriptSaver writes a transcript file and returns its path.
type TranscriptSaver interface {
	SaveTranscript(student models.Student, format string) (string, error)
}

// App is the interactive roster viewer and editor.
type App struct {
	session  Session
	exports  TranscriptSaver
	renderer *Renderer
	in       *bufio.Scanner
	out      io.Writer
}

// NewApp constructs an App reading commands from in. exports may be nil to hide the export option.
func NewApp(session Session, exports TranscriptSaver, in io.Reader, out io.Writer) *App {
	return &App{
		session:  session,
		exports:  exports,
		renderer: NewRenderer(out),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loads the roster and serves the menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	a.load(ctx)
	for {
		a.displayMenu()
		choice, ok := a.prompt("")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			a.renderer.Roster(a.session.View())
		case "2":
			a.selectStudent(ctx)
		case "3":
			a.selectSubject()
		case "4":
			a.edit(ctx)
		case "5":
			a.exportTranscript()
		case "6":
			a.load(ctx)
		case "0":
			color.New(color.FgGreen).Fprintln(a.out, "Goodbye!")
			return nil
		default:
			color.New(color.FgRed).Fprintln(a.out, "Invalid choice. Please try again.")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (a *App) displayMenu() {
	color.New(color.FgCyan).Fprintln(a.out, "\n=== Student Roster ===")
	fmt.Fprintln(a.out, "1. Show roster")
	fmt.Fprintln(a.out, "2. Select student")
	fmt.Fprintln(a.out, "3. Expand subject")
	fmt.Fprintln(a.out, "4. Edit profile")
	if a.exports != nil {
		fmt.Fprintln(a.out, "5. Export transcript")
	}
	fmt.Fprintln(a.out, "6. Reload roster")
	fmt.Fprintln(a.out, "0. Exit")
	fmt.Fprint(a.out, "\nEnter your choice: ")
}

func (a *App) load(ctx context.Context) {
	view := a.session.View()
	if view.Status == models.LoadStatusReady {
		color.New(color.FgYellow).Fprintln(a.out, "Roster already loaded.")
		return
	}
	color.New(color.FgCyan).Fprintln(a.out, "Loading roster...")
	if err := a.session.LoadRoster(ctx); err != nil {
		a.fail(err)
		return
	}
	a.renderer.Roster(a.session.View())
}

func (a *App) selectStudent(ctx context.Context) {
	id, ok := a.promptID("Student ID: ")
	if !ok {
		return
	}
	if err := a.session.SelectStudent(ctx, id); err != nil {
		a.fail(err)
		return
	}
	a.renderer.Roster(a.session.View())
}

func (a *App) selectSubject() {
	id, ok := a.promptID("Subject ID: ")
	if !ok {
		return
	}
	if err := a.session.SelectSubject(id); err != nil {
		a.fail(err)
		return
	}
	if view := a.session.View(); view.Subjects != nil {
		a.renderer.Subjects(*view.Subjects)
	}
}

func (a *App) edit(ctx context.Context) {
	form, err := a.session.OpenEdit()
	if err != nil {
		a.fail(err)
		return
	}
	for {
		a.renderer.Form(form)
		fmt.Fprintf(a.out, "Field to change (%s), s to save, c to cancel: ", strings.Join(formFieldOrder, ", "))
		input, ok := a.prompt("")
		if !ok {
			a.session.CancelEdit()
			return
		}
		switch input {
		case "s":
			student, err := a.session.SubmitEdit(ctx)
			if err != nil {
				a.fail(err)
				if form, err = a.session.Form(); err != nil {
					return
				}
				continue
			}
			color.New(color.FgGreen).Fprintf(a.out, "Saved %s.\n", student.Name)
			return
		case "c":
			a.session.CancelEdit()
			color.New(color.FgYellow).Fprintln(a.out, "Changes discarded.")
			return
		case "":
			continue
		}
		value, ok := a.prompt(fmt.Sprintf("New %s: ", input))
		if !ok {
			a.session.CancelEdit()
			return
		}
		updated, err := a.session.UpdateFields(map[string]string{input: value})
		if err != nil {
			a.fail(err)
		}
		if updated.State != "" {
			form = updated
		}
	}
}

func (a *App) exportTranscript() {
	if a.exports == nil {
		color.New(color.FgRed).Fprintln(a.out, "Invalid choice. Please try again.")
		return
	}
	view := a.session.View()
	if view.Detail == nil {
		a.fail(appErrors.ErrNoStudentSelected)
		return
	}
	format, ok := a.prompt("Format (csv/pdf): ")
	if !ok {
		return
	}
	student, err := a.session.Student(view.Detail.ID)
	if err != nil {
		a.fail(err)
		return
	}
	path, err := a.exports.SaveTranscript(student, format)
	if err != nil {
		a.fail(err)
		return
	}
	color.New(color.FgGreen).Fprintf(a.out, "Transcript written to %s\n", path)
}

func (a *App) prompt(label string) (string, bool) {
	if label != "" {
		fmt.Fprint(a.out, label)
	}
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *App) promptID(label string) (int, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		color.New(color.FgRed).Fprintf(a.out, "%q is not a number.\n", raw)
		return 0, false
	}
	return id, true
}

func (a *App) fail(err error) {
	appErr := appErrors.FromError(err)
	color.New(color.FgRed).Fprintf(a.out, "Error: %s\n", appErr.Message)
	var details map[string]string
	if d, ok := appErr.Details.(map[string]string); ok {
		details = d
	}
	if len(details) > 0 {
		a.renderer.Errors(details)
	}
	if errors.Is(err, appErrors.ErrInternal) && appErr.Err != nil {
		fmt.Fprintf(a.out, "  %v\n", appErr.Err)
	}
}
