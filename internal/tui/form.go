package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/todo"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldProgress
	fieldCount
)

// form is the add/update dialog. Field values live in the wrapped
// todo.Editor; the bubbles inputs only mirror them for editing.
type form struct {
	editor   *todo.Editor
	title    textinput.Model
	desc     textarea.Model
	progress textinput.Model
	focus    formField
}

func newForm(mode todo.Mode, deps todo.Deps) *form {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Width = 40

	ta := textarea.New()
	ta.Placeholder = "Description"
	ta.ShowLineNumbers = false
	ta.SetWidth(44)
	ta.SetHeight(4)

	pi := textinput.New()
	pi.Placeholder = "0"
	pi.CharLimit = 3
	pi.Width = 5

	return &form{
		editor:   todo.NewEditor(mode, deps),
		title:    ti,
		desc:     ta,
		progress: pi,
	}
}

func (f *form) heading() string {
	if f.editor.Mode() == todo.ModeUpdate {
		return "Update TODO"
	}
	return "Add TODO"
}

func (f *form) button() string {
	switch {
	case f.editor.Submitting():
		return "Loading..."
	case f.editor.Mode() == todo.ModeUpdate:
		return "Update Task"
	default:
		return "Add Task"
	}
}

// open shows the dialog, seeded from task in update mode.
func (f *form) open(task *models.ViewTask) tea.Cmd {
	f.editor.Open(task)
	f.title.SetValue(f.editor.Title())
	f.desc.SetValue(f.editor.Description())
	f.progress.SetValue(strconv.Itoa(f.editor.Progress()))
	return f.setFocus(fieldTitle)
}

func (f *form) close() {
	f.editor.Close()
	f.title.Blur()
	f.desc.Blur()
	f.progress.Blur()
}

func (f *form) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.desc.Blur()
	f.progress.Blur()
	switch field {
	case fieldDescription:
		return f.desc.Focus()
	case fieldProgress:
		return f.progress.Focus()
	default:
		return f.title.Focus()
	}
}

// submit starts a request. A nil cmd means nothing was sent.
func (f *form) submit(ctx context.Context) tea.Cmd {
	req, ok := f.editor.Begin()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return submitDoneMsg{err: req(ctx)}
	}
}

// update routes a key to the focused input and mirrors its value into the
// editor. Input is ignored while a request is in flight.
func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	if f.editor.Submitting() {
		return nil
	}

	switch msg.String() {
	case "tab":
		return f.setFocus((f.focus + 1) % fieldCount)
	case "shift+tab":
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
		f.editor.SetTitle(f.title.Value())
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
		f.editor.SetDescription(f.desc.Value())
	case fieldProgress:
		prev := f.progress.Value()
		f.progress, cmd = f.progress.Update(msg)
		if !f.editor.SetProgressText(strings.TrimSpace(f.progress.Value())) {
			f.progress.SetValue(prev)
		}
	}
	return cmd
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.heading()) + "\n\n")
	b.WriteString(labelStyle.Render("Title") + "\n")
	b.WriteString(f.title.View() + "\n\n")
	b.WriteString(labelStyle.Render("Description") + "\n")
	b.WriteString(f.desc.View() + "\n\n")
	b.WriteString(labelStyle.Render("Progress") + "\n")
	b.WriteString(f.progress.View() + "%\n\n")

	btn := buttonStyle
	if f.editor.Submitting() {
		btn = busyButtonStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		btn.Render(f.button()),
		"  ",
		mutedStyle.Render("ctrl+s:save  tab:next field  esc:cancel"),
	))
	return dialogStyle.Render(b.String())
}
