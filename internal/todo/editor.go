package todo

import (
	"context"
	"strconv"
	"strings"

	"github.com/fentz26/todo/internal/models"
	"github.com/google/uuid"
)

// Mode selects what an Editor submission does.
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeUpdate Mode = "update"
)

// Notification texts used by the editor.
const (
	TitleRequiredText = "Please enter a title"
	NoChangesText     = "No changes made"
	AddedText         = "Task added successfully"
	UpdatedText       = "Task Updated successfully"
)

// Editor is the create/update dialog state.
type Editor struct {
	deps  Deps
	mode  Mode
	bound *models.ViewTask
	newID func() string

	open        bool
	title       string
	description string
	progress    int
	submitting  bool
}

// NewEditor creates a closed editor in mode.
func NewEditor(mode Mode, deps Deps) *Editor {
	return &Editor{
		deps:  deps,
		mode:  mode,
		newID: uuid.NewString,
	}
}

// Mode returns the editor mode.
func (e *Editor) Mode() Mode { return e.mode }

// IsOpen reports whether the dialog is shown.
func (e *Editor) IsOpen() bool { return e.open }

// Submitting reports whether a submission is in flight.
func (e *Editor) Submitting() bool { return e.submitting }

// Title returns the title field.
func (e *Editor) Title() string { return e.title }

// Description returns the description field.
func (e *Editor) Description() string { return e.description }

// Progress returns the progress field.
func (e *Editor) Progress() int { return e.progress }

// Bound returns the task an update-mode editor is bound to.
func (e *Editor) Bound() *models.ViewTask { return e.bound }

// Open shows the dialog. Fields are loaded from task in update mode and
// reset to defaults otherwise.
func (e *Editor) Open(task *models.ViewTask) {
	e.open = true
	e.submitting = false
	if e.mode == ModeUpdate && task != nil {
		t := *task
		e.bound = &t
		e.title = t.Title
		e.description = t.Description
		e.progress = t.Progress
		return
	}
	e.bound = nil
	e.title = ""
	e.description = ""
	e.progress = 0
}

// Rebind replaces the bound task without touching the fields.
func (e *Editor) Rebind(task models.ViewTask) {
	if e.mode == ModeUpdate {
		e.bound = &task
	}
}

// Close hides the dialog.
func (e *Editor) Close() {
	e.open = false
}

// SetTitle sets the title field.
func (e *Editor) SetTitle(s string) {
	if e.submitting {
		return
	}
	e.title = s
}

// SetDescription sets the description field.
func (e *Editor) SetDescription(s string) {
	if e.submitting {
		return
	}
	e.description = s
}

// SetProgress sets the progress field. Values above 100 are rejected and
// negative values clamp to 0. It reports whether the value was accepted.
func (e *Editor) SetProgress(p int) bool {
	if e.submitting || p > models.CompleteProgress {
		return false
	}
	if p < 0 {
		p = 0
	}
	e.progress = p
	return true
}

// SetProgressText parses terminal input into progress. Empty input means 0.
func (e *Editor) SetProgressText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return e.SetProgress(0)
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return e.SetProgress(p)
}

// Request performs the remote call of a submission.
type Request func(ctx context.Context) error

// Begin validates the fields and marks the editor as submitting. It returns
// false, after notifying where applicable, when nothing should be sent.
func (e *Editor) Begin() (Request, bool) {
	if e.submitting {
		return nil, false
	}
	if e.title == "" {
		e.deps.Notifier.Error(TitleRequiredText)
		return nil, false
	}

	var req Request
	switch e.mode {
	case ModeAdd:
		task := models.Task{
			ID:          e.newID(),
			Name:        e.title,
			Progress:    e.progress,
			Description: e.description,
		}
		req = func(ctx context.Context) error {
			_, err := e.deps.Store.Create(ctx, task)
			return err
		}
	case ModeUpdate:
		if e.bound == nil {
			return nil, false
		}
		if !e.changed() {
			e.deps.Notifier.Error(NoChangesText)
			return nil, false
		}
		task := models.Task{
			ID:          e.bound.ID,
			Name:        e.title,
			Progress:    e.progress,
			Description: e.description,
		}
		req = func(ctx context.Context) error {
			_, err := e.deps.Store.Update(ctx, task)
			return err
		}
	default:
		return nil, false
	}

	e.submitting = true
	return req, true
}

// Finish applies the outcome of a request started by Begin and reports
// whether the dialog closed. On failure fields are kept and the dialog stays
// open.
func (e *Editor) Finish(err error) bool {
	e.submitting = false
	if err != nil {
		e.deps.logger().Warn("save todo failed", "mode", e.mode, errAttr(err))
		e.deps.Notifier.Error(errorMessage(err))
		return false
	}

	if e.mode == ModeAdd {
		e.deps.Notifier.Success(AddedText)
	} else {
		e.deps.Notifier.Success(UpdatedText)
	}
	e.deps.Refresh.Trigger()
	e.open = false
	return true
}

// Submit runs a whole submission synchronously.
func (e *Editor) Submit(ctx context.Context) bool {
	req, ok := e.Begin()
	if !ok {
		return false
	}
	return e.Finish(req(ctx))
}

func (e *Editor) changed() bool {
	return e.bound.Title != e.title ||
		e.bound.Progress != e.progress ||
		e.bound.Description != e.description
}
