package todo

import (
	"context"

	"github.com/fentz26/todo/internal/models"
)

// DeletedText is the notification shown after a successful delete.
const DeletedText = "Todo Deleted Successfully"

// ItemPresenter drives one task row. It keeps a local checked mirror of
// completion that is flipped optimistically on toggle and only corrected by
// the next fetch.
type ItemPresenter struct {
	deps    Deps
	task    models.ViewTask
	checked bool
}

// NewItemPresenter creates a presenter for task.
func NewItemPresenter(task models.ViewTask, deps Deps) *ItemPresenter {
	return &ItemPresenter{
		deps:    deps,
		task:    task,
		checked: task.Progress >= models.CompleteProgress,
	}
}

// Task returns the bound task.
func (p *ItemPresenter) Task() models.ViewTask {
	return p.task
}

// Checked returns the local completion mirror.
func (p *ItemPresenter) Checked() bool {
	return p.checked
}

// SetTask rebinds the presenter to the result of a completed fetch. checked
// is re-derived from progress, discarding any optimistic flip.
func (p *ItemPresenter) SetTask(task models.ViewTask) {
	p.task = task
	p.checked = task.Progress >= models.CompleteProgress
}

// BeginToggle flips checked and returns the update to send. Progress becomes
// 100 when the task is being checked and 0 otherwise.
func (p *ItemPresenter) BeginToggle() models.Task {
	wasChecked := p.checked
	p.checked = !wasChecked

	update := p.task.Task()
	if wasChecked {
		update.Progress = 0
	} else {
		update.Progress = models.CompleteProgress
	}
	return update
}

// FinishToggle sends update and then triggers a refresh, whether or not the
// update succeeded. A failure is logged only; checked is not rolled back.
func (p *ItemPresenter) FinishToggle(ctx context.Context, update models.Task) error {
	_, err := p.deps.Store.Update(ctx, update)
	if err != nil {
		p.deps.logger().Warn("toggle todo failed", "id", update.ID, "progress", update.Progress, errAttr(err))
	}
	p.deps.Refresh.Trigger()
	return err
}

// Toggle flips completion and persists it.
func (p *ItemPresenter) Toggle(ctx context.Context) error {
	return p.FinishToggle(ctx, p.BeginToggle())
}

// Delete removes the task. Success notifies and triggers a refresh; failure
// is logged only.
func (p *ItemPresenter) Delete(ctx context.Context) error {
	return DeleteTask(ctx, p.deps, p.task.ID)
}

// DeleteTask deletes id with the presenter's outcome handling.
func DeleteTask(ctx context.Context, deps Deps, id string) error {
	if _, err := deps.Store.Delete(ctx, id); err != nil {
		deps.logger().Warn("delete todo failed", "id", id, errAttr(err))
		return err
	}
	deps.Notifier.Success(DeletedText)
	deps.Refresh.Trigger()
	return nil
}
