package todo

import (
	"context"
	"testing"
	"time"

	"github.com/fentz26/todo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemPresenterChecked(t *testing.T) {
	deps := Deps{}
	assert.False(t, NewItemPresenter(models.ViewTask{Progress: 99}, deps).Checked())
	assert.True(t, NewItemPresenter(models.ViewTask{Progress: 100}, deps).Checked())
}

func TestItemPresenterSetTaskRederivesChecked(t *testing.T) {
	p := NewItemPresenter(models.ViewTask{ID: "1", Progress: 0}, Deps{})
	p.BeginToggle()
	assert.True(t, p.Checked())

	// Unchanged progress after a failed update: the fetch wins.
	p.SetTask(models.ViewTask{ID: "1", Title: "renamed", Progress: 0})
	assert.False(t, p.Checked())
	assert.Equal(t, "renamed", p.Task().Title)

	p.SetTask(models.ViewTask{ID: "1", Progress: 100})
	assert.True(t, p.Checked())
	p.SetTask(models.ViewTask{ID: "1", Progress: 20})
	assert.False(t, p.Checked())
}

func TestToggleScenario(t *testing.T) {
	h := newHarness(models.Task{ID: "1", Name: "Buy milk", Progress: 0, Description: ""})
	ctx := context.Background()
	require.NoError(t, h.list.Fetch(ctx))

	snap := h.list.Snapshot(time.Now())
	require.Len(t, snap.Items, 1)
	item := snap.Items[0]
	assert.Equal(t, "Buy milk", item.Title)
	assert.Equal(t, models.StatusIncomplete, item.Status)

	p := NewItemPresenter(item, h.deps)
	require.NoError(t, p.Toggle(ctx))

	assert.True(t, p.Checked())
	require.Len(t, h.store.Updated, 1)
	assert.Equal(t, models.Task{ID: "1", Progress: 100, Name: "Buy milk", Description: ""}, h.store.Updated[0])
	assert.Equal(t, 2, h.store.ListCalls, "toggle triggers exactly one re-fetch")

	snap = h.list.Snapshot(time.Now())
	assert.Equal(t, models.StatusComplete, snap.Items[0].Status)
}

func TestToggleUncheckSendsZeroProgress(t *testing.T) {
	h := newHarness()
	p := NewItemPresenter(models.ViewTask{ID: "7", Title: "Done", Progress: 100, Description: "x"}, h.deps)

	require.NoError(t, p.Toggle(context.Background()))
	assert.False(t, p.Checked())
	assert.Equal(t, models.Task{ID: "7", Name: "Done", Progress: 0, Description: "x"}, h.store.Updated[0])
}

// A failed toggle still refreshes and leaves the optimistic flip in place
// until a fetch corrects it: there is no rollback.
func TestToggleFailureKeepsOptimisticState(t *testing.T) {
	h := newHarness(models.Task{ID: "1", Name: "Buy milk"})
	h.store.UpdateErr = errFake

	p := NewItemPresenter(models.ToView(h.store.tasks[0], time.Now()), h.deps)
	err := p.Toggle(context.Background())

	require.ErrorIs(t, err, errFake)
	assert.True(t, p.Checked(), "local state is not rolled back")
	assert.Equal(t, uint64(1), h.refresh.Value())
	assert.Equal(t, 1, h.store.ListCalls)
	assert.Empty(t, h.notifier.Items, "toggle failures are not surfaced")

	p.SetTask(h.list.Snapshot(time.Now()).Items[0])
	assert.False(t, p.Checked(), "the refresh corrects the flip")
}

func TestDeleteSuccess(t *testing.T) {
	h := newHarness(models.Task{ID: "1", Name: "Buy milk"})
	p := NewItemPresenter(models.ToView(h.store.tasks[0], time.Now()), h.deps)

	require.NoError(t, p.Delete(context.Background()))
	assert.Equal(t, []string{"1"}, h.store.Deleted)
	assert.Equal(t, []notification{{"success", DeletedText}}, h.notifier.Items)
	assert.Equal(t, uint64(1), h.refresh.Value())
	assert.Equal(t, 1, h.store.ListCalls)
	assert.Empty(t, h.list.Tasks())
}

func TestDeleteFailureIsSilent(t *testing.T) {
	h := newHarness(models.Task{ID: "1", Name: "Buy milk"})
	h.store.DeleteErr = errFake
	p := NewItemPresenter(models.ToView(h.store.tasks[0], time.Now()), h.deps)

	require.Error(t, p.Delete(context.Background()))
	assert.Empty(t, h.notifier.Items)
	assert.Zero(t, h.refresh.Value())
	assert.Zero(t, h.store.ListCalls)
}
