package todo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fentz26/todo/internal/api"
	"github.com/fentz26/todo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorOpenResetsFields(t *testing.T) {
	h := newHarness()
	add := NewEditor(ModeAdd, h.deps)
	add.Open(nil)
	add.SetTitle("draft")
	add.SetProgress(30)
	add.Close()

	add.Open(nil)
	assert.True(t, add.IsOpen())
	assert.Empty(t, add.Title())
	assert.Empty(t, add.Description())
	assert.Zero(t, add.Progress())

	task := models.ViewTask{ID: "1", Title: "Walk", Description: "dog", Progress: 40}
	upd := NewEditor(ModeUpdate, h.deps)
	upd.Open(&task)
	assert.Equal(t, "Walk", upd.Title())
	assert.Equal(t, "dog", upd.Description())
	assert.Equal(t, 40, upd.Progress())
}

func TestEditorProgressEntry(t *testing.T) {
	e := NewEditor(ModeAdd, Deps{})
	e.Open(nil)

	assert.True(t, e.SetProgress(100))
	assert.Equal(t, 100, e.Progress())
	assert.False(t, e.SetProgress(101))
	assert.Equal(t, 100, e.Progress(), "values above 100 are rejected")
	assert.True(t, e.SetProgress(-5))
	assert.Equal(t, 0, e.Progress())

	assert.True(t, e.SetProgressText("42"))
	assert.Equal(t, 42, e.Progress())
	assert.False(t, e.SetProgressText("4x"))
	assert.Equal(t, 42, e.Progress())
	assert.True(t, e.SetProgressText(""))
	assert.Equal(t, 0, e.Progress())
}

func TestEditorAddEmptyTitle(t *testing.T) {
	h := newHarness()
	e := NewEditor(ModeAdd, h.deps)
	e.Open(nil)
	e.SetDescription("no title")

	assert.False(t, e.Submit(context.Background()))
	assert.Empty(t, h.store.Created)
	assert.Equal(t, []notification{{"error", TitleRequiredText}}, h.notifier.Items)
	assert.True(t, e.IsOpen())
	assert.Zero(t, h.refresh.Value())
}

func TestEditorAddSuccess(t *testing.T) {
	h := newHarness()
	e := NewEditor(ModeAdd, h.deps)
	e.newID = func() string { return "fixed-id" }
	e.Open(nil)
	e.SetTitle("Buy milk")
	e.SetDescription("2%")
	e.SetProgress(10)

	assert.True(t, e.Submit(context.Background()))
	assert.Equal(t, []models.Task{{ID: "fixed-id", Name: "Buy milk", Progress: 10, Description: "2%"}}, h.store.Created)
	assert.Equal(t, []notification{{"success", AddedText}}, h.notifier.Items)
	assert.False(t, e.IsOpen())
	assert.Equal(t, 1, h.store.ListCalls, "one re-fetch per successful mutation")
}

func TestEditorAddGeneratesUniqueIDs(t *testing.T) {
	h := newHarness()
	e := NewEditor(ModeAdd, h.deps)
	for i := 0; i < 2; i++ {
		e.Open(nil)
		e.SetTitle("task")
		require.True(t, e.Submit(context.Background()))
	}
	require.Len(t, h.store.Created, 2)
	assert.NotEmpty(t, h.store.Created[0].ID)
	assert.NotEqual(t, h.store.Created[0].ID, h.store.Created[1].ID)
}

func TestEditorUpdateNoChanges(t *testing.T) {
	h := newHarness()
	task := models.ViewTask{ID: "1", Title: "Walk", Description: "dog", Progress: 40}
	e := NewEditor(ModeUpdate, h.deps)
	e.Open(&task)

	assert.False(t, e.Submit(context.Background()))
	assert.Empty(t, h.store.Updated)
	assert.Equal(t, []notification{{"error", NoChangesText}}, h.notifier.Items)
	assert.True(t, e.IsOpen())
}

func TestEditorUpdateSendsFullFieldSet(t *testing.T) {
	tests := []struct {
		name   string
		change func(e *Editor)
		want   models.Task
	}{
		{"title", func(e *Editor) { e.SetTitle("Run") }, models.Task{ID: "1", Name: "Run", Description: "dog", Progress: 40}},
		{"description", func(e *Editor) { e.SetDescription("cat") }, models.Task{ID: "1", Name: "Walk", Description: "cat", Progress: 40}},
		{"progress", func(e *Editor) { e.SetProgress(100) }, models.Task{ID: "1", Name: "Walk", Description: "dog", Progress: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			task := models.ViewTask{ID: "1", Title: "Walk", Description: "dog", Progress: 40}
			e := NewEditor(ModeUpdate, h.deps)
			e.Open(&task)
			tt.change(e)

			assert.True(t, e.Submit(context.Background()))
			assert.Equal(t, []models.Task{tt.want}, h.store.Updated)
			assert.Equal(t, []notification{{"success", UpdatedText}}, h.notifier.Items)
			assert.Equal(t, uint64(1), h.refresh.Value())
			assert.False(t, e.IsOpen())
		})
	}
}

func TestEditorRefusesDuplicateSubmission(t *testing.T) {
	h := newHarness()
	e := NewEditor(ModeAdd, h.deps)
	e.Open(nil)
	e.SetTitle("once")

	req, ok := e.Begin()
	require.True(t, ok)
	assert.True(t, e.Submitting())

	_, again := e.Begin()
	assert.False(t, again)

	e.SetTitle("changed while busy")
	assert.Equal(t, "once", e.Title(), "inputs are disabled while submitting")

	assert.True(t, e.Finish(req(context.Background())))
	assert.False(t, e.Submitting())
	assert.Len(t, h.store.Created, 1)
}

func TestEditorFailureKeepsDialogOpen(t *testing.T) {
	h := newHarness()
	h.store.CreateErr = errFake
	e := NewEditor(ModeAdd, h.deps)
	e.Open(nil)
	e.SetTitle("Buy milk")
	e.SetProgress(50)

	assert.False(t, e.Submit(context.Background()))
	assert.True(t, e.IsOpen())
	assert.Equal(t, "Buy milk", e.Title())
	assert.Equal(t, 50, e.Progress())
	assert.Equal(t, []notification{{"error", errFake.Error()}}, h.notifier.Items)
	assert.Zero(t, h.refresh.Value())
}

func TestEditorCreateTransportErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	h := newHarness()
	h.deps.Store = api.NewClient(srv.URL)
	e := NewEditor(ModeAdd, h.deps)
	e.Open(nil)
	e.SetTitle("Buy milk")
	e.SetDescription("2%")

	assert.False(t, e.Submit(context.Background()))
	assert.Equal(t, []notification{{"error", "Failed to create todo"}}, h.notifier.Items)
	assert.True(t, e.IsOpen())
	assert.Equal(t, "Buy milk", e.Title())
	assert.Equal(t, "2%", e.Description())
}

func TestErrorMessageFallback(t *testing.T) {
	assert.Equal(t, genericErrorText, errorMessage(&api.FetchError{}))
	assert.Equal(t, "boom", errorMessage(&api.FetchError{Message: "boom"}))
}
