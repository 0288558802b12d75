package todo

import (
	"context"
	"errors"
	"sync"

	"github.com/fentz26/todo/internal/models"
)

var errFake = errors.New("fake store failure")

// fakeStore is an in-memory Store with call recording and error injection.
type fakeStore struct {
	mu    sync.Mutex
	tasks []models.Task

	ListCalls int
	Created   []models.Task
	Updated   []models.Task
	Deleted   []string

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

func newFakeStore(tasks ...models.Task) *fakeStore {
	return &fakeStore{tasks: tasks}
}

func (f *fakeStore) List(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, errors.New("Todo not found")
}

func (f *fakeStore) Create(ctx context.Context, t models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, t)
	if f.CreateErr != nil {
		return models.Task{}, f.CreateErr
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeStore) Update(ctx context.Context, t models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updated = append(f.Updated, t)
	if f.UpdateErr != nil {
		return models.Task{}, f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = t
		}
	}
	return t, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	if f.DeleteErr != nil {
		return models.Task{}, f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return t, nil
		}
	}
	return models.Task{}, nil
}

type notification struct {
	Kind string
	Msg  string
}

// recordingNotifier collects notifications in order.
type recordingNotifier struct {
	mu    sync.Mutex
	Items []notification
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Items = append(n.Items, notification{"success", msg})
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Items = append(n.Items, notification{"error", msg})
}

type harness struct {
	store    *fakeStore
	notifier *recordingNotifier
	refresh  *RefreshSignal
	filter   *FilterState
	list     *ListController
	deps     Deps
}

// newHarness wires a controller that re-fetches on every refresh signal.
func newHarness(tasks ...models.Task) *harness {
	h := &harness{
		store:    newFakeStore(tasks...),
		notifier: &recordingNotifier{},
		refresh:  NewRefreshSignal(),
		filter:   NewFilterState(models.FilterAll),
	}
	h.list = NewListController(h.store, h.filter, nil)
	h.list.Watch(context.Background(), h.refresh, nil)
	h.deps = Deps{Store: h.store, Refresh: h.refresh, Notifier: h.notifier}
	return h
}
