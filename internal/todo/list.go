package todo

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
)

// EmptyText is shown when no task survives filtering.
const EmptyText = "No Todos"

// Phase is the fetch lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ListController owns the in-memory copy of the task collection and its
// fetch lifecycle.
type ListController struct {
	store  Store
	filter *FilterState
	logger *slog.Logger

	mu      sync.Mutex
	tasks   []models.Task
	pending int // fetches begun but not yet completed
	loaded  bool
	err     string
	phase   Phase
}

// NewListController creates a controller reading f for display filtering.
func NewListController(store Store, f *FilterState, logger *slog.Logger) *ListController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ListController{
		store:  store,
		filter: f,
		logger: logger,
		phase:  PhaseLoading,
	}
}

// Begin enters the loading phase. The current collection is left in place.
// Every Begin must be paired with a Complete.
func (c *ListController) Begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending++
	c.phase = PhaseLoading
}

// Complete records the outcome of a fetch. On failure the previous
// collection is retained but hidden behind the error. The loading phase
// lasts until every begun fetch has completed; responses apply in arrival
// order.
func (c *ListController) Complete(tasks []models.Task, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending > 0 {
		c.pending--
	}
	c.loaded = true
	if err != nil {
		c.err = errorMessage(err)
		c.logger.Warn("fetch todos failed", errAttr(err))
	} else {
		c.tasks = tasks
		c.err = ""
		c.logger.Debug("fetched todos", "count", len(tasks))
	}
	switch {
	case c.pending > 0:
		c.phase = PhaseLoading
	case err != nil:
		c.phase = PhaseError
	default:
		c.phase = PhaseSuccess
	}
}

// Loading reports whether a fetch is in flight or none has completed yet.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading()
}

func (c *ListController) loading() bool {
	return c.pending > 0 || !c.loaded
}

// Fetch re-fetches the full collection.
func (c *ListController) Fetch(ctx context.Context) error {
	c.Begin()
	tasks, err := c.store.List(ctx)
	c.Complete(tasks, err)
	return err
}

// Scheduler decides where a re-fetch runs. It is handed the fetch and must
// eventually call it, or drop it when an equivalent fetch is already queued.
type Scheduler func(fetch func() error)

// Inline runs the fetch on the goroutine that triggered the signal.
func Inline(fetch func() error) { _ = fetch() }

// Watch re-fetches on every change of sig. A nil schedule runs fetches
// inline. The returned func unsubscribes.
func (c *ListController) Watch(ctx context.Context, sig *RefreshSignal, schedule Scheduler) func() {
	if schedule == nil {
		schedule = Inline
	}
	return sig.Subscribe(func(uint64) {
		schedule(func() error { return c.Fetch(ctx) })
	})
}

// Tasks returns a copy of the raw collection currently held.
func (c *ListController) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Snapshot is the render-ready state of the list.
type Snapshot struct {
	Phase   Phase
	Loading bool
	Loaded  bool // at least one fetch has completed
	Err     string
	Filter  models.Filter
	Items   []models.ViewTask
}

// Empty reports whether the placeholder should be shown instead of items.
func (s Snapshot) Empty() bool {
	return s.Loaded && s.Err == "" && len(s.Items) == 0
}

// Snapshot runs the render pipeline: map to view tasks stamped with now,
// sort by display time descending, then filter. While an error is set no
// items are returned.
func (c *ListController) Snapshot(now time.Time) Snapshot {
	c.mu.Lock()
	tasks := make([]models.Task, len(c.tasks))
	copy(tasks, c.tasks)
	snap := Snapshot{Phase: c.phase, Loading: c.loading(), Loaded: c.loaded, Err: c.err}
	c.mu.Unlock()

	snap.Filter = c.filter.Get()
	if snap.Err != "" {
		return snap
	}
	snap.Items = Visible(tasks, snap.Filter, now)
	return snap
}

// Visible applies map, sort and filter to tasks.
func Visible(tasks []models.Task, f models.Filter, now time.Time) []models.ViewTask {
	views := make([]models.ViewTask, len(tasks))
	for i, t := range tasks {
		views[i] = models.ToView(t, now)
	}

	// Every item carries the same transform time, so the stable sort keeps
	// fetch order.
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Time.After(views[j].Time)
	})

	out := make([]models.ViewTask, 0, len(views))
	for _, v := range views {
		if f.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}

const genericErrorText = "Something went wrong"

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericErrorText
}
