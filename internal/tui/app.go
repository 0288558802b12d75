// Package tui provides the interactive terminal UI for the todo list.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/todo"
)

// TimeFormat renders a task's display time.
const TimeFormat = "3:04 PM, 01/02/2006"

// Options configures an App.
type Options struct {
	Store      todo.Store
	BackendURL string
	Filter     models.Filter
	Logger     *slog.Logger
	// Now stamps view tasks; defaults to time.Now.
	Now func() time.Time
}

// App is the main TUI application model.
type App struct {
	ctx     context.Context
	backend string
	logger  *slog.Logger
	now     func() time.Time

	refresh     *todo.RefreshSignal
	filter      *todo.FilterState
	list        *todo.ListController
	deps        todo.Deps
	notes       *notifier
	refreshCh   chan func() error
	unsubscribe func()

	snap       todo.Snapshot
	presenters map[string]*todo.ItemPresenter
	cursor     int

	addForm  *form
	editForm *form
	active   *form

	toasts    []toast
	nextToast int

	spinner spinner.Model
	width   int
	height  int
}

// New creates a new TUI application. ctx bounds every request it makes.
func New(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	refresh := todo.NewRefreshSignal()
	filter := todo.NewFilterState(opts.Filter)
	notes := newNotifier()
	deps := todo.Deps{
		Store:    opts.Store,
		Refresh:  refresh,
		Notifier: notes,
		Logger:   logger,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	a := &App{
		ctx:        ctx,
		backend:    opts.BackendURL,
		logger:     logger,
		now:        now,
		refresh:    refresh,
		filter:     filter,
		list:       todo.NewListController(opts.Store, filter, logger),
		deps:       deps,
		notes:      notes,
		refreshCh:  make(chan func() error, 1),
		presenters: make(map[string]*todo.ItemPresenter),
		addForm:    newForm(todo.ModeAdd, deps),
		editForm:   newForm(todo.ModeUpdate, deps),
		spinner:    sp,
		width:      80,
	}

	a.unsubscribe = a.list.Watch(ctx, refresh, a.schedule)
	a.resync(false)
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.unsubscribe()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.fetch(),
		a.waitForRefresh(),
		a.notes.listen(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.active != nil {
			return a, a.updateForm(msg)
		}
		return a, a.updateList(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tasksFetchedMsg:
		a.resync(true)

	case refreshMsg:
		return a, tea.Batch(a.runFetch(msg.fetch), a.waitForRefresh())

	case toastMsg:
		a.nextToast++
		t := toast(msg)
		t.id = a.nextToast
		a.toasts = append(a.toasts, t)
		if len(a.toasts) > maxToasts {
			a.toasts = a.toasts[len(a.toasts)-maxToasts:]
		}
		return a, tea.Batch(a.notes.listen(), expireToast(t.id))

	case toastExpiredMsg:
		for i, t := range a.toasts {
			if t.id == msg.id {
				a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
				break
			}
		}

	case submitDoneMsg:
		if a.active != nil && a.active.editor.Finish(msg.err) {
			a.active.close()
			a.active = nil
		}

	case mutationDoneMsg:
		// Outcome already surfaced by the presenter; the refresh follows.
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}

	case "down", "j":
		if a.cursor < len(a.snap.Items)-1 {
			a.cursor++
		}

	case " ", "space", "x":
		p := a.selected()
		if p == nil {
			return nil
		}
		update := p.BeginToggle()
		ctx := a.ctx
		return func() tea.Msg {
			return mutationDoneMsg{err: p.FinishToggle(ctx, update)}
		}

	case "d", "delete":
		p := a.selected()
		if p == nil {
			return nil
		}
		id := p.Task().ID
		ctx, deps := a.ctx, a.deps
		return func() tea.Msg {
			return mutationDoneMsg{err: todo.DeleteTask(ctx, deps, id)}
		}

	case "e", "enter":
		p := a.selected()
		if p == nil {
			return nil
		}
		task := p.Task()
		a.active = a.editForm
		return a.editForm.open(&task)

	case "a":
		a.active = a.addForm
		return a.addForm.open(nil)

	case "f", "tab":
		a.filter.Cycle()
		a.resync(false)

	case "r":
		a.refresh.Trigger()
	}
	return nil
}

func (a *App) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		if !a.active.editor.Submitting() {
			a.active.close()
			a.active = nil
		}
		return nil
	case "ctrl+s":
		return a.active.submit(a.ctx)
	case "enter":
		if a.active.focus != fieldDescription {
			return a.active.submit(a.ctx)
		}
	}
	return a.active.update(msg)
}

// fetch requests the full collection through the list controller.
func (a *App) fetch() tea.Cmd {
	list, ctx := a.list, a.ctx
	return a.runFetch(func() error { return list.Fetch(ctx) })
}

// runFetch runs fetch off the update loop and reports its completion.
func (a *App) runFetch(fetch func() error) tea.Cmd {
	return func() tea.Msg {
		return tasksFetchedMsg{err: fetch()}
	}
}

// schedule queues a re-fetch for the update loop. Triggers may come from
// command goroutines or from Update itself, so it never blocks; a fetch
// already queued covers later triggers.
func (a *App) schedule(fetch func() error) {
	select {
	case a.refreshCh <- fetch:
	default:
	}
}

func (a *App) waitForRefresh() tea.Cmd {
	ch := a.refreshCh
	return func() tea.Msg {
		return refreshMsg{fetch: <-ch}
	}
}

// resync recomputes the visible list. After a completed fetch it also
// rebinds presenters and the open update dialog to the fetched tasks,
// which discards any optimistic toggle state.
func (a *App) resync(fetched bool) {
	now := a.now()
	a.snap = a.list.Snapshot(now)

	for _, item := range a.snap.Items {
		if p, ok := a.presenters[item.ID]; ok {
			if fetched {
				p.SetTask(item)
			}
		} else {
			a.presenters[item.ID] = todo.NewItemPresenter(item, a.deps)
		}
	}

	current := make(map[string]models.Task)
	for _, t := range a.list.Tasks() {
		current[t.ID] = t
	}
	for id := range a.presenters {
		if _, ok := current[id]; !ok {
			delete(a.presenters, id)
		}
	}

	if fetched && a.editForm.editor.IsOpen() {
		if bound := a.editForm.editor.Bound(); bound != nil {
			if t, ok := current[bound.ID]; ok {
				a.editForm.editor.Rebind(models.ToView(t, now))
			}
		}
	}

	if a.cursor >= len(a.snap.Items) {
		a.cursor = len(a.snap.Items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) selected() *todo.ItemPresenter {
	if a.snap.Err != "" || a.cursor >= len(a.snap.Items) {
		return nil
	}
	return a.presenters[a.snap.Items[a.cursor].ID]
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("TODO")
	if a.backend != "" {
		header += "  " + mutedStyle.Render(a.backend)
	}
	// Read live: fetches begin and end on command goroutines.
	if a.list.Loading() && a.snap.Loaded {
		header += "  " + a.spinner.View()
	}
	b.WriteString(header + "\n")
	b.WriteString(a.renderFilters() + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 1)) + "\n")

	if a.active != nil {
		b.WriteString(a.active.view() + "\n")
	} else {
		b.WriteString(a.renderList() + "\n")
	}

	if len(a.toasts) > 0 {
		b.WriteString("\n" + a.renderToasts() + "\n")
	}

	b.WriteString("\n" + statusBarStyle.Width(max(a.width, 1)).Render(a.statusLine()))
	return b.String()
}

func (a *App) renderFilters() string {
	labels := make([]string, 0, len(models.Filters))
	for _, f := range models.Filters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == a.snap.Filter {
			labels = append(labels, activeFilterStyle.Render(label))
		} else {
			labels = append(labels, mutedStyle.Render(label))
		}
	}
	return " " + strings.Join(labels, mutedStyle.Render(" | "))
}

func (a *App) renderList() string {
	switch {
	case !a.snap.Loaded:
		return "\n  " + a.spinner.View() + " Loading todos...\n"
	case a.snap.Err != "":
		return "\n  " + errorTextStyle.Render(a.snap.Err) + "\n"
	case a.snap.Empty():
		return "\n  " + mutedStyle.Render(todo.EmptyText) + "\n"
	}

	lines := make([]string, 0, len(a.snap.Items))
	for i, item := range a.snap.Items {
		checked := item.Progress >= models.CompleteProgress
		if p, ok := a.presenters[item.ID]; ok {
			checked = p.Checked()
		}
		lines = append(lines, a.renderItem(item, checked, i == a.cursor))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderItem(item models.ViewTask, checked, selected bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	meta := fmt.Sprintf("%3d%%  %s", item.Progress, item.Time.Format(TimeFormat))

	if selected {
		line := selectedStyle.Render(fmt.Sprintf("▶ %s %s", box, item.Title)) + "  " + progressStyle.Render(meta)
		if item.Description != "" {
			line += "\n      " + mutedStyle.Render(item.Description)
		}
		return line
	}

	title := item.Title
	if checked {
		title = doneStyle.Render(title)
	}
	return itemStyle.Render(fmt.Sprintf("  %s %s", box, title)) + "  " + mutedStyle.Render(meta)
}

func (a *App) renderToasts() string {
	rendered := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		style := successToastStyle
		if t.kind == toastError {
			style = errorToastStyle
		}
		rendered = append(rendered, style.Render(t.text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (a *App) statusLine() string {
	if a.active != nil {
		return " ctrl+s/enter:save | tab:next field | esc:cancel"
	}
	return fmt.Sprintf(" Todos: %d | ↑↓/jk:nav | space:toggle | a:add | e:edit | d:delete | f:filter | r:refresh | q:quit", len(a.snap.Items))
}
