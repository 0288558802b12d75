package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 3 * time.Second

// maxToasts bounds the visible stack.
const maxToasts = 3

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

// notifier implements todo.Notifier by posting toasts to the program.
// Sends never block; toasts beyond the buffer are dropped.
type notifier struct {
	ch chan toast
}

func newNotifier() *notifier {
	return &notifier{ch: make(chan toast, 32)}
}

func (n *notifier) Success(msg string) { n.post(toastSuccess, msg) }

func (n *notifier) Error(msg string) { n.post(toastError, msg) }

func (n *notifier) post(kind toastKind, msg string) {
	select {
	case n.ch <- toast{kind: kind, text: msg}:
	default:
	}
}

// listen waits for the next toast.
func (n *notifier) listen() tea.Cmd {
	return func() tea.Msg {
		return toastMsg(<-n.ch)
	}
}

func expireToast(id int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
