package tui

// tasksFetchedMsg follows a completed list fetch. The controller already
// holds its outcome.
type tasksFetchedMsg struct {
	err error
}

// refreshMsg is delivered when the shared refresh signal changes. fetch is
// the re-fetch queued by the list controller.
type refreshMsg struct {
	fetch func() error
}

type toastMsg toast

type toastExpiredMsg struct {
	id int
}

// submitDoneMsg carries the outcome of an editor request.
type submitDoneMsg struct {
	err error
}

// mutationDoneMsg follows a toggle or delete. The refresh it triggers
// arrives separately.
type mutationDoneMsg struct {
	err error
}
