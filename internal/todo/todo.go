// Package todo holds the presentation-independent core of the task list:
// shared refresh and filter state, the list controller, the item presenter
// and the editor.
package todo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
)

// Store is the remote task collection. *api.Client implements it.
type Store interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	Update(ctx context.Context, t models.Task) (models.Task, error)
	Delete(ctx context.Context, id string) (models.Task, error)
}

// Notifier shows transient outcome messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Deps are the collaborators shared by presenters and editors.
type Deps struct {
	Store    Store
	Refresh  *RefreshSignal
	Notifier Notifier
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Discard()
}

// detailer is implemented by errors that carry more context for logs than
// their user-facing message, such as *api.FetchError.
type detailer interface {
	Detail() string
}

func errAttr(err error) slog.Attr {
	var d detailer
	if errors.As(err, &d) {
		return slog.String("error", d.Detail())
	}
	return slog.Any("error", err)
}
