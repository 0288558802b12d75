// Package server is a small HTTP backend for the todo client, used for local
// development and tests.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fentz26/todo/internal/audit"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/store"
	"github.com/go-playground/validator/v10"
)

// Service provides the todo business logic behind the HTTP handlers.
type Service struct {
	store    *store.Store
	audit    *audit.Recorder
	validate *validator.Validate
}

// NewService creates a new todo service.
func NewService(s *store.Store, rec *audit.Recorder) *Service {
	return &Service{
		store:    s,
		audit:    rec,
		validate: validator.New(),
	}
}

// List returns every todo.
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTodos(ctx)
}

// Get retrieves a todo by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.store.GetTodo(ctx, id)
	return t, translate(err)
}

// Create validates and inserts a todo.
func (s *Service) Create(ctx context.Context, t models.Task) (*models.Task, error) {
	if err := s.check(t); err != nil {
		s.audit.Record(ctx, "todo.create", t, t.ID, err)
		return nil, err
	}
	created, err := s.store.CreateTodo(ctx, t)
	err = translate(err)

	id := t.ID
	if created != nil {
		id = created.ID
	}
	s.audit.Record(ctx, "todo.create", t, id, err)
	return created, err
}

// Update replaces name, description and progress of an existing todo.
func (s *Service) Update(ctx context.Context, t models.Task) (*models.Task, error) {
	err := s.check(t)
	if err == nil && t.ID == "" {
		err = &ValidationError{Message: "_id is required"}
	}
	if err != nil {
		s.audit.Record(ctx, "todo.update", t, t.ID, err)
		return nil, err
	}
	updated, err := s.store.UpdateTodo(ctx, t)
	err = translate(err)
	s.audit.Record(ctx, "todo.update", t, t.ID, err)
	return updated, err
}

// Delete removes a todo and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*models.Task, error) {
	existing, err := s.store.GetTodo(ctx, id)
	if err == nil {
		err = s.store.DeleteTodo(ctx, id)
	}
	err = translate(err)
	s.audit.Record(ctx, "todo.delete", map[string]string{"_id": id}, id, err)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Audit returns recent audit entries.
func (s *Service) Audit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.store.ListAudit(ctx, limit)
}

// Ping checks the backing database.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) check(t models.Task) error {
	err := s.validate.Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate todo: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			msgs = append(msgs, "name is required")
		case "Progress":
			msgs = append(msgs, "progress must be between 0 and 100")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return &ValidationError{Message: strings.Join(msgs, "; ")}
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrTodoNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrTodoExists
	default:
		return err
	}
}
