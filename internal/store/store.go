// Package store provides SQLite-backed persistence for the todo dev backend.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/todo/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a todo does not exist.
var ErrNotFound = errors.New("todo not found")

// ErrDuplicate is returned when creating a todo whose id is already taken.
var ErrDuplicate = errors.New("todo already exists")

// Store provides access to the todo SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		progress INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		task_id TEXT,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
	CREATE INDEX IF NOT EXISTS idx_audit_log_task_id ON audit_log(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Todo Operations ---

// ListTodos returns every todo, oldest first.
func (s *Store) ListTodos(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, progress FROM todos ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Progress); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, progress FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Progress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query todo: %w", err)
	}
	return &t, nil
}

// CreateTodo inserts a todo. An empty ID is replaced with a new UUID.
func (s *Store) CreateTodo(ctx context.Context, t models.Task) (*models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT id FROM todos WHERE id = ?`, t.ID).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing todo: %w", err)
	}
	if existing != "" {
		return nil, ErrDuplicate
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO todos (id, name, description, progress, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.Progress, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &t, nil
}

// UpdateTodo replaces the mutable fields of an existing todo.
func (s *Store) UpdateTodo(ctx context.Context, t models.Task) (*models.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE todos SET name = ?, description = ?, progress = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Description, t.Progress, s.now(), t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return &t, nil
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Audit Operations ---

// WriteAudit appends an audit entry.
func (s *Store) WriteAudit(ctx context.Context, action, inputsHash, outcome, taskID, details string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		ID:         uuid.New().String(),
		Action:     action,
		TaskID:     taskID,
		InputsHash: inputsHash,
		Outcome:    outcome,
		Details:    details,
		Timestamp:  s.now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, task_id, inputs_hash, outcome, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.TaskID, entry.InputsHash, entry.Outcome, entry.Details, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

// ListAudit returns the most recent audit entries, newest first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, task_id, inputs_hash, outcome, details, timestamp FROM audit_log ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		var taskID, details sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &taskID, &e.InputsHash, &e.Outcome, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.TaskID = taskID.String
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
