package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/fentz26/todo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	entries []models.AuditEntry
	err     error
}

func (m *memWriter) WriteAudit(_ context.Context, action, inputsHash, outcome, taskID, details string) (*models.AuditEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	e := models.AuditEntry{Action: action, InputsHash: inputsHash, Outcome: outcome, TaskID: taskID, Details: details}
	m.entries = append(m.entries, e)
	return &e, nil
}

func TestRecordOutcomes(t *testing.T) {
	w := &memWriter{}
	r := NewRecorder(w, nil)

	r.Record(context.Background(), "todo.create", map[string]string{"name": "x"}, "1", nil)
	r.Record(context.Background(), "todo.delete", map[string]string{"id": "2"}, "2", errors.New("todo not found"))

	require.Len(t, w.entries, 2)
	assert.Equal(t, OutcomeSuccess, w.entries[0].Outcome)
	assert.Empty(t, w.entries[0].Details)
	assert.Equal(t, OutcomeFailure, w.entries[1].Outcome)
	assert.Equal(t, "todo not found", w.entries[1].Details)
}

func TestRecordSwallowsWriteErrors(t *testing.T) {
	r := NewRecorder(&memWriter{err: errors.New("disk full")}, nil)
	assert.NotPanics(t, func() {
		r.Record(context.Background(), "todo.update", nil, "1", nil)
	})
}

func TestHashInputs(t *testing.T) {
	a := HashInputs(map[string]int{"progress": 10})
	b := HashInputs(map[string]int{"progress": 10})
	c := HashInputs(map[string]int{"progress": 20})

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "hash_error", HashInputs(make(chan int)))
}
