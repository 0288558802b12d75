// Package audit records state-changing requests handled by the dev backend.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/fentz26/todo/internal/models"
)

// Outcomes written to the log.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Writer persists audit entries. *store.Store implements it.
type Writer interface {
	WriteAudit(ctx context.Context, action, inputsHash, outcome, taskID, details string) (*models.AuditEntry, error)
}

// Recorder writes audit entries for mutations. Write failures are logged and
// never fail the request being audited.
type Recorder struct {
	w      Writer
	logger *slog.Logger
}

// NewRecorder creates a Recorder. logger may be nil.
func NewRecorder(w Writer, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{w: w, logger: logger}
}

// Record writes an entry for action. err selects the outcome and, when
// non-nil, becomes the entry details.
func (r *Recorder) Record(ctx context.Context, action string, inputs interface{}, taskID string, err error) {
	outcome, details := OutcomeSuccess, ""
	if err != nil {
		outcome, details = OutcomeFailure, err.Error()
	}
	if _, werr := r.w.WriteAudit(ctx, action, HashInputs(inputs), outcome, taskID, details); werr != nil {
		r.logger.Warn("audit write failed", "action", action, "task_id", taskID, "error", werr)
	}
}

// HashInputs returns the SHA256 of the JSON encoding of inputs.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
