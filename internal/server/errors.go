package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinel errors for todo service operations.
var (
	ErrTodoNotFound = errors.New("Todo not found")
	ErrTodoExists   = errors.New("Todo already exists")
	ErrInvalidTodo  = errors.New("invalid todo")
)

// ValidationError describes why a request body was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidTodo }

type errorResponse struct {
	Message string `json:"message"`
}

// writeError responds with {"message": ...}, the shape the todo client reads.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTodoExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTodo):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
