package api

import (
	"encoding/json"
	"fmt"
)

// Op names a client operation.
type Op string

const (
	opList   Op = "list"
	opGet    Op = "get"
	opCreate Op = "create"
	opUpdate Op = "update"
	opDelete Op = "delete"
)

// Fallback messages used when the response carries none.
var defaultMessages = map[Op]string{
	opList:   "Failed to fetch todos",
	opGet:    "Failed to fetch todo",
	opCreate: "Failed to create todo",
	opUpdate: "Failed to update todo",
	opDelete: "Failed to delete todo",
}

// FetchError is the single error kind returned by Client. Network failures,
// 4xx and 5xx responses differ only in Status and Message.
type FetchError struct {
	Op      Op
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Detail describes the failure for logs.
func (e *FetchError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Message, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

func newFetchError(op Op, status int, body []byte, err error) *FetchError {
	msg := defaultMessages[op]
	if m := messageFromBody(body); m != "" {
		msg = m
	}
	return &FetchError{Op: op, Status: status, Message: msg, Err: err}
}

func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
