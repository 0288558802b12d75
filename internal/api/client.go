// Package api is the HTTP client for the remote todo service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
)

// CollectionPath is the task collection path relative to the backend address.
const CollectionPath = "/api/todos"

// Client wraps HTTP calls to the todo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service at backendURL. No request
// timeout is set; callers bound requests with their context.
func NewClient(backendURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(backendURL, "/") + CollectionPath,
		httpClient: &http.Client{},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the collection URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches all tasks.
func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, opList, http.MethodGet, "/", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Get fetches a single task.
func (c *Client) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, opGet, http.MethodGet, "/"+url.PathEscape(id), nil, &task)
	return task, err
}

// createRequest mirrors the create body field order: _id, name, progress, description.
type createRequest struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Progress    int    `json:"progress"`
	Description string `json:"description"`
}

// Create inserts a task.
func (c *Client) Create(ctx context.Context, t models.Task) (models.Task, error) {
	body := createRequest{
		ID:          t.ID,
		Name:        t.Name,
		Progress:    t.Progress,
		Description: t.Description,
	}
	var created models.Task
	err := c.do(ctx, opCreate, http.MethodPost, "/", body, &created)
	return created, err
}

// updateRequest mirrors the update body field order: _id, progress, name, description.
type updateRequest struct {
	ID          string `json:"_id"`
	Progress    int    `json:"progress"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Update replaces name, description and progress of the task identified by t.ID.
func (c *Client) Update(ctx context.Context, t models.Task) (models.Task, error) {
	body := updateRequest{
		ID:          t.ID,
		Progress:    t.Progress,
		Name:        t.Name,
		Description: t.Description,
	}
	var updated models.Task
	err := c.do(ctx, opUpdate, http.MethodPut, "/", body, &updated)
	return updated, err
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) (models.Task, error) {
	var deleted models.Task
	err := c.do(ctx, opDelete, http.MethodDelete, "/"+url.PathEscape(id), nil, &deleted)
	return deleted, err
}

func (c *Client) do(ctx context.Context, op Op, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return newFetchError(op, 0, nil, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return newFetchError(op, 0, nil, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fe := newFetchError(op, 0, nil, err)
		c.logger.Debug("request failed", "method", method, "path", path, "error", fe.Detail())
		return fe
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newFetchError(op, resp.StatusCode, nil, err)
	}

	c.logger.Debug("request done", "op", op, "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := newFetchError(op, resp.StatusCode, body, nil)
		c.logger.Debug("request rejected", "method", method, "path", path, "error", fe.Detail())
		return fe
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newFetchError(op, resp.StatusCode, nil, err)
	}
	return nil
}
