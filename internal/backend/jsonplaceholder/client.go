// Package jsonplaceholder implements service.Store over the JSONPlaceholder
// /todos REST resource.
package jsonplaceholder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"careerdash/internal/service"
)

const (
	// DefaultBaseURL is the public JSONPlaceholder service.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 5 * time.Second

	// userID is the owner sent with created todos.
	userID = 1

	maxBodySize = 1 << 20
)

// todo is the wire schema of a /todos resource.
type todo struct {
	ID        int    `json:"id" validate:"required"`
	UserID    int    `json:"userId,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type createRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

type patchRequest struct {
	Completed *bool `json:"completed,omitempty"`
}

// Client implements service.Store.
type Client struct {
	baseURL  string
	client   *http.Client
	timeout  time.Duration
	validate *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for baseURL, or DefaultBaseURL when empty.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{},
		timeout:  DefaultTimeout,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns at most limit todos.
func (c *Client) List(ctx context.Context, limit int) ([]service.Record, error) {
	path := "/todos"
	if limit > 0 {
		path += "?_limit=" + strconv.Itoa(limit)
	}

	var todos []todo
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, service.Wrap("list", "", err)
	}

	recs := make([]service.Record, 0, len(todos))
	for i, t := range todos {
		if err := c.validate.Struct(t); err != nil {
			return nil, service.Wrap("list", "", fmt.Errorf("%w: todo %d: %v", service.ErrInvalidResponse, i, err))
		}
		recs = append(recs, t.record())
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Create posts a new todo and returns it with the server-assigned ID.
func (c *Client) Create(ctx context.Context, rec service.Record) (service.Record, error) {
	body := createRequest{Title: rec.Title, Completed: rec.Completed, UserID: userID}

	var created todo
	if err := c.do(ctx, http.MethodPost, "/todos", body, &created); err != nil {
		return service.Record{}, service.Wrap("create", "", err)
	}
	if err := c.validate.Struct(created); err != nil {
		return service.Record{}, service.Wrap("create", "", fmt.Errorf("%w: %v", service.ErrInvalidResponse, err))
	}

	out := created.record()
	// The echo service may omit fields it was sent.
	if out.Title == "" {
		out.Title = rec.Title
	}
	return out, nil
}

// Update patches the todo with the given ID.
func (c *Client) Update(ctx context.Context, id string, patch service.Patch) error {
	body := patchRequest(patch)
	if err := c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id), body, nil); err != nil {
		return service.Wrap("update", id, err)
	}
	return nil
}

// Delete removes the todo with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil); err != nil {
		return service.Wrap("delete", id, err)
	}
	return nil
}

// do sends one request bounded by the client timeout and decodes a 2xx JSON
// body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return service.StatusError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidResponse, err)
	}
	return nil
}

func (t todo) record() service.Record {
	return service.Record{
		ID:        strconv.Itoa(t.ID),
		Title:     t.Title,
		Completed: t.Completed,
	}
}
