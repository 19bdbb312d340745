// Package googletasks implements the service.Store interface using one list of
// the Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"careerdash/internal/config"
	"careerdash/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks fetched when no limit is given.
	PageSize = 100

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Store using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a new Google Tasks client for the list and timeout in cfg.Settings.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	c, err := NewWithHTTPClient(ctx, httpClient, cfg.Settings.TaskList)
	if err != nil {
		return nil, err
	}
	if cfg.Settings.Timeout > 0 {
		c.timeout = cfg.Settings.Timeout
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options such as option.WithEndpoint are passed to the Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	if listID == "" {
		listID = DefaultListID
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: listID, timeout: APITimeout}, nil
}

// List returns at most limit tasks of the list, completed and hidden ones included.
func (c *Client) List(ctx context.Context, limit int) ([]service.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pageSize := int64(limit)
	if limit <= 0 || limit > PageSize {
		pageSize = PageSize
	}

	resp, err := c.svc.Tasks.List(c.listID).
		MaxResults(pageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError("list", "", err)
	}

	recs := make([]service.Record, 0, len(resp.Items))
	for _, task := range resp.Items {
		if task.Id == "" {
			return nil, service.Wrap("list", "", fmt.Errorf("%w: task without id", service.ErrInvalidResponse))
		}
		recs = append(recs, record(task))
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Create inserts a new task at the top of the list.
func (c *Client) Create(ctx context.Context, rec service.Record) (service.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  rec.Title,
		Status: status(rec.Completed),
	}).Context(ctx).Do()
	if err != nil {
		return service.Record{}, wrapError("create", "", err)
	}
	if created.Id == "" {
		return service.Record{}, service.Wrap("create", "", fmt.Errorf("%w: task without id", service.ErrInvalidResponse))
	}
	return record(created), nil
}

// Update patches the status of a task.
func (c *Client) Update(ctx context.Context, id string, patch service.Patch) error {
	if patch.Completed == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	task := &tasks.Task{Status: status(*patch.Completed)}
	if !*patch.Completed {
		// Reopening a task requires clearing its completion time.
		task.NullFields = []string{"Completed"}
	}

	if _, err := c.svc.Tasks.Patch(c.listID, id, task).Context(ctx).Do(); err != nil {
		return wrapError("update", id, err)
	}
	return nil
}

// Delete deletes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError("delete", id, err)
	}
	return nil
}

func record(task *tasks.Task) service.Record {
	return service.Record{
		ID:        task.Id,
		Title:     task.Title,
		Completed: task.Status == statusCompleted,
	}
}

func status(completed bool) string {
	if completed {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError classifies API errors into service failure kinds.
func wrapError(op, id string, err error) error {
	var apiErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		kind := service.StatusError(apiErr.Code)
		if apiErr.Message != "" {
			kind = fmt.Errorf("%w: %s", kind, apiErr.Message)
		}
		err = kind
	case errors.Is(err, context.DeadlineExceeded):
		// service.Wrap reports it as a timeout.
	default:
		err = fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	return service.Wrap(op, id, err)
}
