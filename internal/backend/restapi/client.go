// Package restapi implements service.Service over the REST task API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
)

// Client implements service.Service using the REST task API.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	log     *log.Helper

	// onUnauthorized runs when the API answers 401.
	onUnauthorized func()
}

// New creates a client for cfg.BaseURL. If a token is stored it is sent as a
// bearer token; with an OAuth client file and a refresh token it is
// refreshed automatically.
func New(ctx context.Context, cfg *config.Config, logger log.Logger) (*Client, error) {
	base := &http.Client{Transport: newLoggingTransport(http.DefaultTransport, logger)}

	httpClient := base
	if cfg.HasToken() {
		ts, err := tokenSource(ctx, cfg, base)
		if err != nil {
			return nil, credentialError{err}
		}
		httpClient = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	}

	c := NewWithHTTPClient(httpClient, cfg.BaseURL, cfg.Timeout, logger)
	c.onUnauthorized = func() {
		// Same as the web client: a rejected token is dropped so the next
		// run asks for a fresh login.
		if err := cfg.RemoveToken(); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.log.Warnw("msg", "failed to remove rejected token", "err", err)
		}
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL string, timeout time.Duration, logger log.Logger) *Client {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		log:     log.NewHelper(logging.OrDiscard(logger)),
	}
}

// credentialError reports unusable stored credentials. It matches
// service.ErrUnauthorized and keeps the cause's message.
type credentialError struct {
	err error
}

func (e credentialError) Error() string   { return e.err.Error() }
func (e credentialError) Unwrap() []error { return []error{service.ErrUnauthorized, e.err} }

// tokenSource loads token.json. With oauth_client.json present and a refresh
// token available the source refreshes; otherwise the token is static.
func tokenSource(ctx context.Context, cfg *config.Config, base *http.Client) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("invalid token.json: missing access_token")
	}

	if token.RefreshToken == "" || !cfg.HasOAuthClient() {
		return oauth2.StaticTokenSource(&token), nil
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, cfg.OAuthScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauthConfig.TokenSource(ctx, &token), nil
}

// ListTasks returns all tasks.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a task by ID.
func (c *Client) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// TasksByStatus returns tasks with the given status.
func (c *Client) TasksByStatus(ctx context.Context, status service.Status) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/status/"+url.PathEscape(string(status)), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SearchTasks runs a keyword search.
func (c *Client) SearchTasks(ctx context.Context, keyword string) ([]service.Task, error) {
	var tasks []service.Task
	path := "/tasks/search?keyword=" + url.QueryEscape(keyword)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces a task's editable fields.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id service.ID) string {
	return "/tasks/" + url.PathEscape(string(id))
}

// do sends one request. body, if non-nil, is JSON encoded; out, if non-nil,
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return c.wrapError(err)
	}
	defer googleapi.CloseBody(res)

	if err := googleapi.CheckResponse(res); err != nil {
		return c.wrapError(err)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return c.wrapError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from %s %s: %w", method, path, err)
	}
	return nil
}

// wrapError maps transport and API errors to service errors with
// user-friendly messages.
func (c *Client) wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := apiMessage(apiErr)
	switch {
	case apiErr.Code == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%w (run: taskdeck login)", service.ErrUnauthorized)
	case apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: forbidden", service.ErrUnauthorized)
	case apiErr.Code == http.StatusNotFound:
		return service.ErrNotFound
	case apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusUnprocessableEntity:
		if msg == "" {
			return service.ErrBadRequest
		}
		return fmt.Errorf("%w: %s", service.ErrBadRequest, msg)
	default:
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return fmt.Errorf("server error (%d): %s", apiErr.Code, msg)
	}
}

// apiMessage extracts a readable message from the error body. The task API
// answers with {"message": "..."} or {"error": "..."}; googleapi already
// handles the {"error": {"message": ...}} form.
func apiMessage(apiErr *googleapi.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal([]byte(apiErr.Body), &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if s, ok := body.Error.(string); ok {
			return s
		}
	}
	return ""
}
