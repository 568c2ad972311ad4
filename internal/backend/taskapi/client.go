// Package taskapi implements the service.Service interface over the task
// backend's REST API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"taskhub/internal/config"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

const (
	// APITimeout is the timeout for a single API call.
	APITimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 1 << 20
)

// APIError is a non-2xx response from the backend. Message carries the
// backend-provided text when the error envelope could be decoded.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Unwrap maps well-known statuses onto the service sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return service.ErrUnauthorized
	case http.StatusNotFound:
		return service.ErrNotFound
	}
	return nil
}

// Client implements service.Service against the REST backend. All requests
// share one cookie jar; the session cookie the backend sets on login rides
// along on every later call and is mirrored into the session store so it
// survives restarts.
type Client struct {
	base *url.URL
	http *http.Client
	sess *session.Store
}

// New creates a client for the configured base URL, priming the cookie jar
// from the session store.
func New(cfg *config.Config, sess *session.Store) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		jar.SetCookies(base, sess.Cookies())
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar},
		sess: sess,
	}, nil
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (service.User, error) {
	body := map[string]string{"email": email, "password": password}
	var user service.User
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &user); err != nil {
		return service.User{}, opError(err, "Login failed")
	}
	return user, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, name, email, password string) (service.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var user service.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &user); err != nil {
		return service.User{}, opError(err, "Registration failed")
	}
	return user, nil
}

// Logout implements service.Service. The call is a notification; callers
// clear local state whether or not it succeeds.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return opError(err, "Logout failed")
	}
	return nil
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context) (service.Profile, error) {
	var p service.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &p); err != nil {
		return service.Profile{}, opError(err, "Failed to load profile")
	}
	return p, nil
}

// UpdateProfile implements service.Service.
func (c *Client) UpdateProfile(ctx context.Context, patch service.ProfilePatch) (service.Profile, error) {
	var p service.Profile
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, patch, &p); err != nil {
		return service.Profile{}, opError(err, "Failed to update profile")
	}
	return p, nil
}

// ListTasks implements service.Service. The keyword and status travel as
// query parameters; the response is the complete current result set and is
// trusted as-is.
func (c *Client) ListTasks(ctx context.Context, f service.Filter) ([]service.Task, error) {
	q := url.Values{}
	q.Set("keyword", f.Keyword)
	q.Set("status", string(f.Status))
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &tasks); err != nil {
		return nil, opError(err, "Failed to load tasks")
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	var t service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, draft, &t); err != nil {
		return service.Task{}, opError(err, "Failed to create task")
	}
	return t, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	var t service.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), nil, patch, &t); err != nil {
		return service.Task{}, opError(err, "Failed to update task")
	}
	return t, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return opError(err, "Failed to delete task")
	}
	return nil
}

// do issues one JSON request bound to ctx and decodes the response into out.
// The request dies with the context: cancelling the command aborts the call.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.persistCookies()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: decodeMessage(resp.Body)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// persistCookies mirrors the jar into the session store after every
// response, keeping the durable copy in step with the transport.
func (c *Client) persistCookies() {
	if c.sess == nil {
		return
	}
	// A flush failure is not worth failing the request over.
	_ = c.sess.SetCookies(c.http.Jar.Cookies(c.base))
}

// decodeMessage extracts the backend's error envelope, if any.
func decodeMessage(r io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Message
}

// opError substitutes a generic message when the backend supplied none.
func opError(err error, generic string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		apiErr.Message = generic
	}
	return err
}
