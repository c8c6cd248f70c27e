// Package client is a Go client for the taskboard API. It replaces the
// browser frontend's storage-backed session: the bearer token is an explicit
// credential held by the Client, attached to every request in one place and
// cleared as soon as the server answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken seeds the client with a previously issued credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the held credential, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Logout discards the held credential.
func (c *Client) Logout() {
	c.setToken("")
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do is the single request/response path: it attaches the credential,
// decodes the envelope, and clears the credential on 401.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("client: encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return "", fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("client: decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.Logout()
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("client: decode data: %w", err)
		}
	}
	return env.Message, nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
	return err
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", nil, in, &result); err != nil {
		return nil, err
	}
	c.setToken(result.Token)
	return &result, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	in := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, in, &result); err != nil {
		return nil, err
	}
	c.setToken(result.Token)
	return &result, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/users/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodPut, "/api/v1/users/profile", nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Users(ctx context.Context, page, limit int) (*UserPage, error) {
	var result UserPage
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/users", pageQuery(page, limit), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in AdminUserUpdate) (*User, error) {
	var user User
	path := "/api/v1/users/" + strconv.FormatInt(id, 10)
	if _, err := c.do(ctx, http.MethodPut, path, nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Tasks(ctx context.Context, opts TaskListOptions) (*TaskPage, error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Priority != "" {
		q.Set("priority", opts.Priority)
	}
	var result TaskPage
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/tasks", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Task(ctx context.Context, id int64) (*Task, error) {
	var task Task
	path := "/api/v1/tasks/" + strconv.FormatInt(id, 10)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	var task Task
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskUpdate) (*Task, error) {
	var task Task
	path := "/api/v1/tasks/" + strconv.FormatInt(id, 10)
	if _, err := c.do(ctx, http.MethodPut, path, nil, in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := "/api/v1/tasks/" + strconv.FormatInt(id, 10)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

func (c *Client) AllTasks(ctx context.Context, page, limit int) (*AdminTaskPage, error) {
	var result AdminTaskPage
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/tasks/admin/all", pageQuery(page, limit), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
