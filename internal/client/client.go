// Package client is the Go counterpart of the web client: a typed API
// client, observable auth/task stores, the Pomodoro timer and the
// due-date reminder scanner.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Ibrarkhan125/time-manager/internal/models"
)

// Client talks to the task API. The bearer token captured by Login is
// attached to every subsequent request.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the server's uniform response body.
type envelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Errors  string          `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if env.Message != "" {
			return fmt.Errorf("%s (status %d)", env.Message, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// SetToken installs a previously issued token, e.g. one restored from disk.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, email, password string) (string, models.User, error) {
	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &data)
	if err != nil {
		return "", models.User{}, err
	}
	c.SetToken(data.Token)
	return data.Token, data.User, nil
}

func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &user)
	return user, err
}

// ProfileUpdate carries the profile fields to change; nil means keep.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPut, "/api/user/profile", update, &user)
	return user, err
}

func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/", nil, &tasks)
	return tasks, err
}

func (c *Client) Task(ctx context.Context, id int) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &task)
	return task, err
}

// TaskCreate carries the fields for a new task.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, create TaskCreate) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks/", create, &task)
	return task, err
}

// TaskUpdate carries a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id int, update TaskUpdate) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), update, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

func (c *Client) LogSession(ctx context.Context, taskID int, start, end time.Time, completed bool) (models.PomodoroSession, error) {
	var session models.PomodoroSession
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/pomodoro", taskID), map[string]interface{}{
		"start_time": start,
		"end_time":   end,
		"completed":  completed,
	}, &session)
	return session, err
}

func (c *Client) Summary(ctx context.Context, rng string) (models.Summary, error) {
	var summary models.Summary
	err := c.do(ctx, http.MethodGet, "/api/tasks/summary?range="+rng, nil, &summary)
	return summary, err
}
