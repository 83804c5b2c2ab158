// Package client is the typed API client for the InventoX backend. It owns
// the transport-level session behavior: attaching the bearer token to every
// request and tearing the local session down whenever the server answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/inventox/inventox/internal/client/session"
	"github.com/inventox/inventox/internal/rbac"
)

// APIError is a non-2xx response decoded from the server's {msg} body.
type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Msg)
}

// Client talks to the backend REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUnauthorizedHook registers a callback fired after a 401 response has
// torn the local session down, typically to route back to the login entry.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		if t, ok := c.http.Transport.(*authTransport); ok {
			t.onUnauthorized = hook
		}
	}
}

// New constructs a Client bound to the given session manager.
func New(baseURL string, sessions *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
	}
	c.http = &http.Client{
		Timeout:   30 * time.Second,
		Transport: &authTransport{base: http.DefaultTransport, sessions: sessions},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authTransport injects the bearer token and intercepts unauthorized
// responses, mirroring the access-token lifecycle on the client side.
type authTransport struct {
	base           http.RoundTripper
	sessions       *session.Manager
	onUnauthorized func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := t.sessions.Token(); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.sessions.Invalidate()
		if t.onUnauthorized != nil {
			t.onUnauthorized()
		}
	}
	return resp, nil
}

// Sessions exposes the session manager for state checks by the UI layer.
func (c *Client) Sessions() *session.Manager {
	return c.sessions
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	Role  rbac.Role `json:"role"`
}

// Login authenticates and, on success, hands the credential to the session
// manager, which derives the local expiry from the token itself.
func (c *Client) Login(ctx context.Context, username, password string) (rbac.Role, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if err := c.sessions.Login(resp.Token, resp.Role); err != nil {
		return "", err
	}
	return resp.Role, nil
}

// Logout discards the local session. There is no server call to make; the
// token simply stops being attached.
func (c *Client) Logout() {
	c.sessions.Logout()
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rotates the caller's credential.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password",
		changePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, nil)
}

type timeoutPayload struct {
	Timeout int `json:"timeout"`
}

// SessionTimeout fetches the configured timeout in minutes.
func (c *Client) SessionTimeout(ctx context.Context) (int, error) {
	var resp timeoutPayload
	if err := c.do(ctx, http.MethodGet, "/settings/session-timeout", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Timeout, nil
}

// SetSessionTimeout stores a new timeout and returns the stored value.
func (c *Client) SetSessionTimeout(ctx context.Context, minutes int) (int, error) {
	var resp timeoutPayload
	if err := c.do(ctx, http.MethodPost, "/settings/session-timeout", timeoutPayload{Timeout: minutes}, &resp); err != nil {
		return 0, err
	}
	return resp.Timeout, nil
}

// User is the account shape returned by the directory endpoints.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Role        rbac.Role `json:"role"`
	IsActive    bool      `json:"isActive"`
	Name        string    `json:"name,omitempty"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	Designation string    `json:"designation,omitempty"`
	Department  string    `json:"department,omitempty"`
	Photo       string    `json:"photo,omitempty"`
	Phone       string    `json:"phone,omitempty"`
}

// ListUsers returns the account directory (SUPER_ADMIN rows excluded
// server-side).
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var list []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Role        rbac.Role `json:"role"`
	Name        string    `json:"name,omitempty"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	Designation string    `json:"designation,omitempty"`
	Department  string    `json:"department,omitempty"`
	Photo       string    `json:"photo,omitempty"`
	Phone       string    `json:"phone,omitempty"`
}

// CreateUser adds an account to the directory.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/users", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput carries a partial account update; nil fields are left
// untouched and an empty Password keeps the current credential.
type UpdateUserInput struct {
	Password    *string    `json:"password,omitempty"`
	Role        *rbac.Role `json:"role,omitempty"`
	Name        *string    `json:"name,omitempty"`
	EmployeeID  *string    `json:"employeeId,omitempty"`
	Designation *string    `json:"designation,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Photo       *string    `json:"photo,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
}

// UpdateUser applies the provided fields to an existing account and returns
// the stored result.
func (c *Client) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnableUser reactivates an account.
func (c *Client) EnableUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/enable", id), nil, nil)
}

// DisableUser blocks future logins for an account.
func (c *Client) DisableUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/disable", id), nil, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Msg string `json:"msg"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Msg = msg.Msg
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
