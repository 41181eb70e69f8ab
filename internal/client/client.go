// Package client talks to the profilehub HTTP API on behalf of the CLI. It
// keeps the session token in a TokenStore and sends it as a bearer token on
// every authenticated call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrUnauthorized means the server rejected the session token. The local
	// token has already been discarded when this is returned.
	ErrUnauthorized       = errors.New("session expired or invalid")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("username or email already exists")
	ErrNotLoggedIn        = errors.New("not logged in")
	// ErrServerLogoutFailed wraps a failed /api/logout call. The local token
	// has been removed when this is returned.
	ErrServerLogoutFailed = errors.New("server logout failed")
)

// APIError is a failed response envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is matches the sentinel errors by code, never by message.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == "unauthorized"
	case ErrInvalidCredentials:
		return e.Code == "invalid_credentials"
	case ErrConflict:
		return e.Code == "conflict"
	}
	return false
}

// Profile is the editable part of a user's profile.
type Profile struct {
	Age     int64  `json:"age"`
	DOB     string `json:"dob"`
	Contact string `json:"contact"`
}

// ProfileView is the result of GetProfile. Profile is nil until the user
// saves one.
type ProfileView struct {
	Username  string
	Completed bool
	Message   string
	Profile   *Profile
}

// envelope covers every response body the API sends.
type envelope struct {
	Success      bool            `json:"success"`
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	Username     string          `json:"username"`
	SessionToken string          `json:"session_token"`
	Status       string          `json:"status"`
	Profile      json.RawMessage `json:"profile"`
}

// Client is an API client bound to one server and one token store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	return err
}

// Login authenticates and stores the returned token. It returns the
// username the server resolved for the account.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if env.SessionToken == "" {
		return "", errors.New("login response carried no session token")
	}
	if err := c.tokens.Save(env.SessionToken); err != nil {
		return "", err
	}
	return env.Username, nil
}

func (c *Client) GetProfile(ctx context.Context) (*ProfileView, error) {
	env, err := c.authorized(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Username:  env.Username,
		Completed: env.Status == "completed",
		Message:   env.Message,
	}
	if view.Completed {
		var p Profile
		if err := json.Unmarshal(env.Profile, &p); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		view.Profile = &p
	}
	return view, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p Profile) error {
	_, err := c.authorized(ctx, http.MethodPost, "/api/profile", p)
	return err
}

// Logout revokes the session on the server and always discards the local
// token, even when the server call fails. Errors reading or removing the
// token file are returned as is; a server failure after the token is gone
// matches ErrServerLogoutFailed.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return ErrNotLoggedIn
	}

	_, serverErr := c.do(ctx, http.MethodPost, "/api/logout", token, nil)
	if err := c.tokens.Clear(); err != nil {
		return err
	}
	if serverErr != nil && !errors.Is(serverErr, ErrUnauthorized) {
		return fmt.Errorf("%w: %w", ErrServerLogoutFailed, serverErr)
	}
	return nil
}

// authorized sends a request with the stored token and drops the token when
// the server no longer accepts it.
func (c *Client) authorized(ctx context.Context, method, path string, body any) (*envelope, error) {
	token, err := c.tokens.Load()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	env, err := c.do(ctx, method, path, token, body)
	if errors.Is(err, ErrUnauthorized) {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
	}
	return env, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("unreadable response (status %d)", resp.StatusCode)}
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return &env, nil
}
