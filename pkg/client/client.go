// Package client is a Go API client for the FitCycle server.
//
// Authenticated calls that come back 401 trigger exactly one token refresh
// followed by a single retry. When that fails too the session is cleared,
// the OnLogout hook runs and ErrSessionExpired is returned.
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
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
)

// --- Error Definitions ---
var (
	ErrSessionExpired   = errors.New("session expired, please log in again")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is a non-2xx response carrying the server's {"error": ...} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fitcycle api: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// OnLogout runs after the session is cleared, either explicitly or
	// because the tokens could not be refreshed.
	OnLogout func()
}

// User is the public account representation returned by the server.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the token pair handed out by login, register and refresh.
type Session struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             User      `json:"user"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	onLogout   func()

	mu           sync.RWMutex
	accessToken  string
	refreshToken string

	// serializes refreshes so concurrent 401s rotate the token once
	refreshMu sync.Mutex

	catalog *catalogCache
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		onLogout:   cfg.OnLogout,
		catalog:    newCatalogCache(),
	}
}

// SetTokens restores a previously stored session.
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// Tokens returns the current token pair, for persisting between runs.
func (c *Client) Tokens() (accessToken, refreshToken string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.authenticate(ctx, "/auth/register", body)
}

// Login accepts either the username or the email as identifier.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Session, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	return c.authenticate(ctx, "/auth/login", body)
}

// Refresh rotates the token pair using the stored refresh token.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	_, refreshToken := c.Tokens()
	if refreshToken == "" {
		return nil, ErrNotAuthenticated
	}
	return c.authenticate(ctx, "/auth/refresh", map[string]string{"refreshToken": refreshToken})
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*Session, error) {
	var session Session
	if _, err := c.send(ctx, http.MethodPost, path, "", body, &session); err != nil {
		return nil, err
	}
	c.SetTokens(session.AccessToken, session.RefreshToken)
	return &session, nil
}

// Logout drops the tokens and cached catalog, then runs the OnLogout hook.
func (c *Client) Logout() {
	c.SetTokens("", "")
	c.catalog.invalidateAll()
	if c.onLogout != nil {
		c.onLogout()
	}
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do performs an authenticated call with the retry-once-on-401 policy.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	accessToken, _ := c.Tokens()
	if accessToken == "" {
		return ErrNotAuthenticated
	}

	status, err := c.send(ctx, method, path, accessToken, body, out)
	if status != http.StatusUnauthorized {
		return err
	}

	if refreshErr := c.refreshAfter(ctx, accessToken); refreshErr != nil {
		log.Debugf("token refresh failed: %s", refreshErr)
		c.expire(accessToken)
		return ErrSessionExpired
	}

	accessToken, _ = c.Tokens()
	status, err = c.send(ctx, method, path, accessToken, body, out)
	if status == http.StatusUnauthorized {
		c.expire(accessToken)
		return ErrSessionExpired
	}
	return err
}

// expire logs out only if accessToken is still the current one. A caller
// that lost the race to a logout or a refresh leaves the session alone.
func (c *Client) expire(accessToken string) {
	c.mu.Lock()
	if c.accessToken != accessToken {
		c.mu.Unlock()
		return
	}
	c.accessToken, c.refreshToken = "", ""
	c.mu.Unlock()

	c.catalog.invalidateAll()
	if c.onLogout != nil {
		c.onLogout()
	}
}

// refreshAfter refreshes unless another caller already replaced the
// rejected token in the meantime.
func (c *Client) refreshAfter(ctx context.Context, rejected string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, _ := c.Tokens()
	if current == "" {
		return ErrNotAuthenticated
	}
	if current != rejected {
		return nil
	}
	_, err := c.Refresh(ctx)
	return err
}

// send issues one request. The returned status is 0 on transport errors.
func (c *Client) send(ctx context.Context, method, path, accessToken string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return resp.StatusCode, apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, nil
}
