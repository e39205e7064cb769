package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// IdempotencyHeader carries the per-submission key that lets the backend
// deduplicate a transfer replayed after an ambiguous failure.
const IdempotencyHeader = "Idempotency-Key"

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of [API].
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	tokenSource func() string
	newKey      func() string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client, e.g. to set a
// transport-level timeout or proxy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource attaches a bearer token provider. When the source returns a
// non-empty token it is sent as the Authorization header on every request.
func WithTokenSource(source func() string) Option {
	return func(c *Client) {
		c.tokenSource = source
	}
}

// WithKeyFactory overrides idempotency key generation. Intended for tests.
func WithKeyFactory(factory func() string) Option {
	return func(c *Client) {
		if factory != nil {
			c.newKey = factory
		}
	}
}

// NewClient creates a gateway client for the backend at baseURL
// (e.g. "http://localhost:5000").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("gateway base URL required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway base URL: %w", err)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		newKey:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login verifies credentials and returns the role claim, profile snapshot,
// and initial balance/history.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResponse, error) {
	body := map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	}

	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "api/users/login", nil, body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*RegisterResponse, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}

	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, "api/users/register", nil, body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the authoritative balance and transaction history for
// username.
func (c *Client) CurrentUser(ctx context.Context, username string) (*AccountSnapshot, error) {
	query := url.Values{"username": {username}}

	var out AccountSnapshot
	if err := c.do(ctx, http.MethodGet, "api/users/me", query, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitTransfer sends one transfer attempt. Each call carries a fresh
// idempotency key, so a retry after an ambiguous failure is a new attempt
// from the client's side and a deduplicable one from the backend's.
func (c *Client) SubmitTransfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	headers := http.Header{IdempotencyHeader: {c.newKey()}}

	var out TransferResponse
	if err := c.do(ctx, http.MethodPost, "api/transactions", nil, req, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers fetches the full account roster. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]RosterEntry, error) {
	var out []RosterEntry
	if err := c.do(ctx, http.MethodGet, "api/admin/users", nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser deletes the account with the given id. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) (*DeleteResponse, error) {
	if id == "" {
		return nil, errors.New("user id required")
	}

	var out DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "api/admin/users/"+url.PathEscape(id), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers http.Header, out any) error {
	target := c.baseURL.JoinPath(path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	statusErr := &StatusError{Code: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		statusErr.Message = body.Message
	}
	return statusErr
}
