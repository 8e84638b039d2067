package finapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// Client is an HTTP client for the finance backend REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new backend API client. A non-positive timeout selects
// the default.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithField("component", "finapi"),
	}
}

// doRequest sends a JSON request and returns status and body for 2xx
// responses. Other statuses become *APIError. A bearer header is added when
// ctx carries a session with a token.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")
	if s, ok := session.FromContext(ctx); ok && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	log := c.logger.WithContext(ctx)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("API request failed", "method", method, "path", path, "error", err)
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response body: %v", ErrTransport, err)
	}

	log.Debug("API response",
		"method", method,
		"path", path,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, respBody, newAPIError(resp.StatusCode, respBody)
	}
	return resp.StatusCode, respBody, nil
}

// ListTransactions fetches GET /transactions/. The body is returned undecoded
// so callers can check its shape.
func (c *Client) ListTransactions(ctx context.Context) (json.RawMessage, error) {
	_, body, err := c.doRequest(ctx, http.MethodGet, "/transactions/", nil)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return json.RawMessage(body), nil
}

// CreateTransaction posts a new record and returns the echoed record
func (c *Client) CreateTransaction(ctx context.Context, in TransactionCreate) (*TransactionRecord, error) {
	_, body, err := c.doRequest(ctx, http.MethodPost, "/transactions/", in)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	var rec TransactionRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode created transaction: %w", err)
	}
	return &rec, nil
}

// DeleteTransaction issues DELETE /transactions/{id} and reports the status
// code. The status is also set alongside an *APIError.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) (int, error) {
	status, _, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil)
	if err != nil {
		return status, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return status, nil
}

// CreateUser registers an account via POST /users/. The 2xx status is
// returned so callers can tell 200/201 from other success codes.
func (c *Client) CreateUser(ctx context.Context, in UserCreate) (*User, int, error) {
	status, body, err := c.doRequest(ctx, http.MethodPost, "/users/", in)
	if err != nil {
		return nil, status, fmt.Errorf("create user: %w", err)
	}

	var u User
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &u); err != nil {
			c.logger.Warn("unexpected user response body", "error", err)
		}
	}
	return &u, status, nil
}

// Login exchanges credentials for a bearer token via POST /auth/login
func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	_, body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", in)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &resp, nil
}
