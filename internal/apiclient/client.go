// Package apiclient talks to the remote placement API.
package apiclient

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

	"github.com/abhisek/placeprep/internal/session"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrUnauthorized is wrapped by an *APIError with status 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable wraps transport failures.
	ErrServiceUnavailable = errors.New("placement API unavailable")

	// ErrNotConfigured is returned by NewFromEnv when PLACEPREP_API_URL is unset.
	ErrNotConfigured = errors.New("PLACEPREP_API_URL not set")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client is an HTTP client for the placement API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a Client. A nil httpClient gets one with DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

// NewFromEnv creates a Client for PLACEPREP_API_URL. PLACEPREP_API_TIMEOUT
// (a duration such as "5s") overrides the request timeout.
//
// The API only accepts bearer tokens it issued itself. Put that token in
// PLACEPREP_API_TOKEN; the token from `placeprep login` is local and is
// sent only when no API token is set.
func NewFromEnv() (*Client, error) {
	base := strings.TrimSpace(os.Getenv("PLACEPREP_API_URL"))
	if base == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("PLACEPREP_API_URL: %w", err)
	}

	timeout := DefaultTimeout
	if v := os.Getenv("PLACEPREP_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("PLACEPREP_API_TIMEOUT: invalid duration %q", v)
		}
		timeout = d
	}
	return New(base, &http.Client{Timeout: timeout}).WithToken(os.Getenv("PLACEPREP_API_TOKEN")), nil
}

// WithToken sets a server-issued bearer token that takes precedence over
// the session token.
func (c *Client) WithToken(token string) *Client {
	c.token = strings.TrimSpace(token)
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

type progressRequest struct {
	Score int `json:"score"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SubmitScore reports a learner's score for a content item. It is never
// retried here; the caller decides how to surface a failure.
func (c *Client) SubmitScore(ctx context.Context, sess session.Session, contextID string, scorePercent int) error {
	if strings.TrimSpace(contextID) == "" {
		return errors.New("context id is required")
	}
	path := "/api/progress/" + url.PathEscape(contextID)
	return c.doJSON(ctx, sess, http.MethodPost, path, progressRequest{Score: scorePercent}, nil)
}

func (c *Client) doJSON(ctx context.Context, sess session.Session, method, path string, requestBody, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	token := c.token
	if token == "" {
		token = sess.Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
			if apiErr.Message == "" {
				apiErr.Message = strings.TrimSpace(payload.Message)
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(responseBody)
}
