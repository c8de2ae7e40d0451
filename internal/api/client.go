package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/rodstewart/bidctl/internal/logging"
	"github.com/rodstewart/bidctl/internal/models"
)

var (
	// ErrNoSession is returned before any network access when an
	// authenticated endpoint is called without an access token
	ErrNoSession = errors.New("login session has expired or no token is present. Please log in again")

	// ErrTransport wraps connection failures and unreadable responses
	ErrTransport = errors.New("communication failure")
)

// APIError is a non-2xx response from the bid server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of err if it is an *APIError, else 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// TokenSource supplies the bearer token for authenticated requests
type TokenSource interface {
	Token() string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAuthFailureHook registers fn to run when an authenticated request
// is rejected with 401 or 403
func WithAuthFailureHook(fn func()) Option {
	return func(c *Client) {
		c.onAuthFailure = fn
	}
}

// Client is the bid server API client
type Client struct {
	baseURL       string
	tokens        TokenSource
	httpClient    *http.Client
	onAuthFailure func()
}

// NewClient creates a new bid server API client. tokens may be nil for
// anonymous use; authenticated calls then fail with ErrNoSession.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// authMode selects how a request is authenticated
type authMode int

const (
	anonymous authMode = iota
	// authenticated requests treat 401 and 403 as a rejected session
	authenticated
	// authorized requests check ownership; only 401 rejects the session
	authorized
)

// rejectsSession reports whether status means the held token is no longer valid
func (m authMode) rejectsSession(status int) bool {
	switch m {
	case authenticated:
		return status == http.StatusUnauthorized || status == http.StatusForbidden
	case authorized:
		return status == http.StatusUnauthorized
	default:
		return false
	}
}

// doRequest performs an HTTP request, decoding a 2xx JSON body into out.
// Non-anonymous requests carry the bearer token and fail fast without one.
func (c *Client) doRequest(ctx context.Context, method, path string, mode authMode, body, out interface{}) error {
	auth := mode != anonymous
	var token string
	if auth {
		token = c.token()
		if token == "" {
			return ErrNoSession
		}
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		logging.Log.Warn("api request failed", append(fields, zap.Error(err))...)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ErrTransport, ctxErr)
		}
		return fmt.Errorf("%w: cannot connect to %s. Is the bid server running?", ErrTransport, c.baseURL)
	}
	defer resp.Body.Close()
	logging.Log.Debug("api request", append(fields, zap.Int("status", resp.StatusCode))...)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if mode.rejectsSession(resp.StatusCode) && c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: failed to decode response: %v", ErrTransport, err)
	}
	return nil
}

// handleErrorResponse converts an HTTP error response into an *APIError
func (c *Client) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    extractMessage(resp.StatusCode, body),
	}
}

// extractMessage prefers the JSON "message" field, then the raw body text,
// then a generic message carrying the status code
func extractMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if gjson.ValidBytes(trimmed) {
		msg := gjson.GetBytes(trimmed, "message")
		if msg.Type == gjson.String && strings.TrimSpace(msg.String()) != "" {
			return msg.String()
		}
		if trimmed[0] == '{' || trimmed[0] == '[' {
			return fmt.Sprintf("HTTP error! status: %d", status)
		}
	}
	if len(trimmed) > 0 {
		return fmt.Sprintf("HTTP error! status: %d - %s", status, string(trimmed))
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// TestConnection tests the connection to the bid server
func (c *Client) TestConnection(ctx context.Context) error {
	var page struct{}
	return c.doRequest(ctx, http.MethodGet, "/api/tenders?pageNo=1&numOfRows=1", anonymous, nil, &page)
}

// ListTenders retrieves one page of the public tender list
func (c *Client) ListTenders(ctx context.Context, pageNo, numOfRows int) (*models.TenderPage, error) {
	params := url.Values{}
	params.Set("pageNo", strconv.Itoa(pageNo))
	params.Set("numOfRows", strconv.Itoa(numOfRows))

	var page models.TenderPage
	if err := c.doRequest(ctx, http.MethodGet, "/api/tenders?"+params.Encode(), anonymous, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchTenders retrieves one page of tenders matching wire-level search parameters
func (c *Client) SearchTenders(ctx context.Context, params url.Values) (*models.TenderPage, error) {
	path := "/api/tenders/search"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page models.TenderPage
	if err := c.doRequest(ctx, http.MethodGet, path, anonymous, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTender retrieves a single tender by management number
func (c *Client) GetTender(ctx context.Context, cltrMnmtNo string) (*models.Tender, error) {
	var tender models.Tender
	err := c.doRequest(ctx, http.MethodGet, "/api/tenders/"+url.PathEscape(cltrMnmtNo), anonymous, nil, &tender)
	if StatusCode(err) == http.StatusNotFound {
		return nil, fmt.Errorf("tender %s not found", cltrMnmtNo)
	}
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

// FetchAllSearchResults retrieves every tender matching params, paging
// through the search endpoint automatically. Any pageNo/numOfRows in
// params are overridden.
func (c *Client) FetchAllSearchResults(ctx context.Context, params url.Values) ([]models.Tender, error) {
	var all []models.Tender
	const limit = 100
	pageNo := 1

	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	query.Set("numOfRows", strconv.Itoa(limit))

	for {
		query.Set("pageNo", strconv.Itoa(pageNo))
		page, err := c.SearchTenders(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tenders: %w", err)
		}

		rows := page.Rows()
		all = append(all, rows...)

		if len(rows) == 0 || len(all) >= page.TotalCount {
			break
		}

		pageNo++
	}

	return all, nil
}
