package feedback

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

	"github.com/go-playground/validator/v10"
)

// Client is the feedback thread API client. It reads the caller's identity
// from its SessionStore on every request and never retries.
type Client struct {
	baseURL    string
	sessions   SessionStore
	httpClient *http.Client
	validate   *validator.Validate
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new feedback API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://campus.example.edu")
//   - sessions: Where the access token and identity are kept
func NewClient(baseURL string, sessions SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current live session.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	return c.sessions.Load(ctx)
}

// ListThreads retrieves one page of threads visible to the session's user.
func (c *Client) ListThreads(ctx context.Context, opts ListOptions) (*ThreadList, error) {
	endpoint := fmt.Sprintf("%s/feedback/threads", c.baseURL)
	if q := opts.query().Encode(); q != "" {
		endpoint += "?" + q
	}

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	var list ThreadList
	if err := c.decode(resp.Data, &list); err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	if len(resp.Stats) == 0 {
		return nil, fmt.Errorf("list threads: %w: stats missing", ErrMalformedResponse)
	}
	if err := c.decode(resp.Stats, &list.Stats); err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return &list, nil
}

// GetThread retrieves a thread with its messages and audit trail.
func (c *Client) GetThread(ctx context.Context, threadID string) (*ThreadDetail, error) {
	var detail ThreadDetail
	if err := c.call(ctx, http.MethodGet, c.threadURL(threadID, ""), nil, &detail); err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	return &detail, nil
}

// CreateThread opens a new thread with its first message.
func (c *Client) CreateThread(ctx context.Context, input CreateThreadInput) (*ThreadDetail, error) {
	endpoint := fmt.Sprintf("%s/feedback/threads", c.baseURL)

	var detail ThreadDetail
	if err := c.call(ctx, http.MethodPost, endpoint, input, &detail); err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	return &detail, nil
}

// Reply appends a message to a thread.
func (c *Client) Reply(ctx context.Context, threadID, message string) (*ReplyResult, error) {
	body := map[string]any{"message": message}

	var result ReplyResult
	if err := c.call(ctx, http.MethodPost, c.threadURL(threadID, "reply"), body, &result); err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}
	return &result, nil
}

// UpdateStatus sets a thread's status. Admin and faculty only.
func (c *Client) UpdateStatus(ctx context.Context, threadID, status string) (*StatusChange, error) {
	body := map[string]any{"status": status}

	var result StatusChange
	if err := c.call(ctx, http.MethodPut, c.threadURL(threadID, "status"), body, &result); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return &result, nil
}

// UpdatePriority sets a thread's priority. Admin and faculty only.
func (c *Client) UpdatePriority(ctx context.Context, threadID, priority string) (*PriorityChange, error) {
	body := map[string]any{"priority": priority}

	var result PriorityChange
	if err := c.call(ctx, http.MethodPut, c.threadURL(threadID, "priority"), body, &result); err != nil {
		return nil, fmt.Errorf("update priority: %w", err)
	}
	return &result, nil
}

// DeleteThread soft-deletes a thread. Admin only.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	if _, err := c.do(ctx, http.MethodDelete, c.threadURL(threadID, ""), nil); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

// RestoreThread undoes a soft delete. Admin only.
func (c *Client) RestoreThread(ctx context.Context, threadID string) (*Thread, error) {
	var thread Thread
	if err := c.call(ctx, http.MethodPost, c.threadURL(threadID, "restore"), nil, &thread); err != nil {
		return nil, fmt.Errorf("restore thread: %w", err)
	}
	return &thread, nil
}

// MigrateV1 converts pending legacy feedback records. Admin only. A
// batchSize of zero uses the server default.
func (c *Client) MigrateV1(ctx context.Context, batchSize int) (*MigrationSummary, error) {
	endpoint := fmt.Sprintf("%s/feedback/migrate-v1", c.baseURL)

	var body any
	if batchSize > 0 {
		body = map[string]any{"batch_size": batchSize}
	}

	var summary MigrationSummary
	if err := c.call(ctx, http.MethodPost, endpoint, body, &summary); err != nil {
		return nil, fmt.Errorf("migrate v1: %w", err)
	}
	return &summary, nil
}

func (c *Client) threadURL(threadID, action string) string {
	u := fmt.Sprintf("%s/feedback/threads/%s", c.baseURL, url.PathEscape(threadID))
	if action != "" {
		u += "/" + action
	}
	return u
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, result any) error {
	resp, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return c.decode(resp.Data, result)
}

// decode unmarshals data into result and validates it against its schema.
func (c *Client) decode(data json.RawMessage, result any) error {
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%w: data missing", ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := c.validate.Struct(result); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// do performs an authenticated HTTP request and returns the decoded envelope.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) (*apiResponse, error) {
	session, err := c.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.sessions.Clear(ctx); err != nil {
			return nil, errors.Join(ErrUnauthorized, err)
		}
		return nil, ErrUnauthorized
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Kind: KindInternal, Message: strings.TrimSpace(string(respBody))}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !apiResp.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: apiResp.Message}
		if apiResp.Error != nil {
			apiErr.Kind = apiResp.Error.Type
			apiErr.Message = apiResp.Error.Message
			apiErr.Details = apiResp.Error.Details
			apiErr.Retryable = apiResp.Error.Retryable
		}
		if apiErr.Kind == "" {
			apiErr.Kind = KindInternal
		}
		return nil, apiErr
	}

	return &apiResp, nil
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Priority != "" {
		q.Set("priority", o.Priority)
	}
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	if o.CreatedByRole != "" {
		q.Set("created_by_role", o.CreatedByRole)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.IncludeDeleted {
		q.Set("include_deleted", "true")
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	return q
}
