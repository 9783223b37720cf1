package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ophflow/ophflow/types"
	"github.com/ophflow/ophflow/workflow"
)

const (
	// EnvURL names the environment variable consulted for the engine base
	// URL when no option sets one.
	EnvURL = "OPHFLOW_ENGINE_URL"
	// EnvToken names the environment variable consulted for the bearer
	// token when no option sets one.
	EnvToken = "OPHFLOW_ENGINE_TOKEN"

	defaultTimeout = 30 * time.Second
)

// Submitter accepts workflow documents for execution.
type Submitter interface {
	Submit(ctx context.Context, doc *workflow.Document) (*Receipt, error)
}

// Receipt is the engine's acknowledgement of a submitted workflow.
type Receipt struct {
	WorkflowID string `json:"workflow_id"`
	SessionID  string `json:"session_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Client submits workflow documents to an execution engine over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the engine base URL, overriding the OPHFLOW_ENGINE_URL
// environment variable.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithToken sets the bearer token, overriding the OPHFLOW_ENGINE_TOKEN
// environment variable. An empty token disables the Authorization header.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.client.Timeout = timeout }
}

// WithHTTPClient replaces the HTTP client entirely.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.client = client }
}

// WithLogger attaches a logger for submission events. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a client from options and environment fallbacks. A base
// URL is required; it must carry a scheme and a host.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		client: &http.Client{Timeout: defaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv(EnvURL)
	}
	if c.token == "" {
		c.token = os.Getenv(EnvToken)
	}
	if c.baseURL == "" {
		return nil, types.Errorf(types.ErrConfig, "engine base URL is required: set %s or use WithBaseURL", EnvURL)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, types.Errorf(types.ErrConfig, "engine base URL %q is not an absolute URL", c.baseURL)
	}
	return c, nil
}

// Submit validates the document and posts it to the engine's workflow
// endpoint. The document travels as canonical JSON; every request carries a
// fresh X-Request-ID. Submission does not retry.
func (c *Client) Submit(ctx context.Context, doc *workflow.Document) (*Receipt, error) {
	if doc == nil {
		return nil, types.NewError(types.ErrConfig, "document is required")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, types.NewError(types.ErrFormat, "encode document").WithCause(err)
	}

	endpoint := c.baseURL + "/workflows"
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit workflow %q to %s: %w", doc.Name, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readMessage(resp.Body)
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, types.Errorf(types.ErrNotFound, "engine endpoint %s not found: %s", endpoint, msg)
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, types.Errorf(types.ErrConfig, "engine rejected credentials: status=%d msg=%s", resp.StatusCode, msg)
		case resp.StatusCode < 500:
			return nil, types.Errorf(types.ErrConfig, "engine rejected workflow %q: status=%d msg=%s", doc.Name, resp.StatusCode, msg)
		default:
			return nil, fmt.Errorf("engine failed to accept workflow %q: status=%d msg=%s", doc.Name, resp.StatusCode, msg)
		}
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, types.NewError(types.ErrFormat, "decode engine response").WithCause(err)
	}
	c.logger.Info("workflow submitted",
		zap.String("workflow", doc.Name),
		zap.String("workflow_id", receipt.WorkflowID),
		zap.String("status", receipt.Status))
	return &receipt, nil
}

var _ Submitter = (*Client)(nil)

// readMessage extracts a human-readable message from an engine error
// response, falling back to the raw body.
func readMessage(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return strings.TrimSpace(string(data))
}
