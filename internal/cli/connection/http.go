package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// baseURL is a placeholder host; every request is dialed to the endpoint.
const baseURL = "http://corelink"

// DefaultTimeout bounds one request/response exchange.
const DefaultTimeout = 30 * time.Second

// userAgent identifies the CLI to the service audit log.
const userAgent = "corelink-cli"

// HTTPClient provides HTTP communication with the service.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a client for the socket or pipe at endpoint.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &HTTPClient{endpoint: endpoint}
	c.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:     c.dial,
			MaxIdleConns:    1,
			IdleConnTimeout: 30 * time.Second,
		},
	}
	return c
}

// Endpoint returns the socket or pipe path.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClient) dial(ctx context.Context, _, _ string) (net.Conn, error) {
	conn, err := dialEndpoint(ctx, c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.endpoint, err)
	}
	return conn, nil
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	return c.client.Do(req)
}

// Post performs a POST request with an optional JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

// APIError is an error envelope returned by the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

// envelope mirrors the service response format.
type envelope struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ParseResponse decodes the envelope and unmarshals its data into target.
// Error envelopes and non-2xx statuses become *APIError.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 400 || env.Type == "error" {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Code:    resp.Header.Get("X-Error-Code"),
			Message: env.Message,
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("parse response: %w", decodeErr)
	}

	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}
