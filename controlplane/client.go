// controlplane/client.go
package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// API is the single entry point the engine has into the vendor's HTTP
// control plane. Implementations perform one request/response round trip
// and hand back whatever the vendor answered, untyped, so the outcome
// classifier can make sense of it.
type API interface {
	Call(ctx context.Context, method, endpoint string, params map[string]string, body any) (model.RawOutcome, error)
}

// HTTPError is returned for any non-2xx response. It carries the status
// and raw body for diagnostics; callers treat it as a transport-level
// failure, distinct from a vendor failure signal inside a 200 response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("control plane returned status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	return doorward_errors.ErrControlPlane
}

// Config holds the connection settings injected at construction. There is
// no package-level default client or credential set.
type Config struct {
	BaseURL    string
	APIKey     string
	APIVersion string
	Timeout    time.Duration
}

// Client talks to the vendor control plane over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a control-plane client from an explicit configuration.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Call performs one request against the control plane. The API key travels
// in a header, the API version as a query parameter; both are invisible to
// callers. The decoded response keeps the vendor's shape: JSON objects come
// back as map[string]any, JSON scalars as bool/float64/string, and
// non-JSON bodies as the trimmed body text.
func (c *Client) Call(ctx context.Context, method, endpoint string, params map[string]string, body any) (model.RawOutcome, error) {
	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid control plane endpoint %q: %w", endpoint, err)
	}

	q := u.Query()
	q.Set("api_version", c.cfg.APIVersion)
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build control plane request: %w", err)
	}
	req.Header.Set("bs-session-id", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", doorward_errors.ErrControlPlane, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read control plane response: %w", err)
	}

	logger.Debug("Control plane call",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return decodeOutcome(data), nil
}

// decodeOutcome keeps the vendor's response shape. The vendor answers with
// booleans, numbers, numeric strings, prose, or JSON objects depending on
// the endpoint, and the classifier needs to see the shape as delivered.
func decodeOutcome(data []byte) model.RawOutcome {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return decoded
	}
	// Not JSON: prose like "Success" or "Failed".
	return strings.Trim(trimmed, `"`)
}
