package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/gamechat/internal/errors"
	"github.com/diogo/gamechat/internal/logging"
	"github.com/diogo/gamechat/internal/models"
)

// HTTPDoer is the subset of tls_client.HttpClient the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is implemented by Client and MockClient.
type ClientInterface interface {
	BaseURL() string
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	SearchGames(ctx context.Context, query string, limit int) ([]gjson.Result, error)
	GameDetails(ctx context.Context, appID int) (gjson.Result, error)
	AnalyzeGame(ctx context.Context, appID int) (gjson.Result, error)
	Health(ctx context.Context) (gjson.Result, error)
	KnowledgeStats(ctx context.Context) (gjson.Result, error)
	ClearKnowledge(ctx context.Context) (gjson.Result, error)
}

var _ ClientInterface = (*Client)(nil)

// Client talks to the backend's JSON API. It holds no per-session state and
// is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logging.OrNop(logger)
	}
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. http://localhost:8000/api/v1).
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Timeout 0: a round trip stays pending until the transport settles it.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends body (if non-nil) as JSON and returns the raw response body.
// Non-2xx responses become *APIError, transport failures *NetworkError.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}) (string, error) {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("endpoint", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", apierrors.NewNetworkError(strings.TrimPrefix(path, "/"), endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	var data []byte
	if resp.Body != nil {
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
		if err != nil {
			return "", apierrors.NewNetworkError(strings.TrimPrefix(path, "/"), endpoint, err)
		}
		if len(data) > maxResponseBytes {
			c.logger.Warn("response body truncated",
				zap.String("method", method),
				zap.String("endpoint", path),
				zap.Int("status", resp.StatusCode),
				zap.Int("limit_bytes", maxResponseBytes),
			)
			data = data[:maxResponseBytes]
		}
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("endpoint", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newStatusError(resp.StatusCode, path, data)
	}

	return string(data), nil
}

// newStatusError builds an APIError, preferring FastAPI's "detail" message.
func newStatusError(status int, path string, data []byte) *apierrors.APIError {
	message := http.StatusText(status)
	if detail := gjson.GetBytes(data, "detail"); detail.Exists() {
		if detail.Type == gjson.String {
			message = detail.String()
		} else {
			message = detail.Raw
		}
	}

	body := string(data)
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return apierrors.NewAPIError(status, path, message).WithBody(body)
}

// parseJSON validates a raw body and returns it as a gjson.Result.
func parseJSON(body, path string) (gjson.Result, error) {
	if !gjson.Valid(body) {
		return gjson.Result{}, apierrors.NewParseError("response is not valid JSON", path)
	}
	return gjson.Parse(body), nil
}
