package api

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/maisonlumiere/storefront-client/pkg/errors"
	"github.com/maisonlumiere/storefront-client/pkg/logger"
	"github.com/maisonlumiere/storefront-client/pkg/metrics"
)

const (
	defaultBaseURL      = "http://localhost:5000/api/v1"
	defaultTimeout      = 10 * time.Second
	defaultGetRetries   = 1
	apiPrefix           = "/api"
	errorBodyReadLimit  = 64 * 1024
	emptyResponseErrMsg = "Empty response from API."
)

// Client issues storefront API requests with timeouts, bounded retries, and
// tagged error classification. Exactly one of a decoded body or a typed error
// comes back per call.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	assetBaseURL string
	timeout      time.Duration
	getRetries   int
	logg         *logger.Logger
	metrics      *metrics.HTTPClientMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithAssetBaseURL sets the base used to resolve relative asset paths.
func WithAssetBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.assetBaseURL = strings.TrimSpace(baseURL)
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithGetRetries sets the network-failure retry budget for GET requests.
func WithGetRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.getRetries = retries
		}
	}
}

// WithLogger attaches the structured logger.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithMetrics attaches request metrics.
func WithMetrics(m *metrics.HTTPClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the storefront API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		getRetries: defaultGetRetries,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// BaseURL reports the resolved API base URL.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// AssetBaseURL reports the base used for relative asset paths.
func (c *Client) AssetBaseURL() string {
	if c == nil {
		return ""
	}
	return c.assetBaseURL
}

// Request describes one API call. Zero values fall back to client defaults.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Header  http.Header
	Body    any
	Token   string
	Timeout time.Duration
	// Retries overrides the network-failure retry budget. Nil means the
	// client default: getRetries for GET, zero otherwise.
	Retries *int
}

// Do executes the request and decodes the response body into out when out is
// non-nil. Network failures within the retry budget are retried with a fresh
// attempt; aborts and HTTP errors never are.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.KindNetwork, "api client not configured")
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	maxRetries := 0
	if req.Retries != nil {
		maxRetries = *req.Retries
	} else if method == http.MethodGet {
		maxRetries = c.getRetries
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	var payload []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.KindMalformed, err, "encode request body")
		}
		payload = encoded
	}

	target := c.buildRequestURL(req.Path, req.Query)

	for attempt := 0; ; attempt++ {
		err := c.attempt(ctx, method, target, payload, req, timeout, out)
		if err == nil {
			return nil
		}
		if pkgerrors.IsNetwork(err) && attempt < maxRetries {
			c.metrics.IncRetry(method, req.Path)
			continue
		}
		c.metrics.IncFailure(method, req.Path, string(pkgerrors.As(err).Kind()))
		return err
	}
}

// attempt runs a single round trip. The timeout context is released on every
// exit path before the call returns.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, req Request, timeout time.Duration, out any) error {
	// A pre-canceled caller context must short-circuit without a network attempt.
	if err := ctx.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.KindAbort, err, "request canceled before start")
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.logg != nil {
		attemptCtx = c.logg.WithFields(attemptCtx, map[string]any{
			"method": method,
			"path":   req.Path,
		})
		c.logg.Debug(attemptCtx, "api request")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, method, target, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.KindNetwork, err, "build request")
	}

	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if token := strings.TrimSpace(req.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ObserveDuration(method, req.Path, time.Since(started))
	if err != nil {
		return c.classifyTransportError(ctx, attemptCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decodeResponse(resp, method, req.Path, out)
}

func (c *Client) classifyTransportError(ctx, attemptCtx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return pkgerrors.Wrap(pkgerrors.KindAbort, err, "request canceled")
	case stdErrors.Is(attemptCtx.Err(), context.DeadlineExceeded) ||
		stdErrors.Is(err, context.DeadlineExceeded):
		return pkgerrors.Wrap(pkgerrors.KindAbort, err, "request timed out")
	case stdErrors.Is(err, context.Canceled):
		return pkgerrors.Wrap(pkgerrors.KindAbort, err, "request canceled")
	default:
		return pkgerrors.Wrap(pkgerrors.KindNetwork, err, "request failed")
	}
}

// decodeResponse reads the body and produces the call result. Error bodies
// are read through a limit so a misbehaving backend cannot balloon an error
// path; success bodies are read in full.
func (c *Client) decodeResponse(resp *http.Response, method, path string, out any) error {
	contentType := resp.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.KindNetwork, err, "read response body")
		}
		return c.httpError(resp.StatusCode, raw, isJSON)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.KindNetwork, err, "read response body")
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return pkgerrors.New(pkgerrors.KindMalformed, emptyResponseErrMsg).WithStatus(resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if !isJSON {
		if target, ok := out.(*string); ok {
			*target = string(raw)
			return nil
		}
		return pkgerrors.New(pkgerrors.KindMalformed, fmt.Sprintf("unexpected content type %q", contentType)).
			WithStatus(resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.KindMalformed, err, "decode response body").WithStatus(resp.StatusCode)
	}
	return nil
}

// httpError builds the API error for a non-2xx response. Message priority:
// a "message" field on a JSON body, then the raw text body, then the status text.
func (c *Client) httpError(status int, raw []byte, isJSON bool) error {
	message := ""
	var details any

	if isJSON {
		var envelope struct {
			Message string `json:"message"`
			Details any    `json:"details"`
		}
		// Parse errors degrade to the generic status message.
		if err := json.Unmarshal(raw, &envelope); err == nil {
			message = strings.TrimSpace(envelope.Message)
			details = envelope.Details
		}
	} else {
		message = strings.TrimSpace(string(raw))
	}

	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = fmt.Sprintf("Request failed (%d).", status)
	}

	apiErr := pkgerrors.NewAPI(status, message)
	if details != nil {
		apiErr = apiErr.WithDetails(details)
	}
	return apiErr
}

// buildRequestURL resolves relative paths against the base URL. Absolute URLs
// and paths already under the API prefix pass through untouched so same-origin
// proxying keeps working.
func (c *Client) buildRequestURL(path string, query url.Values) string {
	target := path
	switch {
	case strings.HasPrefix(strings.ToLower(path), "http://"),
		strings.HasPrefix(strings.ToLower(path), "https://"):
	case path == apiPrefix, strings.HasPrefix(path, apiPrefix+"/"):
	default:
		normalized := path
		if !strings.HasPrefix(normalized, "/") {
			normalized = "/" + normalized
		}
		target = strings.TrimRight(c.baseURL, "/") + normalized
	}
	if len(query) > 0 {
		separator := "?"
		if strings.Contains(target, "?") {
			separator = "&"
		}
		target += separator + query.Encode()
	}
	return target
}

// AssetURL resolves a possibly-relative asset path against the asset base.
// Missing values resolve to the empty string so mappers can skip them.
func (c *Client) AssetURL(value string) string {
	return ResolveAssetURL(c.AssetBaseURL(), value)
}

// ResolveAssetURL is the pure form of AssetURL for use in mappers.
func ResolveAssetURL(assetBase, value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http") {
		return value
	}
	if strings.HasPrefix(value, "/") {
		return assetBase + value
	}
	return assetBase + "/" + value
}
