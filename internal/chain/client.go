package chain

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/infra/buildinfo"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
	"github.com/yndnr/subtrack-go/internal/telemetry/metric"
)

// Config configures a chain API client.
type Config struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is the maximum requests per second. Zero disables limiting.
	RateLimit float64
}

// APIError is a non-successful API response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chain api: status %d: %s", e.StatusCode, e.Message)
}

// Client is a subtensor HTTP API client.
type Client struct {
	baseURL    string
	client     *http.Client
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	retryWait  time.Duration
	metrics    *metric.Registry
	logger     logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTLSConfig trusts the roots of tc when the endpoint is HTTPS.
func WithTLSConfig(tc *tls.Config) Option {
	return func(c *Client) {
		if tc == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tc
		c.client.Transport = transport
	}
}

// WithMetrics records request counts into reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(c *Client) { c.metrics = reg }
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// NewClient creates a new chain API client.
func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.Endpoint, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	c := &Client{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: max(cfg.MaxRetries, 0),
		retryWait:  500 * time.Millisecond,
		logger:     logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListSubnets returns the subnet ids of network. Any failure is reported as
// ErrConnectivity since nothing can be captured without the subnet list.
func (c *Client) ListSubnets(ctx context.Context, network string) ([]int, error) {
	var resp SubnetListResponse
	if err := c.get(ctx, "subnets", "/subnets", network, &resp); err != nil {
		return nil, domain.ErrConnectivity.WithDetails(c.baseURL).WithCause(err)
	}
	return resp.Data, nil
}

// Metagraph fetches the metagraph of one subnet.
func (c *Client) Metagraph(ctx context.Context, network string, netuid int) (*SubnetMetagraph, error) {
	var resp SubnetMetagraphResponse
	path := "/subnets/" + strconv.Itoa(netuid) + "/metagraph"
	if err := c.get(ctx, "metagraph", path, network, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// SubnetInfo fetches the registration parameters of one subnet.
func (c *Client) SubnetInfo(ctx context.Context, network string, netuid int) (*SubnetInfo, error) {
	var resp SubnetInfoResponse
	path := "/subnets/" + strconv.Itoa(netuid) + "/info"
	if err := c.get(ctx, "info", path, network, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Netuid == 0 {
		resp.Data.Netuid = netuid
	}
	return &resp.Data, nil
}

// FetchMembership fetches a subnet's metagraph and extracts its ownership
// table.
func (c *Client) FetchMembership(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error) {
	mg, err := c.Metagraph(ctx, network, netuid)
	if err != nil {
		return nil, err
	}
	return ExtractMembership(mg)
}

// envelope lets get inspect the success flag of any response type.
type envelope interface {
	ok() (bool, string)
}

func (r *SubtensorResponse[T]) ok() (bool, string) {
	if r.Success {
		return true, ""
	}
	return false, r.errorMessage()
}

// get performs a GET with rate limiting and retries and decodes the
// envelope into target.
func (c *Client) get(ctx context.Context, endpoint, path, network string, target envelope) error {
	u := c.baseURL + path
	if network != "" {
		u += "?" + url.Values{"network": {network}}.Encode()
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.retryWait),
		backoff.WithMaxElapsedTime(0),
	)
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	attempt := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return c.do(ctx, endpoint, u, target)
	}
	notify := func(err error, wait time.Duration) {
		if c.metrics != nil {
			c.metrics.ChainRequestRetries.Inc()
		}
		c.logger.Debug("retrying chain request",
			"endpoint", endpoint,
			"url", u,
			"wait", wait,
			"error", err)
	}

	return backoff.RetryNotify(attempt, policy, notify)
}

// do performs one request. Errors that retrying cannot fix are wrapped in
// backoff.Permanent.
func (c *Client) do(ctx context.Context, endpoint, u string, target envelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	c.addHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(endpoint, "error")
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	defer resp.Body.Close()
	c.observe(endpoint, strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if err := json.Unmarshal(body, target); err == nil {
			if ok, msg := target.ok(); !ok {
				apiErr.Message = msg
			}
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return backoff.Permanent(fmt.Errorf("parse response: %w", err))
	}
	if ok, msg := target.ok(); !ok {
		return backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Message: msg})
	}
	return nil
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
}

func (c *Client) observe(endpoint, status string) {
	if c.metrics != nil {
		c.metrics.ChainRequestsTotal.WithLabelValues(endpoint, status).Inc()
	}
}

// IsAPIError reports whether err carries an APIError with the given status.
// A zero status matches any APIError.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return status == 0 || apiErr.StatusCode == status
}
