package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/echoai/recommender/internal/domain"
	"github.com/echoai/recommender/internal/logger"
	"github.com/echoai/recommender/internal/metrics"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultRate       = 5.0
	defaultBurst      = 10
	defaultUserAgent  = "EchoRecommender/1.0"

	// maxBodyBytes caps how much of an upstream response is read
	maxBodyBytes = 1 << 20
	// maxLoggedBody caps error bodies written to the log
	maxLoggedBody = 512
)

// Client handles communication with the external recommendation service
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxRetries  int
	rateLimiter *rate.Limiter
	log         *zap.Logger
	debug       bool
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit sets the outbound request rate and burst
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithMaxRetries sets how many attempts are made for retryable failures
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client; its timeout is kept as-is
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new recommendation service client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   defaultUserAgent,
		maxRetries:  defaultMaxRetries,
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRate), defaultBurst),
		log:         logger.Get(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("recommender")

	return c
}

// SetDebug enables or disables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// debugLog logs only when debug mode is on
func (c *Client) debugLog(msg string, fields ...zap.Field) {
	if c.debug {
		c.log.Debug(msg, fields...)
	}
}

// AllRecommendations asks the service for every recommendation for a product.
// An empty list is a valid answer; a 404 is reported as domain.ErrProductNotFound.
func (c *Client) AllRecommendations(ctx context.Context, productName string) ([]string, error) {
	c.debugLog("requesting recommendations", zap.String("product", productName))

	payload, err := json.Marshal(domain.RecommenderRequest{ProductName: productName})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	endpoint := c.baseURL + "/all-recommendations"

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		status, body, err := c.do(ctx, http.MethodPost, endpoint, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn("request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		switch {
		case status == http.StatusOK:
			var resp domain.RecommenderResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
			if resp.Recommendations == nil {
				resp.Recommendations = []string{}
			}
			c.debugLog("received recommendations",
				zap.String("product", productName),
				zap.Int("count", len(resp.Recommendations)),
			)
			return resp.Recommendations, nil

		case status == http.StatusNotFound:
			return nil, domain.ErrProductNotFound

		case isRetryable(status):
			c.log.Warn("recommender error, retrying",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.String("body", truncate(body, maxLoggedBody)),
			)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRecommenderFailure, status)

		default:
			return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrRecommenderFailure, status, truncate(body, maxLoggedBody))
		}
	}

	c.log.Error("all retries failed", zap.String("product", productName), zap.Error(lastErr))
	return nil, lastErr
}

// Health checks that the recommendation service is reachable
func (c *Client) Health(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrRecommenderFailure, status, truncate(body, maxLoggedBody))
	}
	return nil
}

// do executes a single HTTP request and returns its status and body
func (c *Client) do(ctx context.Context, method, reqURL string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecommenderRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrRecommenderFailure, err)
	}
	defer resp.Body.Close()
	metrics.RecommenderRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrRecommenderFailure, err)
	}

	return resp.StatusCode, body, nil
}

// isRetryable reports whether a status is worth another attempt
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// truncate shortens a body for logging
func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
