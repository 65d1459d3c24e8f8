package fplapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://fantasy.premierleague.com/api"
	defaultUserAgent = "fpl-optimizer/1.0"
	maxResponseBytes = 16 << 20
)

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// RatePerSecond caps outgoing requests; zero or less disables limiting.
	RatePerSecond float64
	Burst         int
	// BreakerThreshold is the number of consecutive failed requests that
	// opens the breaker. BreakerCooldown is how long it stays open.
	BreakerThreshold int
	BreakerCooldown  time.Duration
	Logger           *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	limiter    *rate.Limiter
	breaker    *breaker
	logger     *logging.Logger
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	limit := rate.Inf
	burst := max(cfg.Burst, 1)
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		maxRetries: max(cfg.MaxRetries, 0),
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    newBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		logger:     logger,
		now:        time.Now,
	}
}

// doJSON fetches path, decodes it into target and returns the raw body.
func (c *Client) doJSON(ctx context.Context, path string, target any) ([]byte, error) {
	raw, err := c.executeRequest(ctx, c.baseURL+path)
	if err != nil {
		return nil, err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, crerr.Wrapf(err, "decode fpl payload path=%s", path)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if !c.breaker.allow() {
		return nil, fmt.Errorf("%w: fpl api circuit open", usecase.ErrDependencyUnavailable)
	}

	raw, err := c.executeWithRetry(ctx, fullURL)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.breaker.release()
	case errors.Is(err, errFPLTransient):
		c.breaker.failure()
		if c.breaker.current() == breakerOpen {
			c.logger.WarnContext(ctx, "fpl circuit opened", "url", fullURL)
		}
	default:
		c.breaker.success()
	}
	return raw, err
}

func (c *Client) executeWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, crerr.Wrap(err, "wait for fpl rate limiter")
		}

		raw, status, err := c.send(ctx, fullURL)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = crerr.Wrapf(errFPLTransient, "send request: %v", err)
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: fpl resource %s", usecase.ErrNotFound, fullURL)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Wrapf(errFPLTransient, "fpl status=%d body=%s", status, abbreviateBody(raw))
		default:
			return nil, crerr.Newf("fpl status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", lastErr)
	return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
}

func (c *Client) send(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, resp.StatusCode, crerr.Wrap(err, "read response body")
	}

	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

func (c *Client) snapshot(entityType, entityKey string, raw []byte) rawdata.Payload {
	return rawdata.Payload{
		Source:      rawdata.SourceFPL,
		EntityType:  entityType,
		EntityKey:   entityKey,
		PayloadJSON: string(raw),
		PayloadHash: rawdata.HashPayload(raw),
		FetchedAt:   c.now().UTC(),
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
