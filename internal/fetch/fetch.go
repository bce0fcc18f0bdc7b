// Package fetch implements the shared HTTP fetcher every scraper issues
// requests through: one adaptive rate limiter, one circuit breaker, and an
// optional response cache per process, grounded on libaf/scraping.go's
// download path and original_source's core/scraper.py http_client usage.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/i-dot-ai/lex-sub001/internal/breaker"
	"github.com/i-dot-ai/lex-sub001/internal/httpcache"
	"github.com/i-dot-ai/lex-sub001/internal/metrics"
	"github.com/i-dot-ai/lex-sub001/internal/ratelimit"
	"go.uber.org/zap"
)

// ErrNotFound is returned for HTTP 404 responses — never retried.
var ErrNotFound = errors.New("fetch: not found")

// RateLimitedError carries an optional Retry-After hint.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string { return "fetch: rate limited" }

// Response is a fetched resource.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Text() string { return string(r.Body) }

// Config configures a Fetcher.
type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      ratelimit.Config
	BreakerConfig  breaker.Config
	CacheTTL       time.Duration
	CacheMaxItems  int
	EnableCache    bool
}

// DefaultConfig is the legislation-scraping profile: 30s timeout, 5 retries.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		MaxRetries:    5,
		RateLimit:     ratelimit.Config{MinDelay: ratelimit.DefaultMinDelay},
		BreakerConfig: breaker.DefaultConfig(),
	}
}

// Fetcher is the single shared client every scraper issues requests
// through. One instance per process; the rate limiter and breaker it
// holds are safe for concurrent use by many workers.
type Fetcher struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	breaker *breaker.Breaker
	cache   *httpcache.Cache
	maxRetries int
	logger  *zap.Logger
}

// New constructs a Fetcher from Config.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    ratelimit.New(cfg.RateLimit),
		breaker:    breaker.New(cfg.BreakerConfig),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
	if cfg.EnableCache {
		f.cache = httpcache.New(cfg.CacheTTL, cfg.CacheMaxItems)
	}
	if f.maxRetries <= 0 {
		f.maxRetries = 5
	}
	return f
}

// WithLimiter overrides the fetcher's rate limiter, used by the case-law
// scraper to install its harsher-growth profile on a shared fetcher
// instance (mirroring the original's http_client.rate_limiter override).
func (f *Fetcher) WithLimiter(l *ratelimit.Limiter) *Fetcher {
	f.limiter = l
	return f
}

// Limiter exposes the fetcher's rate limiter for stats/inspection.
func (f *Fetcher) Limiter() *ratelimit.Limiter { return f.limiter }

// Breaker exposes the fetcher's circuit breaker for stats/inspection.
func (f *Fetcher) Breaker() *breaker.Breaker { return f.breaker }

// Get issues a GET, retrying transient failures with exponential backoff
// and honouring the rate limiter and circuit breaker.
func (f *Fetcher) Get(ctx context.Context, url string) (*Response, error) {
	return f.do(ctx, http.MethodGet, url)
}

// Head issues a HEAD request.
func (f *Fetcher) Head(ctx context.Context, url string) (*Response, error) {
	return f.do(ctx, http.MethodHead, url)
}

func (f *Fetcher) do(ctx context.Context, method, url string) (*Response, error) {
	if method == http.MethodGet && f.cache != nil {
		if entry, ok := f.cache.Get(url); ok {
			return &Response{StatusCode: entry.StatusCode, Body: entry.Body}, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			jitter := time.Duration(rand.Int63n(int64(500 * time.Millisecond)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		metrics.RateLimiterDelay.WithLabelValues(requestHost(url)).Observe(f.limiter.CurrentDelay().Seconds())
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var resp *Response
		callStart := time.Now()
		callErr := f.breaker.Call(ctx, func(ctx context.Context) error {
			var err error
			resp, err = f.doOnce(ctx, method, url)
			return err
		})
		metrics.FetchDuration.WithLabelValues(requestHost(url)).Observe(time.Since(callStart).Seconds())
		metrics.CircuitBreakerState.WithLabelValues(requestHost(url)).Set(float64(f.breaker.State()))

		if callErr == nil {
			f.limiter.RecordSuccess()
			if method == http.MethodGet && f.cache != nil {
				f.cache.Put(url, httpcache.Entry{StatusCode: resp.StatusCode, Body: resp.Body})
			}
			return resp, nil
		}

		var notFound = errors.Is(callErr, ErrNotFound)
		if notFound {
			return nil, callErr // never retried
		}

		var rl *RateLimitedError
		if errors.As(callErr, &rl) {
			f.limiter.RecordRateLimit(rl.RetryAfter)
		}

		lastErr = callErr
		f.logger.Warn("fetch attempt failed", zap.String("url", url), zap.Int("attempt", attempt), zap.Error(callErr))
	}
	return nil, fmt.Errorf("fetch: exhausted retries for %s: %w", url, lastErr)
}

func (f *Fetcher) doOnce(ctx context.Context, method, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 436:
		return nil, &RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("fetch: http error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("fetch: http error: status code %d", resp.StatusCode)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// requestHost extracts the host label the fetch metrics are keyed by,
// falling back to the raw URL if it doesn't parse.
func requestHost(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d > 0 {
			return d
		}
	}
	return 0
}
