// Package fetch retrieves and parses HTML pages with bounded retries.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// UserAgent is the browser User-Agent string sent with every page request.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0"

const (
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	defaultTimeout  = 15 * time.Second
	maxBodyBytes    = 16 << 20
)

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Fetcher performs page GETs. It is safe for concurrent use.
type Fetcher struct {
	client   *http.Client
	logger   *slog.Logger
	limiter  *rate.Limiter
	attempts uint
	delay    time.Duration
}

// Option configures a Fetcher.
type Option func(*config)

type config struct {
	client   *http.Client
	logger   *slog.Logger
	limit    rate.Limit
	burst    int
	attempts uint
	delay    time.Duration
	timeout  time.Duration
}

// WithHTTPClient sets the HTTP client. WithTimeout is ignored when this is set.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) { cfg.client = c }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) { cfg.timeout = d }
}

// WithRetryDelay sets the base delay of the exponential backoff between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(cfg *config) { cfg.delay = d }
}

// WithAttempts sets the total number of attempts per page, including the first.
func WithAttempts(n uint) Option {
	return func(cfg *config) { cfg.attempts = n }
}

// WithRate paces outbound requests to r per second with the given burst.
// A zero or negative r leaves requests unpaced.
func WithRate(r float64, burst int) Option {
	return func(cfg *config) {
		if r <= 0 {
			cfg.limit = rate.Inf
			return
		}
		cfg.limit = rate.Limit(r)
		cfg.burst = max(burst, 1)
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	cfg := &config{
		logger:   slog.Default(),
		limit:    rate.Inf,
		attempts: defaultAttempts,
		delay:    defaultDelay,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	if cfg.attempts == 0 {
		cfg.attempts = 1
	}

	return &Fetcher{
		client:   cfg.client,
		logger:   cfg.logger,
		limiter:  rate.NewLimiter(cfg.limit, cfg.burst),
		attempts: cfg.attempts,
		delay:    cfg.delay,
	}
}

// Fetch GETs rawURL and returns the parsed document.
//
// A 404 or 304 response yields an error wrapping profile.ErrNotFound. Other
// non-error statuses besides 200 yield profile.ErrNoData. Network failures and
// error statuses are retried with exponential backoff; once attempts run out
// the error wraps profile.ErrUpstream.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*html.Node, error) {
	start := time.Now()
	body, err := f.get(ctx, rawURL)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) || errors.Is(err, profile.ErrNoData) {
			f.logger.DebugContext(ctx, "page unavailable", "url", rawURL, "error", err)
			return nil, err
		}
		f.logger.WarnContext(ctx, "page fetch failed", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %w", profile.ErrUpstream, err)
	}
	f.logger.DebugContext(ctx, "page fetched", "url", rawURL, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())

	return htmlutil.Parse(bytes.NewReader(body))
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	// The default delay type backs off exponentially from Delay and adds up to
	// MaxJitter of random delay, which must be non-zero.
	return retry.DoWithData(
		func() ([]byte, error) { return f.do(ctx, rawURL) },
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.MaxJitter(max(f.delay/4, time.Millisecond)),
		retry.RetryIf(func(err error) bool { return ctx.Err() == nil && isRetryableError(err) }),
		retry.OnRetry(func(n uint, err error) {
			f.logger.DebugContext(ctx, "retrying page request", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
}

func (f *Fetcher) do(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	case code == http.StatusNotFound, code == http.StatusNotModified:
		return nil, fmt.Errorf("%w: %w", profile.ErrNotFound, &HTTPError{StatusCode: code, URL: rawURL})
	case code >= http.StatusBadRequest:
		return nil, &HTTPError{StatusCode: code, URL: rawURL}
	default:
		return nil, fmt.Errorf("%w: %w", profile.ErrNoData, &HTTPError{StatusCode: code, URL: rawURL})
	}
}

// isRetryableError returns true for failures worth another attempt.
func isRetryableError(err error) bool {
	if errors.Is(err, profile.ErrNotFound) || errors.Is(err, profile.ErrNoData) {
		return false
	}
	// Every other error status and all network errors, client timeouts included,
	// are treated as transient. Cancellation of the caller's context is checked
	// separately in RetryIf.
	return true
}
