// Package github serves REST-shaped user and repository records scraped from
// GitHub's public HTML pages.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/hubscrape/pkg/fetch"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

const (
	// DefaultBaseURL is the site whose pages are scraped.
	DefaultBaseURL = "https://github.com"
	// APIBaseURL prefixes the REST "url" fields of the emitted records.
	APIBaseURL = "https://api.github.com"

	defaultConcurrency = 4
)

// PageFetcher retrieves a parsed HTML page. *fetch.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*html.Node, error)
}

// Client scrapes GitHub pages. A Client holds no per-request state and is safe
// for concurrent use.
type Client struct {
	fetcher     PageFetcher
	logger      *slog.Logger
	baseURL     string
	concurrency int
}

// Option configures a Client.
type Option func(*config)

type config struct {
	fetcher     PageFetcher
	logger      *slog.Logger
	baseURL     string
	concurrency int
}

// WithFetcher sets the page fetcher.
func WithFetcher(f PageFetcher) Option {
	return func(c *config) { c.fetcher = f }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL overrides the scraped site, e.g. for a mirror or a test server.
func WithBaseURL(base string) Option {
	return func(c *config) { c.baseURL = base }
}

// WithConcurrency bounds the number of repository pages fetched at once.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// New creates a GitHub scraping client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		logger:      slog.Default(),
		baseURL:     DefaultBaseURL,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	base := strings.TrimSuffix(cfg.baseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.baseURL)
	}

	fetcher := cfg.fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.WithLogger(logger))
	}

	logger.DebugContext(ctx, "github client ready", "base_url", base, "concurrency", max(cfg.concurrency, 1))

	return &Client{
		fetcher:     fetcher,
		logger:      logger,
		baseURL:     base,
		concurrency: max(cfg.concurrency, 1),
	}, nil
}

// Kind classifies username as a person or an organization.
func (c *Client) Kind(ctx context.Context, username string) (profile.Kind, error) {
	doc, err := c.profilePage(ctx, username)
	if err != nil {
		return profile.KindPerson, err
	}
	return kindOf(doc), nil
}

// profilePage fetches the profile page of username. Pages that are missing or
// carry no data both report profile.ErrNotFound.
func (c *Client) profilePage(ctx context.Context, username string) (*html.Node, error) {
	if !validLogin(username) {
		return nil, fmt.Errorf("user %q: %w", username, profile.ErrNotFound)
	}
	doc, err := c.fetcher.Fetch(ctx, c.profileURL(username))
	if errors.Is(err, profile.ErrNoData) {
		return nil, fmt.Errorf("user %q: %w", username, profile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	return doc, nil
}

func (c *Client) profileURL(username string) string {
	return c.baseURL + "/" + url.PathEscape(username)
}

func (c *Client) listingURL(username string, kind profile.Kind) string {
	if kind == profile.KindOrganization {
		return c.baseURL + "/orgs/" + url.PathEscape(username) + "/repositories"
	}
	return c.baseURL + "/" + url.PathEscape(username) + "?tab=repositories"
}

// validLogin rejects names that cannot be a GitHub login and would otherwise
// address some other page of the site.
func validLogin(username string) bool {
	if username == "" || strings.ContainsAny(username, "/?#") {
		return false
	}
	return username != "." && username != ".."
}
