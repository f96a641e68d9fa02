package github

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// Repositories returns the REST "list repositories for a user" records for
// username, sorted and windowed by opts. The result is never nil.
//
// Only the first rendered listing page is scraped. Each repository page in the
// window is fetched once, at most c.concurrency at a time.
func (c *Client) Repositories(ctx context.Context, username string, opts profile.ListOptions) ([]*profile.Repository, error) {
	kind, err := c.Kind(ctx, username)
	if err != nil {
		return nil, err
	}

	listURL := c.listingURL(username, kind)
	doc, err := c.fetcher.Fetch(ctx, listURL)
	if errors.Is(err, profile.ErrNoData) || errors.Is(err, profile.ErrNotFound) {
		return nil, fmt.Errorf("repositories of %q: %w", username, profile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("repositories of %q: %w", username, err)
	}

	entries := listingEntries(doc, kind)
	sortEntries(entries, opts.Sort, opts.Direction)
	start, end := opts.Window(len(entries))
	window := entries[start:end]

	c.logger.InfoContext(ctx, "listing repositories",
		"username", username, "kind", kind, "entries", len(entries),
		"sort", opts.Sort, "direction", opts.Direction, "start", start, "end", end)

	owner := listingOwner(doc, kind, username)
	repos := make([]*profile.Repository, len(window))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, e := range window {
		g.Go(func() error {
			r := c.extractSummary(e.node, owner)
			if err := c.fillDetail(gctx, r); err != nil {
				return err
			}
			repos[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return repos, nil
}
